// Package state holds the client-side store shared by the renderer and the
// dispatcher: page state, context data and modal entries.
//
// Every mutation installs a new Snapshot; snapshots already handed out are
// never modified. A Store is not safe for concurrent use. Hosts that accept
// events from several goroutines must serialise calls themselves.
package state

import "strings"

type Modal struct {
	Open bool `json:"open"`
	Data any  `json:"data,omitempty"`
}

// Snapshot is an immutable view of the store. Treat the maps as read-only.
type Snapshot struct {
	State   map[string]any   `json:"state"`
	Context map[string]any   `json:"context"`
	Modals  map[string]Modal `json:"modals"`
	Version uint64           `json:"version"`
}

// Modal returns the entry for id; a missing entry reads as closed with no
// data.
func (s Snapshot) Modal(id string) Modal {
	return s.Modals[id]
}

type Store struct {
	snap    Snapshot
	subs    map[int]func(Snapshot)
	nextSub int
}

type Option func(*Store)

// WithOnChange registers fn to run after every mutation that changed the
// snapshot.
func WithOnChange(fn func(Snapshot)) Option {
	return func(s *Store) {
		if fn != nil {
			s.Subscribe(fn)
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{snap: emptySnapshot(0), subs: map[int]func(Snapshot){}}
	for _, o := range opts {
		o(s)
	}
	return s
}

func emptySnapshot(version uint64) Snapshot {
	return Snapshot{
		State:   map[string]any{},
		Context: map[string]any{},
		Modals:  map[string]Modal{},
		Version: version,
	}
}

func (s *Store) Snapshot() Snapshot { return s.snap }

func (s *Store) Version() uint64 { return s.snap.Version }

// Subscribe calls fn with each new snapshot until cancel is called.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

// SetPath writes v at a dot-separated path in page state. Intermediate
// segments that are missing or not mappings become empty mappings;
// sibling keys along the path are kept.
func (s *Store) SetPath(path string, v any) {
	next := s.snap
	next.State = setPath(s.snap.State, strings.Split(path, "."), v)
	s.commit(next)
}

func setPath(m map[string]any, keys []string, v any) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, e := range m {
		out[k] = e
	}
	k := keys[0]
	if len(keys) == 1 {
		out[k] = v
		return out
	}
	child, ok := out[k].(map[string]any)
	if !ok {
		child = map[string]any{}
	}
	out[k] = setPath(child, keys[1:], v)
	return out
}

// MergeContext shallow-merges data into context; top-level keys in data
// replace existing ones.
func (s *Store) MergeContext(data map[string]any) {
	if len(data) == 0 {
		return
	}
	next := s.snap
	next.Context = make(map[string]any, len(s.snap.Context)+len(data))
	for k, v := range s.snap.Context {
		next.Context[k] = v
	}
	for k, v := range data {
		next.Context[k] = v
	}
	s.commit(next)
}

func (s *Store) OpenModal(id string, data any) {
	s.putModal(id, Modal{Open: true, Data: data})
}

// CloseModal marks an existing entry closed and drops its data. The entry
// itself is kept. Closing an id that was never opened changes nothing.
func (s *Store) CloseModal(id string) {
	if _, ok := s.snap.Modals[id]; !ok {
		return
	}
	s.putModal(id, Modal{Open: false})
}

func (s *Store) putModal(id string, md Modal) {
	next := s.snap
	next.Modals = make(map[string]Modal, len(s.snap.Modals)+1)
	for k, v := range s.snap.Modals {
		next.Modals[k] = v
	}
	next.Modals[id] = md
	s.commit(next)
}

// Reset clears all three mappings. The version keeps counting so hosts see
// the reset as a change.
func (s *Store) Reset() {
	s.commit(emptySnapshot(s.snap.Version))
}

func (s *Store) commit(next Snapshot) {
	next.Version = s.snap.Version + 1
	s.snap = next
	for _, fn := range s.subs {
		fn(next)
	}
}
