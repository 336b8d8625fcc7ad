package render

import (
	"sdui-cli/internal/dispatch"
	"sdui-cli/internal/model"
	"sdui-cli/internal/state"
)

// Session binds one document to a store. The page's initial state and
// context are applied once by Mount; until then Render yields a placeholder
// so no host ever shows half-seeded state.
type Session struct {
	doc      *model.Page
	renderer *Renderer
	mounted  bool
}

func NewSession(doc *model.Page, d *dispatch.Dispatcher, opts ...Option) *Session {
	return &Session{doc: doc, renderer: New(d, opts...)}
}

func (s *Session) Document() *model.Page { return s.doc }

func (s *Session) Store() *state.Store { return s.renderer.store() }

func (s *Session) Dispatcher() *dispatch.Dispatcher { return s.renderer.dispatcher }

func (s *Session) Mounted() bool { return s.mounted }

// Mount seeds the store from the page: each state key is set by path in
// document order, then context is merged in one call. Calling it again is
// a no-op.
func (s *Session) Mount() {
	if s.mounted {
		return
	}
	st := s.Store()
	for _, k := range s.doc.State.Keys() {
		v, _ := s.doc.State.Get(k)
		st.SetPath(k, v)
	}
	st.MergeContext(s.doc.Context.Map())
	s.mounted = true
}

// Render returns the current tree, or a placeholder before Mount.
func (s *Session) Render() *Tree {
	if !s.mounted {
		t := newTree(s.Store().Version())
		t.Placeholder = true
		t.Root = &Node{Kind: KindPlaceholder, Key: "root"}
		return t
	}
	return s.renderer.Render(s.doc, nil)
}

// Load swaps in another document. The store is reset explicitly; the new
// document still needs Mount.
func (s *Session) Load(doc *model.Page) {
	s.Store().Reset()
	s.doc = doc
	s.mounted = false
}
