// Package dispatch executes SDUI action lists against a state.Store.
package dispatch

import (
	"errors"
	"io"
	"log/slog"
	"sort"

	"sdui-cli/internal/model"
	"sdui-cli/internal/resolve"
	"sdui-cli/internal/state"
)

// Registry maps capability names to payload decoders.
type Registry struct {
	decoders map[string]DecodeFunc
}

// DefaultRegistry knows the four built-in capabilities.
func DefaultRegistry() *Registry {
	r := &Registry{decoders: map[string]DecodeFunc{}}
	r.Register(model.CapStateSet, decodeStateSet)
	r.Register(model.CapModalOpen, decodeModalOpen)
	r.Register(model.CapModalClose, decodeModalClose)
	r.Register(model.CapDataFetch, decodeDataFetch)
	return r
}

// Register adds or replaces the decoder for a capability.
func (r *Registry) Register(name string, fn DecodeFunc) {
	r.decoders[name] = fn
}

func (r *Registry) Known(name string) bool {
	_, ok := r.decoders[name]
	return ok
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.decoders))
	for k := range r.decoders {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Decode builds the Command for a resolved payload. Unregistered names
// decode to UnknownCapability.
func (r *Registry) Decode(name string, payload map[string]any) (Command, error) {
	fn, ok := r.decoders[name]
	if !ok {
		return UnknownCapability{Name: name, Payload: payload}, nil
	}
	return fn(payload)
}

type Dispatcher struct {
	store    *state.Store
	registry *Registry
	log      *slog.Logger
}

type Option func(*Dispatcher)

func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l
		}
	}
}

func WithRegistry(r *Registry) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.registry = r
		}
	}
}

func New(st *state.Store, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:    st,
		registry: DefaultRegistry(),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Dispatcher) Store() *state.Store { return d.store }

func (d *Dispatcher) Registry() *Registry { return d.registry }

// Result counts what happened to each action of one Dispatch call.
type Result struct {
	Applied     int `json:"applied"`
	Unsupported int `json:"unsupported"`
	Invalid     int `json:"invalid"`
}

// Dispatch runs actions in order. Each payload is resolved against the
// store as it is when that action starts, so earlier actions are visible to
// later ones. Problems with one action are logged and the rest still run.
func (d *Dispatcher) Dispatch(actions []model.Action, item any) Result {
	var res Result
	for i, a := range actions {
		snap := d.store.Snapshot()
		payload := resolve.ResolveMap(a.Payload, resolve.Scopes{
			Context: snap.Context,
			State:   snap.State,
			Item:    item,
		})

		cmd, err := d.registry.Decode(a.Capability, payload)
		if err != nil {
			d.log.Warn("skipping action", "index", i, "capability", a.Capability, "err", err)
			res.Invalid++
			continue
		}

		err = cmd.Apply(d.store)
		switch {
		case err == nil:
			res.Applied++
			d.log.Debug("applied action", "index", i, "capability", cmd.Capability(), "version", d.store.Version())
		case errors.Is(err, ErrUnsupported):
			res.Unsupported++
			if _, ok := cmd.(UnknownCapability); ok {
				d.log.Warn("unknown capability", "index", i, "capability", a.Capability)
			} else {
				d.log.Warn("capability not implemented", "index", i, "capability", a.Capability, "payload", payload)
			}
		default:
			res.Invalid++
			d.log.Warn("action failed", "index", i, "capability", a.Capability, "err", err)
		}
	}
	return res
}
