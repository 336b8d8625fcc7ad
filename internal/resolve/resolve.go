// Package resolve substitutes $ref nodes in SDUI values with data from the
// context, state and item scopes.
package resolve

import (
	"strconv"

	"sdui-cli/internal/model"
)

const (
	ScopeContext = "context"
	ScopeState   = "state"
	ScopeItem    = "item"
)

// Scopes is the data a reference can address. Item is the transient binding
// of the current list element or modal; it is never stored.
type Scopes struct {
	Context map[string]any
	State   map[string]any
	Item    any
}

// Resolve returns v with every reference replaced by the value it points to.
// It allocates new slices and maps and never mutates v or the scopes. A value
// found through a reference is returned as-is, even if it contains further
// references.
func Resolve(v any, sc Scopes) any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Resolve(e, sc)
		}
		return out
	case map[string]any:
		if ref, ok := model.AsRef(t); ok {
			return Lookup(ref, sc)
		}
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Resolve(e, sc)
		}
		return out
	default:
		return v
	}
}

// ResolveMap resolves an action payload. A nil payload resolves to an empty
// mapping.
func ResolveMap(m map[string]any, sc Scopes) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	out, ok := Resolve(m, sc).(map[string]any)
	if !ok {
		// The payload itself was a reference that did not land on a mapping.
		return map[string]any{}
	}
	return out
}

// Lookup resolves a single reference. Unknown scopes and missing path
// segments yield nil.
func Lookup(ref model.Ref, sc Scopes) any {
	var src any
	switch ref.Scope() {
	case ScopeContext:
		if sc.Context != nil {
			src = sc.Context
		}
	case ScopeState:
		if sc.State != nil {
			src = sc.State
		}
	case ScopeItem:
		src = sc.Item
	default:
		return nil
	}
	return navigate(src, ref.Path())
}

func navigate(cur any, path []string) any {
	for _, seg := range path {
		switch t := cur.(type) {
		case map[string]any:
			v, ok := t[seg]
			if !ok {
				return nil
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(t) {
				return nil
			}
			cur = t[i]
		default:
			return nil
		}
	}
	return cur
}
