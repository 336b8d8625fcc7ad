package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"sdui-cli/internal/dispatch"
	"sdui-cli/internal/model"
)

// KindPlaceholder is the root kind of a tree rendered before mount.
const KindPlaceholder model.Type = "placeholder"

// Node is one rendered component. Fields hold display text already
// resolved against the snapshot the tree was rendered from.
type Node struct {
	Kind        model.Type `json:"kind"`
	Key         string     `json:"key"`
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Content     string     `json:"content,omitempty"`
	// Text is the body of a text node or the label of a button.
	Text string `json:"text,omitempty"`
	// Open is only meaningful for dialogs.
	Open bool `json:"open,omitempty"`
	// Handle addresses the node's callbacks on the Tree. Cards and buttons
	// have one; dialogs have one while open.
	Handle   string  `json:"handle,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// Interactive reports whether the node can be activated.
func (n *Node) Interactive() bool {
	return n.Handle != "" && (n.Kind == model.TypeCard || n.Kind == model.TypeButton)
}

// Walk visits n and its descendants depth-first. Returning false skips the
// node's children.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

type handler struct {
	activate func() dispatch.Result
	dismiss  func()
}

// Tree is the output of one render pass plus the callbacks it registered.
// Callbacks capture the item scope of their node; running one mutates the
// store, after which the host renders a fresh tree.
type Tree struct {
	Root        *Node  `json:"root"`
	Placeholder bool   `json:"placeholder,omitempty"`
	Version     uint64 `json:"version"`

	handlers map[string]handler
}

func newTree(version uint64) *Tree {
	return &Tree{Version: version, handlers: map[string]handler{}}
}

// Activate runs the click actions registered under handle.
func (t *Tree) Activate(handle string) (dispatch.Result, bool) {
	h, ok := t.handlers[handle]
	if !ok || h.activate == nil {
		return dispatch.Result{}, false
	}
	return h.activate(), true
}

// Dismiss signals close intent on the open dialog registered under handle.
func (t *Tree) Dismiss(handle string) bool {
	h, ok := t.handlers[handle]
	if !ok || h.dismiss == nil {
		return false
	}
	h.dismiss()
	return true
}

// Interactive lists activatable nodes under root (or the whole tree) in
// render order.
func (t *Tree) Interactive(root *Node) []*Node {
	if root == nil {
		root = t.Root
	}
	var out []*Node
	root.Walk(func(n *Node, _ int) bool {
		if n.Interactive() {
			out = append(out, n)
		}
		// Content of a closed dialog is not rendered, so nothing to skip.
		return true
	})
	return out
}

// OpenDialogs lists open dialogs in render order.
func (t *Tree) OpenDialogs() []*Node {
	var out []*Node
	t.Root.Walk(func(n *Node, _ int) bool {
		if n.Kind == model.TypeDialog && n.Open {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Find returns the node with the given key.
func (t *Tree) Find(key string) *Node {
	var found *Node
	t.Root.Walk(func(n *Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.Key == key {
			found = n
			return false
		}
		return true
	})
	return found
}

// WriteText writes an indented outline of the tree.
func (t *Tree) WriteText(w io.Writer) error {
	var b strings.Builder
	if t.Placeholder {
		b.WriteString("(not mounted)\n")
	}
	t.Root.Walk(func(n *Node, depth int) bool {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(string(n.Kind))
		if n.ID != "" {
			b.WriteString("#" + n.ID)
		}
		for _, f := range []struct{ k, v string }{
			{"title", n.Title},
			{"description", n.Description},
			{"content", n.Content},
			{"text", n.Text},
		} {
			if f.v != "" {
				fmt.Fprintf(&b, " %s=%s", f.k, strconv.Quote(f.v))
			}
		}
		if n.Kind == model.TypeDialog {
			fmt.Fprintf(&b, " open=%v", n.Open)
		}
		if n.Handle != "" {
			fmt.Fprintf(&b, " [%s]", n.Handle)
		}
		b.WriteByte('\n')
		return true
	})
	_, err := io.WriteString(w, b.String())
	return err
}
