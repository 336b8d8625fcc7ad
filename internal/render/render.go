// Package render walks an SDUI component tree against a state snapshot and
// produces a display tree whose interactive nodes call back into the
// dispatcher.
package render

import (
	"io"
	"log/slog"
	"strconv"

	"sdui-cli/internal/dispatch"
	"sdui-cli/internal/model"
	"sdui-cli/internal/resolve"
	"sdui-cli/internal/state"
)

const (
	defaultDialogID    = "default"
	defaultDialogTitle = "Dialog"
	defaultButtonLabel = "Button"
)

type Renderer struct {
	dispatcher *dispatch.Dispatcher
	log        *slog.Logger
}

type Option func(*Renderer)

func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

func New(d *dispatch.Dispatcher, opts ...Option) *Renderer {
	r := &Renderer{
		dispatcher: d,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Renderer) store() *state.Store { return r.dispatcher.Store() }

// Render renders c with the given item scope against the store's current
// snapshot. The result depends only on (c, snapshot, item); callbacks run
// later against whatever the store holds then.
func (r *Renderer) Render(c model.Component, item any) *Tree {
	snap := r.store().Snapshot()
	w := &walker{r: r, snap: snap, tree: newTree(snap.Version)}
	w.tree.Root = w.node(c, item, "root")
	if w.tree.Root == nil {
		w.tree.Root = &Node{Kind: KindPlaceholder, Key: "root"}
	}
	return w.tree
}

type walker struct {
	r    *Renderer
	snap state.Snapshot
	tree *Tree
}

type bindings struct {
	title, description, value, content, items any
}

func (w *walker) resolveBindings(c model.Component, item any) bindings {
	b := c.Base()
	sc := resolve.Scopes{Context: w.snap.Context, State: w.snap.State, Item: item}
	return bindings{
		title:       resolve.Resolve(b.Title, sc),
		description: resolve.Resolve(b.Description, sc),
		value:       resolve.Resolve(b.Value, sc),
		content:     resolve.Resolve(b.Content, sc),
		items:       resolve.Resolve(b.Items, sc),
	}
}

func (w *walker) node(c model.Component, item any, key string) *Node {
	if c == nil {
		return nil
	}
	v := w.resolveBindings(c, item)
	id := c.Base().ID

	switch t := c.(type) {
	case *model.Page:
		n := &Node{Kind: model.TypePage, Key: key, ID: id}
		// Page bodies always render in the root scope.
		w.children(n, t.Body, nil)
		return n

	case *model.CardList:
		items, ok := v.items.([]any)
		if !ok {
			w.r.log.Warn("cardList items must be a list", "key", key, "id", id, "items", v.items)
			return nil
		}
		n := &Node{Kind: model.TypeCardList, Key: key, ID: id}
		if t.ItemTemplate == nil {
			return n
		}
		used := map[string]bool{}
		for i, el := range items {
			k := elementKey(el, i, used)
			if ch := w.node(t.ItemTemplate, el, key+"/"+k); ch != nil {
				n.Children = append(n.Children, ch)
			}
		}
		return n

	case *model.Card:
		n := &Node{
			Kind:        model.TypeCard,
			Key:         key,
			ID:          id,
			Title:       displayIf(v.title),
			Description: displayIf(v.description),
			Content:     displayIf(v.content),
			Handle:      key,
		}
		w.tree.handlers[key] = handler{activate: w.activator(t.OnClick, item)}
		w.children(n, t.Children, item)
		return n

	case *model.Dialog:
		return w.dialog(t, v, item, key)

	case *model.Text:
		return &Node{Kind: model.TypeText, Key: key, ID: id, Text: model.Display(model.Or(v.value, v.content, ""))}

	case *model.Button:
		n := &Node{
			Kind:   model.TypeButton,
			Key:    key,
			ID:     id,
			Text:   model.Display(model.Or(v.title, v.value, defaultButtonLabel)),
			Handle: key,
		}
		w.tree.handlers[key] = handler{activate: w.activator(t.OnClick, item)}
		return n

	case *model.Container:
		n := &Node{Kind: model.TypeContainer, Key: key, ID: id}
		w.children(n, t.Children, item)
		return n

	case *model.Unknown:
		if t.Err != nil {
			w.r.log.Warn("undecodable component", "key", key, "err", t.Err)
		} else {
			w.r.log.Warn("unknown component type", "key", key, "type", string(t.Type))
		}
		return nil

	default:
		w.r.log.Warn("unknown component type", "key", key, "type", string(c.Kind()))
		return nil
	}
}

func (w *walker) dialog(t *model.Dialog, v bindings, item any, key string) *Node {
	modalID := t.ID
	if modalID == "" {
		modalID = defaultDialogID
	}
	md := w.snap.Modal(modalID)

	var dataTitle any
	if m, ok := md.Data.(map[string]any); ok {
		dataTitle = m["title"]
	}
	n := &Node{
		Kind:        model.TypeDialog,
		Key:         key,
		ID:          modalID,
		Title:       model.Display(model.Or(dataTitle, v.title, defaultDialogTitle)),
		Description: displayIf(v.description),
		Content:     displayIf(v.content),
		Open:        md.Open,
	}
	if !md.Open {
		// A closed dialog does not mount its content.
		return n
	}

	n.Handle = key
	onOpenChange := t.OnOpenChange
	d := w.r.dispatcher
	w.tree.handlers[key] = handler{dismiss: func() {
		if len(onOpenChange) > 0 {
			d.Dispatch(onOpenChange, item)
		}
		d.Store().CloseModal(modalID)
	}}

	scope := item
	if md.Data != nil {
		scope = md.Data
	}
	w.children(n, t.Children, scope)
	return n
}

func (w *walker) children(n *Node, cs []model.Component, item any) {
	for i, c := range cs {
		if ch := w.node(c, item, n.Key+"/"+strconv.Itoa(i)); ch != nil {
			n.Children = append(n.Children, ch)
		}
	}
}

func (w *walker) activator(actions []model.Action, item any) func() dispatch.Result {
	d := w.r.dispatcher
	return func() dispatch.Result {
		if len(actions) == 0 {
			return dispatch.Result{}
		}
		return d.Dispatch(actions, item)
	}
}

// elementKey prefers the element's own id and falls back to its position.
// Repeated keys get the position appended so handles stay unique.
func elementKey(el any, i int, used map[string]bool) string {
	k := strconv.Itoa(i)
	if m, ok := el.(map[string]any); ok && model.Truthy(m["id"]) {
		k = model.Display(m["id"])
	}
	if used[k] {
		k = k + "~" + strconv.Itoa(i)
	}
	used[k] = true
	return k
}

func displayIf(v any) string {
	if !model.Truthy(v) {
		return ""
	}
	return model.Display(v)
}
