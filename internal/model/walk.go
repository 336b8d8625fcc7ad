package model

// Children returns the nested nodes of c in document order. A card list's
// item template counts as its only child.
func Children(c Component) []Component {
	switch t := c.(type) {
	case *Page:
		return t.Body
	case *Card:
		return t.Children
	case *Dialog:
		return t.Children
	case *Container:
		return t.Children
	case *CardList:
		if t.ItemTemplate != nil {
			return []Component{t.ItemTemplate}
		}
	}
	return nil
}

// Actions returns every action list attached to c.
func Actions(c Component) []Action {
	switch t := c.(type) {
	case *Card:
		return t.OnClick
	case *Button:
		return t.OnClick
	case *Dialog:
		return t.OnOpenChange
	}
	return nil
}

// Walk visits c and its descendants depth-first. Returning false from fn
// skips the node's children.
func Walk(c Component, fn func(Component) bool) {
	if c == nil || !fn(c) {
		return
	}
	for _, ch := range Children(c) {
		Walk(ch, fn)
	}
}
