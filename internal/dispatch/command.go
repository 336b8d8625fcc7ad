package dispatch

import (
	"errors"
	"fmt"

	"sdui-cli/internal/model"
	"sdui-cli/internal/state"
)

// ErrUnsupported marks capabilities that are accepted but do nothing. They
// are reported, never treated as failures.
var ErrUnsupported = errors.New("capability not supported")

// Command is a decoded action with its payload already resolved.
type Command interface {
	Capability() string
	Apply(st *state.Store) error
}

// DecodeFunc turns a resolved payload into a Command. It returns an error
// when a required field is missing or has the wrong shape.
type DecodeFunc func(payload map[string]any) (Command, error)

type payloadError struct {
	capability string
	field      string
	want       string
}

func (e payloadError) Error() string {
	return fmt.Sprintf("%s: payload field %q must be %s", e.capability, e.field, e.want)
}

type StateSet struct {
	Path  string
	Value any
}

func (StateSet) Capability() string { return model.CapStateSet }

func (c StateSet) Apply(st *state.Store) error {
	st.SetPath(c.Path, c.Value)
	return nil
}

func decodeStateSet(p map[string]any) (Command, error) {
	path, ok := p["path"].(string)
	if !ok {
		return nil, payloadError{capability: model.CapStateSet, field: "path", want: "a string"}
	}
	// An absent value stores null.
	return StateSet{Path: path, Value: p["value"]}, nil
}

// ModalOpen opens ModalID with {title, ...bind} as its data.
type ModalOpen struct {
	ModalID string
	Title   any
	// HasTitle is false when the payload carried no title (or a null one);
	// the data then has no title key at all.
	HasTitle bool
	Bind     map[string]any
}

func (ModalOpen) Capability() string { return model.CapModalOpen }

// Data builds the modal data. Bind is applied after the title, so a bind
// field named "title" wins over the explicit title.
func (c ModalOpen) Data() map[string]any {
	data := make(map[string]any, len(c.Bind)+1)
	if c.HasTitle {
		data["title"] = c.Title
	}
	for k, v := range c.Bind {
		data[k] = v
	}
	return data
}

func (c ModalOpen) Apply(st *state.Store) error {
	st.OpenModal(c.ModalID, c.Data())
	return nil
}

func decodeModalOpen(p map[string]any) (Command, error) {
	id, ok := p["modalId"].(string)
	if !ok {
		return nil, payloadError{capability: model.CapModalOpen, field: "modalId", want: "a string"}
	}
	c := ModalOpen{ModalID: id}
	if title, ok := p["title"]; ok && title != nil {
		c.Title = title
		c.HasTitle = true
	}
	// Only mappings contribute fields; anything else binds nothing.
	if bind, ok := p["bind"].(map[string]any); ok {
		c.Bind = bind
	}
	return c, nil
}

// ModalClose closes ModalID. Without a modalId it targets "", which only
// matters if a modal was opened under the empty id.
type ModalClose struct {
	ModalID string
}

func (ModalClose) Capability() string { return model.CapModalClose }

func (c ModalClose) Apply(st *state.Store) error {
	st.CloseModal(c.ModalID)
	return nil
}

func decodeModalClose(p map[string]any) (Command, error) {
	id, _ := p["modalId"].(string)
	return ModalClose{ModalID: id}, nil
}

// DataFetch is part of the vocabulary but has no effect yet.
type DataFetch struct {
	Payload map[string]any
}

func (DataFetch) Capability() string { return model.CapDataFetch }

func (DataFetch) Apply(*state.Store) error { return ErrUnsupported }

func decodeDataFetch(p map[string]any) (Command, error) {
	return DataFetch{Payload: p}, nil
}

// UnknownCapability carries any capability name the registry does not know.
type UnknownCapability struct {
	Name    string
	Payload map[string]any
}

func (c UnknownCapability) Capability() string { return c.Name }

func (UnknownCapability) Apply(*state.Store) error { return ErrUnsupported }
