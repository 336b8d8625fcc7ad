package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrNotPage = errors.New("document root is not a page")

type wireComponent struct {
	Type string `json:"type"`
	Common
	ItemTemplate json.RawMessage   `json:"itemTemplate,omitempty"`
	OnClick      []Action          `json:"onClick,omitempty"`
	OnOpenChange []Action          `json:"onOpenChange,omitempty"`
	Children     []json.RawMessage `json:"children,omitempty"`
	Body         []json.RawMessage `json:"body,omitempty"`
	State        *OrderedMap       `json:"state,omitempty"`
	Context      *OrderedMap       `json:"context,omitempty"`
}

// DecodeJSON decodes a full document. Only the root is checked strictly;
// nested nodes that fail to decode become *Unknown so the rest still renders.
func DecodeJSON(b []byte) (*Page, error) {
	var w wireComponent
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if Type(w.Type) != TypePage {
		return nil, fmt.Errorf("%w: type %q", ErrNotPage, w.Type)
	}
	return w.component().(*Page), nil
}

// DecodeYAML accepts the same document written as YAML. Key order of
// mappings is preserved.
func DecodeYAML(b []byte) (*Page, error) {
	var n yaml.Node
	if err := yaml.Unmarshal(b, &n); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	var buf bytes.Buffer
	if err := writeYAMLNodeJSON(&buf, &n); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return DecodeJSON(buf.Bytes())
}

// Decode picks the decoder from the file name; anything that is not .yaml or
// .yml is treated as JSON.
func Decode(name string, b []byte) (*Page, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return DecodeYAML(b)
	default:
		return DecodeJSON(b)
	}
}

// DecodeComponent decodes a single node.
func DecodeComponent(raw json.RawMessage) Component {
	var w wireComponent
	if err := json.Unmarshal(raw, &w); err != nil {
		return &Unknown{Err: err}
	}
	return w.component()
}

func decodeComponents(raws []json.RawMessage) []Component {
	if len(raws) == 0 {
		return nil
	}
	out := make([]Component, 0, len(raws))
	for _, raw := range raws {
		out = append(out, DecodeComponent(raw))
	}
	return out
}

func (w *wireComponent) component() Component {
	c := w.Common
	switch Type(w.Type) {
	case TypePage:
		p := &Page{Common: c, State: w.State, Context: w.Context, Body: decodeComponents(w.Body)}
		if p.State == nil {
			p.State = NewOrderedMap()
		}
		if p.Context == nil {
			p.Context = NewOrderedMap()
		}
		return p
	case TypeCard:
		return &Card{Common: c, OnClick: w.OnClick, Children: decodeComponents(w.Children)}
	case TypeCardList:
		cl := &CardList{Common: c}
		if raw := bytes.TrimSpace(w.ItemTemplate); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
			cl.ItemTemplate = DecodeComponent(raw)
		}
		return cl
	case TypeDialog:
		return &Dialog{Common: c, OnOpenChange: w.OnOpenChange, Children: decodeComponents(w.Children)}
	case TypeText:
		return &Text{Common: c}
	case TypeButton:
		return &Button{Common: c, OnClick: w.OnClick}
	case TypeContainer:
		return &Container{Common: c, Children: decodeComponents(w.Children)}
	default:
		return &Unknown{Common: c, Type: Type(w.Type)}
	}
}

func writeYAMLNodeJSON(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeYAMLNodeJSON(buf, n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			buf.WriteString("null")
			return nil
		}
		return writeYAMLNodeJSON(buf, n.Alias)
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(n.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := writeYAMLNodeJSON(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeYAMLNodeJSON(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		buf.Write(b)
		return nil
	default:
		return fmt.Errorf("line %d: unsupported yaml node", n.Line)
	}
}
