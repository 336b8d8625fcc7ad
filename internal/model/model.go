package model

import "encoding/json"

// Type is the component tag carried by every SDUI node.
type Type string

const (
	TypePage      Type = "page"
	TypeCard      Type = "card"
	TypeCardList  Type = "cardList"
	TypeDialog    Type = "dialog"
	TypeText      Type = "text"
	TypeButton    Type = "button"
	TypeContainer Type = "container"
)

// Capability names understood by the dispatcher.
const (
	CapStateSet   = "state.set"
	CapModalOpen  = "modal.open"
	CapModalClose = "modal.close"
	CapDataFetch  = "data.fetch"
)

type Action struct {
	Capability string         `json:"capability"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// Common holds the id and the bindable fields. Any node may carry any binding;
// a node type simply ignores the ones it does not display.
type Common struct {
	ID          string `json:"id,omitempty"`
	Title       any    `json:"title,omitempty"`
	Description any    `json:"description,omitempty"`
	Content     any    `json:"content,omitempty"`
	Value       any    `json:"value,omitempty"`
	Open        any    `json:"open,omitempty"`
	Items       any    `json:"items,omitempty"`
}

// Component is the closed set of node variants. Unknown keeps documents from
// newer producers loadable.
type Component interface {
	Kind() Type
	Base() *Common
	isComponent()
}

type Page struct {
	Common
	State   *OrderedMap
	Context *OrderedMap
	Body    []Component
}

type Card struct {
	Common
	OnClick  []Action
	Children []Component
}

type CardList struct {
	Common
	ItemTemplate Component
}

type Dialog struct {
	Common
	OnOpenChange []Action
	Children     []Component
}

type Text struct {
	Common
}

type Button struct {
	Common
	OnClick []Action
}

type Container struct {
	Common
	Children []Component
}

type Unknown struct {
	Common
	Type Type
	// Err is set when the node could not be decoded at all.
	Err error
}

func (*Page) Kind() Type      { return TypePage }
func (*Card) Kind() Type      { return TypeCard }
func (*CardList) Kind() Type  { return TypeCardList }
func (*Dialog) Kind() Type    { return TypeDialog }
func (*Text) Kind() Type      { return TypeText }
func (*Button) Kind() Type    { return TypeButton }
func (*Container) Kind() Type { return TypeContainer }
func (u *Unknown) Kind() Type { return u.Type }

func (c *Page) Base() *Common      { return &c.Common }
func (c *Card) Base() *Common      { return &c.Common }
func (c *CardList) Base() *Common  { return &c.Common }
func (c *Dialog) Base() *Common    { return &c.Common }
func (c *Text) Base() *Common      { return &c.Common }
func (c *Button) Base() *Common    { return &c.Common }
func (c *Container) Base() *Common { return &c.Common }
func (c *Unknown) Base() *Common   { return &c.Common }

func (*Page) isComponent()      {}
func (*Card) isComponent()      {}
func (*CardList) isComponent()  {}
func (*Dialog) isComponent()    {}
func (*Text) isComponent()      {}
func (*Button) isComponent()    {}
func (*Container) isComponent() {}
func (*Unknown) isComponent()   {}

// Catalog records. These describe what a document producer may emit; the
// interpreter never reads them.

const (
	RecordComponent  = "component_spec"
	RecordCapability = "capability_manifest"
	RecordExample    = "interaction_example"
)

type ComponentSpec struct {
	ID            string   `json:"id,omitempty"`
	Type          string   `json:"type"`
	Key           string   `json:"key"`
	Library       string   `json:"library"`
	Doc           string   `json:"doc,omitempty"`
	Props         []string `json:"props,omitempty"`
	Subcomponents []string `json:"subcomponents,omitempty"`
	Tags          []string `json:"tags"`
	EmbeddingText string   `json:"embedding_text,omitempty"`
}

type PayloadSchema struct {
	Type       string                    `json:"type"`
	Required   []string                  `json:"required,omitempty"`
	Properties map[string]map[string]any `json:"properties"`
}

type CapabilityManifest struct {
	ID            string        `json:"id,omitempty"`
	Type          string        `json:"type"`
	Key           string        `json:"key"`
	Version       string        `json:"version"`
	Platform      []string      `json:"platform"`
	Renderer      []string      `json:"renderer"`
	Description   string        `json:"description"`
	PayloadSchema PayloadSchema `json:"payload_schema"`
	Tags          []string      `json:"tags"`
	EmbeddingText string        `json:"embedding_text,omitempty"`
}

type InteractionExample struct {
	ID                   string          `json:"id,omitempty"`
	Type                 string          `json:"type"`
	Intent               string          `json:"intent"`
	Summary              string          `json:"summary"`
	RequiredCapabilities []string        `json:"required_capabilities"`
	RequiredComponents   []string        `json:"required_components,omitempty"`
	Document             json.RawMessage `json:"a2ui_json"`
	Tags                 []string        `json:"tags"`
	EmbeddingText        string          `json:"embedding_text,omitempty"`
}
