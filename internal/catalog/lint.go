package catalog

import (
	"fmt"
	"io"
	"sort"

	"sdui-cli/internal/model"
)

// Problem is one lint finding. Path locates the node in the document, e.g.
// "body[0].itemTemplate.onClick[2]".
type Problem struct {
	Path       string `json:"path"`
	Severity   string `json:"severity"`
	Capability string `json:"capability,omitempty"`
	Message    string `json:"message"`
}

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Lint checks a page against the capability manifests: actions naming a
// capability the catalog does not know, payloads missing a required field,
// and nodes of unknown type. It only reports; rendering never depends on it.
func Lint(page *model.Page, caps []model.CapabilityManifest) []Problem {
	byKey := make(map[string]model.CapabilityManifest, len(caps))
	for _, c := range caps {
		byKey[c.Key] = c
	}
	var out []Problem
	for i, c := range page.Body {
		lintNode(c, fmt.Sprintf("body[%d]", i), byKey, &out)
	}
	return out
}

func lintNode(c model.Component, path string, caps map[string]model.CapabilityManifest, out *[]Problem) {
	switch t := c.(type) {
	case nil:
		return
	case *model.Unknown:
		msg := fmt.Sprintf("unknown component type %q", t.Type)
		if t.Err != nil {
			msg = fmt.Sprintf("undecodable component: %v", t.Err)
		}
		*out = append(*out, Problem{Path: path, Severity: SeverityWarning, Message: msg})
		return
	case *model.CardList:
		if t.ItemTemplate != nil {
			lintNode(t.ItemTemplate, path+".itemTemplate", caps, out)
		}
		return
	}

	field := "onClick"
	if c.Kind() == model.TypeDialog {
		field = "onOpenChange"
	}
	for i, a := range model.Actions(c) {
		lintAction(a, fmt.Sprintf("%s.%s[%d]", path, field, i), caps, out)
	}
	for i, ch := range model.Children(c) {
		lintNode(ch, fmt.Sprintf("%s.children[%d]", path, i), caps, out)
	}
}

func lintAction(a model.Action, path string, caps map[string]model.CapabilityManifest, out *[]Problem) {
	m, ok := caps[a.Capability]
	if !ok {
		*out = append(*out, Problem{
			Path:       path,
			Severity:   SeverityWarning,
			Capability: a.Capability,
			Message:    fmt.Sprintf("capability %q is not in the catalog", a.Capability),
		})
		return
	}
	required := append([]string(nil), m.PayloadSchema.Required...)
	sort.Strings(required)
	for _, field := range required {
		if _, ok := a.Payload[field]; ok {
			continue
		}
		*out = append(*out, Problem{
			Path:       path,
			Severity:   SeverityError,
			Capability: a.Capability,
			Message:    fmt.Sprintf("payload is missing required field %q", field),
		})
	}
}

// HasErrors reports whether any problem is an error.
func HasErrors(ps []Problem) bool {
	for _, p := range ps {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}

// WriteProblems prints one line per problem.
func WriteProblems(w io.Writer, ps []Problem) error {
	if len(ps) == 0 {
		_, err := fmt.Fprintln(w, "ok")
		return err
	}
	for _, p := range ps {
		if _, err := fmt.Fprintf(w, "%s: %s: %s\n", p.Severity, p.Path, p.Message); err != nil {
			return err
		}
	}
	return nil
}
