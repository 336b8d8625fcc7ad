package publish

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"sdui-cli/internal/model"
)

type mdBuf struct {
	bytes.Buffer
}

func (b *mdBuf) line(s string) {
	b.WriteString(s)
	b.WriteString("\n")
}

func (b *mdBuf) list(label string, xs []string) {
	if len(xs) == 0 {
		return
	}
	b.line("- " + label + ": " + strings.Join(xs, ", "))
}

func RenderIndexMarkdown(c Catalog) string {
	var b mdBuf
	b.line("# Catalog")
	b.line("")

	b.line("## Components")
	b.line("")
	for _, s := range c.Components {
		b.line(fmt.Sprintf("- [%s](components/%s) (%s)", s.Key, fileName(s.Key), s.Library))
	}
	b.line("")

	b.line("## Capabilities")
	b.line("")
	for _, m := range c.Capabilities {
		b.line(fmt.Sprintf("- [%s](capabilities/%s): %s", m.Key, fileName(m.Key), m.Description))
	}
	b.line("")

	b.line("## Examples")
	b.line("")
	for _, e := range c.Examples {
		b.line(fmt.Sprintf("- [%s](examples/%s): %s", e.Intent, fileName(e.Intent), e.Summary))
	}
	return b.String()
}

func RenderComponentMarkdown(s model.ComponentSpec) string {
	var b mdBuf
	b.line("# " + s.Key)
	b.line("")
	b.line("- Library: " + s.Library)
	if s.Doc != "" {
		b.line("- Docs: " + s.Doc)
	}
	b.list("Props", s.Props)
	b.list("Subcomponents", s.Subcomponents)
	b.list("Tags", s.Tags)
	if t := strings.TrimSpace(s.EmbeddingText); t != "" {
		b.line("")
		b.line(t)
	}
	return b.String()
}

func RenderCapabilityMarkdown(m model.CapabilityManifest) string {
	var b mdBuf
	b.line("# " + m.Key)
	b.line("")
	if m.Description != "" {
		b.line(m.Description)
		b.line("")
	}
	if m.Version != "" {
		b.line("- Version: " + m.Version)
	}
	b.list("Platform", m.Platform)
	b.list("Renderer", m.Renderer)
	b.list("Tags", m.Tags)

	props := m.PayloadSchema.Properties
	if len(props) > 0 {
		required := map[string]bool{}
		for _, r := range m.PayloadSchema.Required {
			required[r] = true
		}
		names := make([]string, 0, len(props))
		for k := range props {
			names = append(names, k)
		}
		sort.Strings(names)

		b.line("")
		b.line("## Payload")
		b.line("")
		b.line("| field | type | required | description |")
		b.line("|---|---|---|---|")
		for _, k := range names {
			p := props[k]
			req := ""
			if required[k] {
				req = "yes"
			}
			b.line(fmt.Sprintf("| `%s` | %s | %s | %s |", k, model.Display(p["type"]), req, model.Display(p["description"])))
		}
	}
	return b.String()
}

func RenderExampleMarkdown(e model.InteractionExample) (string, error) {
	var b mdBuf
	b.line("# " + e.Intent)
	b.line("")
	if e.Summary != "" {
		b.line(e.Summary)
		b.line("")
	}
	b.list("Capabilities", e.RequiredCapabilities)
	b.list("Components", e.RequiredComponents)
	b.list("Tags", e.Tags)

	var doc bytes.Buffer
	if err := json.Indent(&doc, e.Document, "", "  "); err != nil {
		return "", fmt.Errorf("example %s: %w", e.Intent, err)
	}
	b.line("")
	b.line("## Document")
	b.line("")
	b.line("```json")
	b.line(doc.String())
	b.line("```")
	return b.String(), nil
}
