package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sdui-cli/internal/catalog"
)

func builtins(t *testing.T) Catalog {
	t.Helper()
	comps, caps, exs, err := catalog.Builtins()
	if err != nil {
		t.Fatalf("builtins: %v", err)
	}
	return Catalog{Components: comps, Capabilities: caps, Examples: exs}
}

func TestRenderCapabilityMarkdown_PayloadTable(t *testing.T) {
	c := builtins(t)
	var md string
	for _, m := range c.Capabilities {
		if m.Key == "modal.open" {
			md = RenderCapabilityMarkdown(m)
		}
	}
	for _, want := range []string{"# modal.open", "## Payload", "| `modalId` | string | yes |", "| `bind` | object |  |"} {
		if !strings.Contains(md, want) {
			t.Fatalf("missing %q in:\n%s", want, md)
		}
	}
}

func TestRenderExampleMarkdown_EmbedsDocument(t *testing.T) {
	c := builtins(t)
	md, err := RenderExampleMarkdown(c.Examples[0])
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(md, "```json\n{\n  \"type\": \"page\"") {
		t.Fatalf("expected indented document:\n%s", md)
	}
}

func TestWriteCatalog(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := builtins(t)
	res, err := WriteCatalog(c, dir, WriteOptions{})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	want := 1 + len(c.Components) + len(c.Capabilities) + len(c.Examples)
	if len(res.Written) != want {
		t.Fatalf("expected %d files, got %d", want, len(res.Written))
	}
	b, err := os.ReadFile(filepath.Join(dir, "capabilities", "modal.open.md"))
	if err != nil {
		t.Fatalf("read capability page: %v", err)
	}
	if !strings.HasPrefix(string(b), "# modal.open\n") {
		t.Fatalf("unexpected page:\n%s", b)
	}
	index, err := os.ReadFile(filepath.Join(dir, "index.md"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if !strings.Contains(string(index), "(examples/openCardDetailModal.md)") {
		t.Fatalf("index missing example link:\n%s", index)
	}

	if _, err := WriteCatalog(c, dir, WriteOptions{}); err == nil || !strings.Contains(err.Error(), "file exists") {
		t.Fatalf("expected overwrite guard, got %v", err)
	}
	if _, err := WriteCatalog(c, dir, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if _, err := WriteCatalog(c, "  ", WriteOptions{}); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}

func TestFileName(t *testing.T) {
	for in, want := range map[string]string{
		"modal.open": "modal.open.md",
		"../etc":     "etc.md",
		"a b/c":      "a-b-c.md",
		"":           "unnamed.md",
	} {
		if got := fileName(in); got != want {
			t.Fatalf("fileName(%q) = %q, want %q", in, got, want)
		}
	}
}
