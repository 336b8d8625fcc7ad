// Package publish writes the catalog out as a tree of markdown files: an
// index plus one page per component, capability and example.
package publish

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"sdui-cli/internal/model"
)

type Catalog struct {
	Components   []model.ComponentSpec
	Capabilities []model.CapabilityManifest
	Examples     []model.InteractionExample
}

type WriteOptions struct {
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// fileName keeps keys like "modal.open" readable while refusing path
// separators.
func fileName(key string) string {
	n := strings.Trim(unsafeName.ReplaceAllString(strings.TrimSpace(key), "-"), "-.")
	if n == "" {
		n = "unnamed"
	}
	return n + ".md"
}

func WriteCatalog(c Catalog, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	var res WriteResult
	write := func(rel string, md string) error {
		p := filepath.Join(toDir, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return err
		}
		if err := writeFile(p, []byte(md), opt.Overwrite); err != nil {
			return err
		}
		res.Written = append(res.Written, p)
		return nil
	}

	if err := write("index.md", RenderIndexMarkdown(c)); err != nil {
		return res, err
	}
	for _, s := range c.Components {
		if err := write(filepath.Join("components", fileName(s.Key)), RenderComponentMarkdown(s)); err != nil {
			return res, err
		}
	}
	for _, m := range c.Capabilities {
		if err := write(filepath.Join("capabilities", fileName(m.Key)), RenderCapabilityMarkdown(m)); err != nil {
			return res, err
		}
	}
	for _, e := range c.Examples {
		md, err := RenderExampleMarkdown(e)
		if err != nil {
			return res, err
		}
		if err := write(filepath.Join("examples", fileName(e.Intent)), md); err != nil {
			return res, err
		}
	}
	return res, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
