package main

import (
	"os"
	"path/filepath"
	"strings"

	"sdui-cli/internal/cli"
)

func isDocumentPath(s string) bool {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(s))) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// rewriteDirectDocumentArgs makes `sdui page.json` work like
// `sdui run page.json`. Cobra treats the first non-flag token as a
// subcommand, so argv is rewritten before parsing.
func rewriteDirectDocumentArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Persistent flags may come first; skip them and their values.
	valueFlags := map[string]bool{
		"--config-dir": true,
		"--catalog":    true,
		"--format":     true,
	}

	insertRun := func(i int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "run")
		out = append(out, argv[i:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			// Everything after is positional for the root command.
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if isDocumentPath(a) {
			return insertRun(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectDocumentArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
