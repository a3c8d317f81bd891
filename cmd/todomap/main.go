package main

import (
	"os"
	"strings"

	"todomap/internal/cli"
)

func isDocumentPath(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) > len(".md") && strings.HasSuffix(strings.ToLower(s), ".md")
}

func rewriteDocumentPathArgs(argv []string) []string {
	// Convenience: `todomap notes.md ...` works like `todomap --file notes.md ...`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (e.g. `todomap --pretty notes.md`), so we look for the
	// first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--file":      true,
		"--format":    true,
		"--log-level": true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++ // skip value if present
			}
			continue
		}

		// First positional token.
		if isDocumentPath(a) {
			out := make([]string, 0, len(argv)+1)
			out = append(out, argv[:i]...)
			out = append(out, "--file", a)
			out = append(out, argv[i+1:]...)
			return out
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDocumentPathArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
