package main

import (
	"os"
	"strconv"
	"strings"

	"curio-cli/internal/cli"
)

func isObjectID(s string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil && n > 0
}

func rewriteDirectObjectLookupArgs(argv []string) []string {
	// Convenience: `curio <object-id>` works like `curio objects get <object-id>`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv
	// before parsing.
	//
	// IMPORTANT: Users often pass persistent flags first (e.g.
	// `curio --server ... <object-id>`), so we must find the first positional
	// token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	// Minimal persistent-flag awareness. If we see flags we don't recognize, we
	// skip them (and do NOT try to skip their value) to avoid accidentally
	// consuming the object id.
	valueFlags := map[string]bool{
		"--server": true,
		"--token":  true,
	}
	boolFlags := map[string]bool{
		"--pretty":   true,
		"--no-cache": true,
		"--verbose":  true,
		"-v":         true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			// Stop flag parsing; next token (if any) is the first positional.
			if i+1 < len(argv) && isObjectID(argv[i+1]) {
				out := make([]string, 0, len(argv)+2)
				out = append(out, argv[:i+1]...)
				out = append(out, "objects", "get")
				out = append(out, argv[i+1:]...)
				return out
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			// --flag=value form
			if strings.Contains(a, "=") {
				continue
			}
			if boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++ // skip value if present
				continue
			}
			continue
		}

		// First positional token.
		if isObjectID(a) {
			out := make([]string, 0, len(argv)+2)
			out = append(out, argv[:i]...)
			out = append(out, "objects", "get")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectObjectLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
