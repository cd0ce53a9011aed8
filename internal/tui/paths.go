package tui

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// splitPaths turns pasted text into paths. Terminals paste dragged files as
// shell words: quoted ('a b.srt', "a b.srt"), backslash-escaped (a\ b.srt)
// or as file:// URIs.
func splitPaths(input string) []string {
	var (
		paths   []string
		current strings.Builder
		quote   rune
		escaped bool
		inWord  bool
	)
	flush := func() {
		if inWord {
			paths = append(paths, normalizePath(current.String()))
		}
		current.Reset()
		inWord = false
	}

	for _, r := range input {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inWord = true
		case unicode.IsSpace(r):
			flush()
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	flush()
	return paths
}

func normalizePath(p string) string {
	if strings.HasPrefix(p, "file://") {
		if u, err := url.Parse(p); err == nil {
			p = u.Path
		}
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
