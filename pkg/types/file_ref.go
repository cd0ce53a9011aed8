package types

import (
	"path/filepath"
	"sort"
	"strings"
)

// FileRef is an immutable reference to a file on disk. Two refs are the
// same file when their paths are equal.
type FileRef struct {
	path string
}

// NewFileRef returns a ref for path. Relative paths are resolved against the
// working directory; if that fails the cleaned path is kept as is.
func NewFileRef(path string) FileRef {
	if abs, err := filepath.Abs(path); err == nil {
		return FileRef{path: abs}
	}
	return FileRef{path: filepath.Clean(path)}
}

// NewFileRefs converts a list of paths.
func NewFileRefs(paths ...string) []FileRef {
	refs := make([]FileRef, 0, len(paths))
	for _, p := range paths {
		refs = append(refs, NewFileRef(p))
	}
	return refs
}

// Path returns the full path.
func (f FileRef) Path() string {
	return f.path
}

// IsZero reports whether the ref points nowhere.
func (f FileRef) IsZero() bool {
	return f.path == ""
}

// Name returns the file name including its extension.
func (f FileRef) Name() string {
	return filepath.Base(f.path)
}

// BaseName returns the file name without its final extension.
func (f FileRef) BaseName() string {
	name := f.Name()
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Ext returns the lowercased extension without the leading dot.
func (f FileRef) Ext() string {
	return strings.ToLower(f.RawExt())
}

// RawExt returns the extension as written on disk, without the leading dot.
func (f FileRef) RawExt() string {
	return strings.TrimPrefix(filepath.Ext(f.path), ".")
}

// Dir returns the parent directory.
func (f FileRef) Dir() string {
	return filepath.Dir(f.path)
}

func (f FileRef) String() string {
	return f.path
}

// Paths returns the paths of refs, in order.
func Paths(refs []FileRef) []string {
	paths := make([]string, len(refs))
	for i, r := range refs {
		paths[i] = r.Path()
	}
	return paths
}

// ExtensionSet is a set of lowercase extensions without leading dots.
// An empty set accepts every extension.
type ExtensionSet map[string]struct{}

// Default extension sets.
var (
	MediaExtensions    = []string{"mp4", "mkv"}
	SubtitleExtensions = []string{"smi", "srt", "ass"}
)

// NewExtensionSet normalizes exts ("MP4", ".mkv" -> "mp4", "mkv").
func NewExtensionSet(exts ...string) ExtensionSet {
	set := make(ExtensionSet, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			set[e] = struct{}{}
		}
	}
	return set
}

// Contains reports whether ext (any case, with or without dot) is allowed.
func (s ExtensionSet) Contains(ext string) bool {
	if len(s) == 0 {
		return true
	}
	_, ok := s[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return ok
}

// Allows reports whether the file behind ref has an allowed extension.
func (s ExtensionSet) Allows(ref FileRef) bool {
	if len(s) == 0 {
		return true
	}
	return ref.Ext() != "" && s.Contains(ref.Ext())
}

// List returns the extensions in sorted order.
func (s ExtensionSet) List() []string {
	list := make([]string, 0, len(s))
	for e := range s {
		list = append(list, e)
	}
	sort.Strings(list)
	return list
}

func (s ExtensionSet) String() string {
	return strings.Join(s.List(), ", ")
}

// Direction is the way SwapAdjacent moves an element.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}
