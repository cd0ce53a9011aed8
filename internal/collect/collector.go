// Package collect expands dropped or scanned paths into a flat list of files
// filtered by extension.
package collect

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"ezsubs/internal/errors"
	"ezsubs/internal/log"
	"ezsubs/pkg/types"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"
)

// Result is the outcome of one collection. Files keep input order; each
// directory's matches follow in discovery order. Duplicates are not removed.
type Result struct {
	Files    []types.FileRef
	Warnings []*errors.CollectionWarning
}

// Collector walks files and directories on a filesystem.
type Collector struct {
	fs afero.Fs
}

// New creates a collector over the OS filesystem.
func New() *Collector {
	return NewWithFs(afero.NewOsFs())
}

// NewWithFs creates a collector over fs.
func NewWithFs(fs afero.Fs) *Collector {
	return &Collector{fs: fs}
}

// Matcher compiles an extension set into a glob over lowercased file names.
// An empty set matches everything.
func Matcher(allowed types.ExtensionSet) glob.Glob {
	exts := allowed.List()
	if len(exts) == 0 {
		return glob.MustCompile("*")
	}
	for i, e := range exts {
		exts[i] = glob.QuoteMeta(e)
	}
	return glob.MustCompile("*.{" + strings.Join(exts, ",") + "}")
}

// Collect expands refs. Plain files are kept when their extension is
// allowed; directories contribute their immediate children, or their whole
// subtree when recursive is set. Unreadable paths are skipped and reported
// as warnings. If ctx is cancelled the partial result is returned together
// with ctx.Err().
func (c *Collector) Collect(ctx context.Context, refs []string, allowed types.ExtensionSet, recursive bool) (Result, error) {
	var res Result
	match := Matcher(allowed)

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		path := types.NewFileRef(ref).Path()
		info, err := c.fs.Stat(path)
		if err != nil {
			res.warn(path, err)
			continue
		}

		if !info.IsDir() {
			if match.Match(strings.ToLower(info.Name())) {
				res.Files = append(res.Files, types.NewFileRef(path))
			} else {
				log.LogWithFields(log.F("file", path)).Debug("Extension not allowed, ignoring")
			}
			continue
		}

		if recursive {
			err = c.walk(ctx, path, match, &res)
		} else {
			c.list(path, match, &res)
		}
		if err != nil {
			return res, err
		}
	}

	log.LogWithFields(
		log.F("inputs", len(refs)),
		log.F("files", len(res.Files)),
		log.F("warnings", len(res.Warnings)),
		log.F("recursive", recursive),
	).Debug("Collected files")
	return res, nil
}

// list adds the matching immediate children of dir, in name order.
func (c *Collector) list(dir string, match glob.Glob, res *Result) {
	entries, err := afero.ReadDir(c.fs, dir)
	if err != nil {
		res.warn(dir, err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if match.Match(strings.ToLower(entry.Name())) {
			res.Files = append(res.Files, types.NewFileRef(filepath.Join(dir, entry.Name())))
		}
	}
}

// walk adds every matching file below root. Sub-directories that cannot be
// read are reported and skipped; the walk carries on with their siblings.
func (c *Collector) walk(ctx context.Context, root string, match glob.Glob, res *Result) error {
	return afero.Walk(c.fs, root, func(path string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			res.warn(path, err)
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if match.Match(strings.ToLower(info.Name())) {
			res.Files = append(res.Files, types.NewFileRef(path))
		}
		return nil
	})
}

func (r *Result) warn(path string, err error) {
	w := errors.NewCollectionWarning(path, err)
	r.Warnings = append(r.Warnings, w)
	log.LogWithError(w).Warn("Skipping unreadable path")
}

// Err folds the warnings into one error, or nil when there are none.
func (r Result) Err() error {
	if len(r.Warnings) == 0 {
		return nil
	}
	errs := make([]error, len(r.Warnings))
	for i, w := range r.Warnings {
		errs[i] = w
	}
	return errors.Join(errs...)
}
