// Package rename moves subtitle files to the names computed by reconcile.
package rename

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ezsubs/internal/config"
	"ezsubs/internal/errors"
	"ezsubs/internal/log"
	"ezsubs/pkg/types"

	"github.com/spf13/afero"
)

// maxRenameAttempts bounds the search for a free "name_(n).ext".
const maxRenameAttempts = 1000

// Executor performs renames on a filesystem.
type Executor struct {
	fs         afero.Fs
	dryRun     bool
	createDirs bool
	collision  string
}

// Option configures an Executor.
type Option func(*Executor)

// WithFs sets the filesystem renames are applied to.
func WithFs(fs afero.Fs) Option {
	return func(e *Executor) { e.fs = fs }
}

// WithDryRun makes the executor report what it would do without touching
// anything.
func WithDryRun(dryRun bool) Option {
	return func(e *Executor) { e.dryRun = dryRun }
}

// WithCreateDirs controls whether a missing target directory is created.
func WithCreateDirs(create bool) Option {
	return func(e *Executor) { e.createDirs = create }
}

// WithCollision sets the policy for an occupied destination.
func WithCollision(policy string) Option {
	return func(e *Executor) { e.collision = policy }
}

// New creates an executor on the OS filesystem with the fail policy.
func New(opts ...Option) *Executor {
	e := &Executor{
		fs:         afero.NewOsFs(),
		createDirs: true,
		collision:  config.CollisionFail,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewWithConfig creates an executor from the rename settings in cfg. A nil
// fs means the OS filesystem.
func NewWithConfig(cfg *config.Config, fs afero.Fs) *Executor {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Executor{
		fs:         fs,
		dryRun:     cfg.Settings.DryRun,
		createDirs: cfg.Settings.CreateDirs,
		collision:  cfg.Settings.Collision,
	}
}

// SetDryRun sets whether operations should be performed or just simulated
func (e *Executor) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// IsDryRun returns whether the executor is in dry run mode
func (e *Executor) IsDryRun() bool {
	return e.dryRun
}

// Execute runs the plan in order. A failed instruction never stops the
// ones after it; the result has exactly one outcome per instruction.
func (e *Executor) Execute(plan []types.RenameInstruction) []types.RenameOutcome {
	outcomes := make([]types.RenameOutcome, len(plan))
	failed := 0
	for i, in := range plan {
		outcomes[i] = e.Move(in)
		if outcomes[i].Err != nil {
			failed++
		}
	}
	log.LogWithFields(
		log.F("instructions", len(plan)),
		log.F("failed", failed),
		log.F("dry_run", e.dryRun),
	).Info("Rename batch finished")
	return outcomes
}

// Move renames one subtitle, applying the collision policy.
func (e *Executor) Move(in types.RenameInstruction) types.RenameOutcome {
	out := types.RenameOutcome{Instruction: in, Ref: in.Source, DryRun: e.dryRun}
	src := filepath.Clean(in.Source.Path())
	dest := filepath.Clean(in.TargetPath())

	if src == dest {
		log.LogWithFields(log.F("file", src)).Debug("Already named correctly")
		return out
	}

	srcInfo, err := e.fs.Stat(src)
	if err != nil {
		kind := errors.MoveFailed
		if errors.Is(err, os.ErrNotExist) {
			kind = errors.FileNotFound
		}
		return e.fail(out, errors.NewRenameError(kind, src, dest, err))
	}
	if srcInfo.IsDir() {
		return e.fail(out, errors.NewRenameError(errors.InvalidPath, src, dest, fmt.Errorf("source is a directory")))
	}

	if err := e.ensureDir(filepath.Dir(dest)); err != nil {
		return e.fail(out, errors.NewRenameError(errors.DirectoryCreateFailed, src, dest, err))
	}

	final, err := e.handleCollision(srcInfo, src, dest)
	if err != nil {
		return e.fail(out, err)
	}
	// Empty final means the skip policy applied.
	if final == "" {
		out.Skipped = true
		return out
	}

	if e.dryRun {
		log.LogWithFields(log.F("source", src), log.F("target", final)).Info("Would rename")
		out.Ref = types.NewFileRef(final)
		return out
	}

	if err := e.fs.Rename(src, final); err != nil {
		return e.fail(out, errors.NewRenameError(errors.MoveFailed, src, final, err))
	}
	log.LogWithFields(log.F("source", src), log.F("target", final)).Info("Renamed")
	out.Ref = types.NewFileRef(final)
	return out
}

func (e *Executor) fail(out types.RenameOutcome, err error) types.RenameOutcome {
	out.Err = err
	log.LogWithError(err).Warn("Rename failed")
	return out
}

// ensureDir makes sure dir exists, creating it when allowed. In dry run a
// missing directory is only reported.
func (e *Executor) ensureDir(dir string) error {
	info, err := e.fs.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if !e.createDirs {
		return fmt.Errorf("target directory %s does not exist", dir)
	}
	if e.dryRun {
		log.LogWithFields(log.F("dir", dir)).Info("Would create directory")
		return nil
	}
	return e.fs.MkdirAll(dir, 0755)
}

// handleCollision returns the path to rename to. An empty path with a nil
// error means the instruction is skipped.
func (e *Executor) handleCollision(srcInfo os.FileInfo, src, dest string) (string, error) {
	destInfo, err := e.fs.Stat(dest)
	if errors.Is(err, os.ErrNotExist) {
		return dest, nil
	}
	if err != nil {
		return "", errors.NewRenameError(errors.MoveFailed, src, dest, err)
	}

	// Case-only rename on a case-insensitive filesystem.
	if os.SameFile(srcInfo, destInfo) {
		return dest, nil
	}

	switch e.collision {
	case config.CollisionSkip:
		log.LogWithFields(log.F("source", src), log.F("target", dest)).Info("Destination exists, skipping")
		return "", nil
	case config.CollisionRename:
		return e.findUniqueDestName(src, dest)
	default:
		return "", errors.NewRenameError(errors.AlreadyExists, src, dest, nil)
	}
}

// findUniqueDestName finds a unique filename by adding counter to the basename
func (e *Executor) findUniqueDestName(src, dest string) (string, error) {
	ext := filepath.Ext(dest)
	base := strings.TrimSuffix(dest, ext)

	for counter := 1; counter <= maxRenameAttempts; counter++ {
		candidate := fmt.Sprintf("%s_(%d)%s", base, counter, ext)
		if _, err := e.fs.Stat(candidate); errors.Is(err, os.ErrNotExist) {
			log.LogWithFields(log.F("target", candidate)).Info("Destination exists, using numbered name")
			return candidate, nil
		}
	}
	return "", errors.NewRenameError(errors.AlreadyExists, src, dest,
		fmt.Errorf("no free name after %d attempts", maxRenameAttempts))
}
