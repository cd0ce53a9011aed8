// Package session owns the two file lists and the sync action that renames
// subtitles after their paired media files.
package session

import (
	"context"
	"sync"

	"ezsubs/internal/collect"
	"ezsubs/internal/config"
	"ezsubs/internal/errors"
	"ezsubs/internal/fileset"
	"ezsubs/internal/log"
	"ezsubs/internal/reconcile"
	"ezsubs/internal/rename"
	"ezsubs/pkg/types"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Session holds the media and subtitle panels for one run of the program.
type Session struct {
	cfg     *config.Config
	fs      afero.Fs
	renamer rename.Renamer

	media *Panel
	subs  *Panel

	syncMu sync.Mutex // serializes SyncLists
}

// Option configures a Session.
type Option func(*Session)

// WithFs runs collection and renames against fs.
func WithFs(fs afero.Fs) Option {
	return func(s *Session) { s.fs = fs }
}

// WithRenamer replaces the rename executor.
func WithRenamer(r rename.Renamer) Option {
	return func(s *Session) { s.renamer = r }
}

// New creates a session from cfg. A nil cfg uses the defaults.
func New(cfg *config.Config, opts ...Option) *Session {
	if cfg == nil {
		cfg = config.New()
	}
	s := &Session{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.renamer == nil {
		s.renamer = rename.NewWithConfig(cfg, s.fs)
	}

	collector := collect.NewWithFs(s.fs)
	autoSort := fileset.WithAutoSort(cfg.Settings.SortOnFirstDrop)
	s.media = newPanel(Media,
		fileset.New(cfg.Media.ExtensionSet(), autoSort, fileset.WithName(Media.String())),
		collector, cfg.Collect.Recursive)
	s.subs = newPanel(Subtitles,
		fileset.New(cfg.Subtitles.ExtensionSet(), autoSort, fileset.WithName(Subtitles.String())),
		collector, cfg.Collect.Recursive)
	return s
}

// Config returns the configuration the session was built with.
func (s *Session) Config() *config.Config {
	return s.cfg
}

// Media returns the media panel.
func (s *Session) Media() *Panel {
	return s.media
}

// Subtitles returns the subtitle panel.
func (s *Session) Subtitles() *Panel {
	return s.subs
}

// Panel returns the panel for side.
func (s *Session) Panel(side Side) *Panel {
	if side == Media {
		return s.media
	}
	return s.subs
}

// Drop expands paths into the panel for side. See Panel.Drop.
func (s *Session) Drop(ctx context.Context, side Side, paths []string) <-chan DropResult {
	return s.Panel(side).Drop(ctx, paths)
}

// DropWait drops paths and waits for the batch to be applied.
func (s *Session) DropWait(ctx context.Context, side Side, paths []string) DropResult {
	return <-s.Drop(ctx, side, paths)
}

// DropBoth fills both panels in parallel. The error is the first drop
// error, typically a cancelled context.
func (s *Session) DropBoth(ctx context.Context, mediaPaths, subPaths []string) (media, subs DropResult, err error) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		media = s.DropWait(ctx, Media, mediaPaths)
		return media.Err
	})
	g.Go(func() error {
		subs = s.DropWait(ctx, Subtitles, subPaths)
		return subs.Err
	})
	err = g.Wait()
	return media, subs, err
}

// Clear empties the panel for side.
func (s *Session) Clear(side Side) {
	s.Panel(side).Clear()
}

// ClearAll empties both panels.
func (s *Session) ClearAll() {
	s.media.Clear()
	s.subs.Clear()
}

// SyncLists pairs the two lists by position and renames every subtitle
// after its media file. Successful renames are written back to the
// subtitle panel as one update. Calls are serialized.
func (s *Session) SyncLists() *SyncReport {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	report := &SyncReport{DryRun: s.renamer.IsDryRun()}
	plan, err := reconcile.Reconcile(s.media.Set(), s.subs.Set())
	if err != nil {
		var mismatch *errors.CountMismatchError
		if errors.As(err, &mismatch) {
			report.Mismatch = mismatch
		}
		log.LogWithError(err).Warn("Sync aborted")
		return report
	}

	report.Outcomes = s.renamer.Execute(plan)

	moves := make(map[string]types.FileRef)
	for _, o := range report.Outcomes {
		if o.Moved() {
			moves[o.Instruction.Source.Path()] = o.Ref
		}
	}
	if len(moves) > 0 {
		report.Updated = s.subs.Set().UpdatePaths(moves)
	}

	log.LogWithFields(
		log.F("pairs", len(plan)),
		log.F("renamed", len(report.Renamed())),
		log.F("skipped", len(report.Skipped())),
		log.F("failed", len(report.Failures())),
		log.F("dry_run", report.DryRun),
	).Info("Sync finished")
	return report
}

// SyncAsync runs SyncLists on its own goroutine. The channel receives the
// report and is closed.
func (s *Session) SyncAsync() <-chan *SyncReport {
	out := make(chan *SyncReport, 1)
	go func() {
		defer close(out)
		out <- s.SyncLists()
	}()
	return out
}

// Close stops both panel writers. Drops still collecting are cancelled and
// report ErrClosed.
func (s *Session) Close() {
	s.media.close()
	s.subs.close()
}
