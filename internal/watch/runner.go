package watch

import (
	"context"
	"time"

	"ezsubs/internal/log"
	"ezsubs/internal/session"
)

// Runner keeps a session's panels in step with two directories.
type Runner struct {
	session  *session.Session
	mediaDir string
	subsDir  string
	autoSync bool

	// OnSync, when set, receives every auto-sync report.
	OnSync func(*session.SyncReport)
}

// NewRunner creates a runner. With autoSync it renames subtitles whenever
// both lists are non-empty and of equal length.
func NewRunner(s *session.Session, mediaDir, subsDir string, autoSync bool) *Runner {
	return &Runner{session: s, mediaDir: mediaDir, subsDir: subsDir, autoSync: autoSync}
}

// Rescan clears both panels and refills them from the directories, so the
// first-fill natural sort applies again.
func (r *Runner) Rescan(ctx context.Context) error {
	r.session.ClearAll()
	media, subs, err := r.session.DropBoth(ctx, []string{r.mediaDir}, []string{r.subsDir})
	if err != nil {
		return err
	}
	log.LogWithFields(
		log.F("media", media.Added),
		log.F("subtitles", subs.Added),
	).Info("Rescanned directories")
	return nil
}

// Refresh rescans and, if enabled and the counts line up, syncs. The report
// is nil when no sync ran.
func (r *Runner) Refresh(ctx context.Context) (*session.SyncReport, error) {
	if err := r.Rescan(ctx); err != nil {
		return nil, err
	}
	if !r.autoSync {
		return nil, nil
	}
	m, s := r.session.Media().Len(), r.session.Subtitles().Len()
	if m == 0 || m != s {
		log.LogWithFields(log.F("media", m), log.F("subtitles", s)).Debug("Counts differ, waiting")
		return nil, nil
	}
	report := r.session.SyncLists()
	if r.OnSync != nil {
		r.OnSync(report)
	}
	return report, nil
}

// Run refreshes once, then on every change until ctx is done or the watcher
// stops.
func (r *Runner) Run(ctx context.Context, w *Watcher) error {
	if _, err := r.Refresh(ctx); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-w.Changes():
			if !ok {
				return nil
			}
			log.LogWithFields(log.F("files", len(change.Paths)), log.F("at", change.Timestamp.Format(time.RFC3339))).Debug("Change detected")
			if _, err := r.Refresh(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}
