package session_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"ezsubs/internal/config"
	"ezsubs/internal/errors"
	"ezsubs/internal/session"
	"ezsubs/pkg/testutils"
	"ezsubs/pkg/types"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memFiles(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, f := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(f), 0755))
		require.NoError(t, afero.WriteFile(fs, f, []byte(f), 0644))
	}
	return fs
}

func newSession(t *testing.T, fs afero.Fs) *session.Session {
	t.Helper()
	s := session.New(config.NewTestConfig(), session.WithFs(fs))
	t.Cleanup(s.Close)
	return s
}

// refuseFs refuses to rename the listed sources.
type refuseFs struct {
	afero.Fs
	refuse map[string]bool
}

func (r refuseFs) Rename(oldname, newname string) error {
	if r.refuse[oldname] {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: os.ErrPermission}
	}
	return r.Fs.Rename(oldname, newname)
}

// gatedFs blocks Stat calls until the gate is closed.
type gatedFs struct {
	afero.Fs
	gate chan struct{}
}

func (g gatedFs) Stat(name string) (os.FileInfo, error) {
	<-g.gate
	return g.Fs.Stat(name)
}

func TestEndToEnd(t *testing.T) {
	dir := t.TempDir()
	media := testutils.CreateEpisodeFiles(t, dir, "videos/S01E02.mp4", "videos/S01E01.mp4")
	subs := testutils.CreateEpisodeFiles(t, dir, "subs/b.srt", "subs/a.srt")

	s := session.New(config.NewTestConfig())
	defer s.Close()

	ctx := context.Background()
	mres, sres, err := s.DropBoth(ctx, media, subs)
	require.NoError(t, err)
	assert.Equal(t, 2, mres.Added)
	assert.Equal(t, 2, sres.Added)

	assert.Equal(t, []string{"S01E01.mp4", "S01E02.mp4"}, s.Media().Set().Names())
	assert.Equal(t, []string{"a.srt", "b.srt"}, s.Subtitles().Set().Names())

	report := s.SyncLists()
	require.NoError(t, report.Err())
	assert.Len(t, report.Renamed(), 2)
	assert.Equal(t, 2, report.Updated)

	testutils.AssertExists(t, filepath.Join(dir, "subs", "S01E01.srt"))
	testutils.AssertExists(t, filepath.Join(dir, "subs", "S01E02.srt"))
	testutils.AssertNotExists(t, subs[0])
	testutils.AssertNotExists(t, subs[1])

	// a.srt had content "subs/a.srt"; it must now be S01E01.srt.
	data, err := os.ReadFile(filepath.Join(dir, "subs", "S01E01.srt"))
	require.NoError(t, err)
	assert.Equal(t, "subs/a.srt", string(data))

	// The panel follows the files.
	assert.Equal(t, []string{"S01E01.srt", "S01E02.srt"}, s.Subtitles().Set().Names())
	assert.Contains(t, report.Summary(), "Renamed 2 of 2 subtitles.")
}

func TestSyncCountMismatchTouchesNothing(t *testing.T) {
	fs := memFiles(t, "/m/1.mkv", "/m/2.mkv", "/m/3.mkv", "/s/a.srt", "/s/b.srt")
	s := newSession(t, fs)

	ctx := context.Background()
	s.DropWait(ctx, session.Media, []string{"/m"})
	s.DropWait(ctx, session.Subtitles, []string{"/s"})

	report := s.SyncLists()
	require.NotNil(t, report.Mismatch)
	assert.Equal(t, 3, report.Mismatch.MediaCount)
	assert.Equal(t, 2, report.Mismatch.SubtitleCount)
	assert.Empty(t, report.Outcomes)
	assert.True(t, errors.IsCountMismatch(report.Err()))
	assert.False(t, report.OK())
	assert.Contains(t, report.Summary(), "3 media files but 2 subtitle files")

	ok, _ := afero.Exists(fs, "/s/a.srt")
	assert.True(t, ok)
}

func TestSyncReportsIsolatedFailures(t *testing.T) {
	base := memFiles(t, "/m/E1.mkv", "/m/E2.mkv", "/m/E3.mkv", "/s/1.srt", "/s/2.srt", "/s/3.srt")
	fs := refuseFs{Fs: base, refuse: map[string]bool{"/s/2.srt": true}}
	s := newSession(t, fs)

	ctx := context.Background()
	_, _, err := s.DropBoth(ctx, []string{"/m"}, []string{"/s"})
	require.NoError(t, err)

	report := s.SyncLists()
	require.Len(t, report.Outcomes, 3)
	assert.Len(t, report.Renamed(), 2)
	require.Len(t, report.Failures(), 1)
	assert.True(t, errors.IsMoveFailed(report.Err()))

	summary := report.Summary()
	assert.Contains(t, summary, "Renamed 2 of 3 subtitles.")
	assert.Contains(t, summary, "2.srt")
	assert.Contains(t, summary, "permission denied")

	assert.Equal(t, []string{"E1.srt", "2.srt", "E3.srt"}, s.Subtitles().Set().Names())
}

func TestSyncSkipPolicy(t *testing.T) {
	fs := memFiles(t, "/m/Show.mkv", "/s/a.srt", "/s/Show.srt")
	cfg := config.NewTestConfig()
	cfg.Settings.Collision = config.CollisionSkip
	s := session.New(cfg, session.WithFs(fs))
	defer s.Close()

	ctx := context.Background()
	s.DropWait(ctx, session.Media, []string{"/m/Show.mkv"})
	s.DropWait(ctx, session.Subtitles, []string{"/s/a.srt"})

	report := s.SyncLists()
	assert.NoError(t, report.Err())
	assert.Len(t, report.Skipped(), 1)
	assert.Contains(t, report.Summary(), "Skipped 1")
	assert.Equal(t, []string{"a.srt"}, s.Subtitles().Set().Names())
}

func TestSyncDryRun(t *testing.T) {
	fs := memFiles(t, "/m/Show.mkv", "/s/a.srt")
	cfg := config.NewTestConfig()
	cfg.Settings.DryRun = true
	s := session.New(cfg, session.WithFs(fs))
	defer s.Close()

	ctx := context.Background()
	_, _, err := s.DropBoth(ctx, []string{"/m"}, []string{"/s"})
	require.NoError(t, err)

	report := s.SyncLists()
	assert.True(t, report.DryRun)
	assert.Len(t, report.Renamed(), 1)
	assert.Zero(t, report.Updated)
	assert.Contains(t, report.Summary(), "Would rename 1 of 1")

	ok, _ := afero.Exists(fs, "/s/a.srt")
	assert.True(t, ok)
	assert.Equal(t, []string{"a.srt"}, s.Subtitles().Set().Names())
}

func TestSyncEmptyLists(t *testing.T) {
	s := newSession(t, afero.NewMemMapFs())
	report := s.SyncLists()
	assert.NoError(t, report.Err())
	assert.Equal(t, "Nothing to sync.", report.Summary())
}

func TestSyncAsync(t *testing.T) {
	fs := memFiles(t, "/m/Show.mkv", "/s/a.srt")
	s := newSession(t, fs)
	_, _, err := s.DropBoth(context.Background(), []string{"/m"}, []string{"/s"})
	require.NoError(t, err)

	select {
	case report := <-s.SyncAsync():
		require.NotNil(t, report)
		assert.True(t, report.OK())
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for sync")
	}
}

func TestConcurrentSyncsSerialize(t *testing.T) {
	fs := memFiles(t, "/m/Show.mkv", "/s/a.srt")
	s := newSession(t, fs)
	_, _, err := s.DropBoth(context.Background(), []string{"/m"}, []string{"/s"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	reports := make([]*session.SyncReport, 4)
	for i := range reports {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reports[i] = s.SyncLists()
		}(i)
	}
	wg.Wait()

	for _, r := range reports {
		assert.NoError(t, r.Err())
	}
	assert.Equal(t, []string{"Show.srt"}, s.Subtitles().Set().Names())
	ok, _ := afero.Exists(fs, "/s/Show.srt")
	assert.True(t, ok)
}

func TestDropWarningsAreNonFatal(t *testing.T) {
	fs := memFiles(t, "/s/a.srt")
	s := newSession(t, fs)

	res := s.DropWait(context.Background(), session.Subtitles, []string{"/missing", "/s/a.srt"})
	assert.NoError(t, res.Err)
	assert.Equal(t, 1, res.Added)
	require.Len(t, res.Warnings, 1)
	assert.True(t, errors.IsFileNotFound(res.Warnings[0]))
}

func TestDropFiltersBySide(t *testing.T) {
	fs := memFiles(t, "/mix/a.srt", "/mix/a.mkv", "/mix/notes.txt")
	s := newSession(t, fs)

	ctx := context.Background()
	_, _, err := s.DropBoth(ctx, []string{"/mix"}, []string{"/mix"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mkv"}, s.Media().Set().Names())
	assert.Equal(t, []string{"a.srt"}, s.Subtitles().Set().Names())
}

func TestClearDiscardsInFlightDrop(t *testing.T) {
	gate := make(chan struct{})
	fs := gatedFs{Fs: memFiles(t, "/s/a.srt"), gate: gate}
	s := newSession(t, fs)

	pending := s.Drop(context.Background(), session.Subtitles, []string{"/s/a.srt"})
	s.Clear(session.Subtitles)
	close(gate)

	select {
	case res := <-pending:
		assert.True(t, res.Discarded)
		assert.Zero(t, res.Added)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for drop")
	}
	assert.Zero(t, s.Subtitles().Len())

	// New drops after the clear land normally.
	res := s.DropWait(context.Background(), session.Subtitles, []string{"/s/a.srt"})
	assert.False(t, res.Discarded)
	assert.Equal(t, 1, res.Added)
}

func TestDropAfterClose(t *testing.T) {
	s := session.New(config.NewTestConfig(), session.WithFs(afero.NewMemMapFs()))
	s.Close()

	res := s.DropWait(context.Background(), session.Media, []string{"/m"})
	assert.True(t, res.Discarded)
	assert.ErrorIs(t, res.Err, session.ErrClosed)
}

func TestPanelAccessors(t *testing.T) {
	s := newSession(t, afero.NewMemMapFs())
	assert.Equal(t, session.Media, s.Panel(session.Media).Side())
	assert.Equal(t, session.Subtitles, s.Panel(session.Subtitles).Side())
	assert.Equal(t, "media", session.Media.String())
	assert.Equal(t, "subtitles", session.Subtitles.String())
	assert.Empty(t, s.Media().Items())
	assert.NotNil(t, s.Config())
}

type fakeRenamer struct {
	plans [][]types.RenameInstruction
}

func (f *fakeRenamer) Execute(plan []types.RenameInstruction) []types.RenameOutcome {
	f.plans = append(f.plans, plan)
	out := make([]types.RenameOutcome, len(plan))
	for i, in := range plan {
		out[i] = f.Move(in)
	}
	return out
}

func (f *fakeRenamer) Move(in types.RenameInstruction) types.RenameOutcome {
	return types.RenameOutcome{Instruction: in, Ref: types.NewFileRef(in.TargetPath())}
}

func (f *fakeRenamer) IsDryRun() bool { return false }

func TestWithRenamer(t *testing.T) {
	fs := memFiles(t, "/m/B.mkv", "/m/A.mkv", "/s/2.ass", "/s/1.ass")
	fake := &fakeRenamer{}
	s := session.New(config.NewTestConfig(), session.WithFs(fs), session.WithRenamer(fake))
	defer s.Close()

	_, _, err := s.DropBoth(context.Background(), []string{"/m"}, []string{"/s"})
	require.NoError(t, err)

	report := s.SyncLists()
	require.NoError(t, report.Err())
	require.Len(t, fake.plans, 1)
	assert.Equal(t, "A.ass", fake.plans[0][0].TargetName)
	assert.Equal(t, "/s/1.ass", fake.plans[0][0].Source.Path())
	assert.Equal(t, []string{"A.ass", "B.ass"}, s.Subtitles().Set().Names())
}
