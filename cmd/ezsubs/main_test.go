package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"ezsubs/internal/errors"
	"ezsubs/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command in-process against a config path inside
// a temp dir, so no user config is read.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := root.Execute()
	return testutils.StripANSI(stdout.String()), testutils.StripANSI(stderr.String()), err
}

func TestSyncCommand(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateEpisodeFiles(t, dir,
		"video/S01E02.mp4", "video/S01E01.mp4",
		"subs/b.srt", "subs/a.srt",
	)

	out, _, err := execute(t, "sync", "--media", filepath.Join(dir, "video"), "--subs", filepath.Join(dir, "subs"))
	require.NoError(t, err)

	assert.Contains(t, out, "Media (2)")
	assert.Contains(t, out, "a.srt -> S01E01.srt")
	assert.Contains(t, out, "b.srt -> S01E02.srt")
	assert.Contains(t, out, "Renamed 2 of 2 subtitles.")

	testutils.AssertExists(t, filepath.Join(dir, "subs", "S01E01.srt"))
	testutils.AssertExists(t, filepath.Join(dir, "subs", "S01E02.srt"))
	testutils.AssertNotExists(t, filepath.Join(dir, "subs", "a.srt"))

	// a.srt became S01E01.srt.
	data, err := os.ReadFile(filepath.Join(dir, "subs", "S01E01.srt"))
	require.NoError(t, err)
	assert.Equal(t, "subs/a.srt", string(data))
}

func TestSyncCommandDryRun(t *testing.T) {
	dir := t.TempDir()
	paths := testutils.CreateEpisodeFiles(t, dir, "ep1.mkv", "x.srt")

	out, _, err := execute(t, "sync", "--media", paths[0], "--subs", paths[1], "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, out, "Would rename 1 of 1 subtitles.")
	testutils.AssertExists(t, paths[1])
	testutils.AssertNotExists(t, filepath.Join(dir, "ep1.srt"))
}

func TestSyncCommandNoSortKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	paths := testutils.CreateEpisodeFiles(t, dir, "b.mkv", "a.mkv", "one.srt", "two.srt")

	_, _, err := execute(t, "sync", "--no-sort",
		"--media", paths[0], "--media", paths[1],
		"--subs", paths[2], "--subs", paths[3])
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "b.srt"))
	require.NoError(t, err)
	assert.Equal(t, "one.srt", string(data))
}

func TestSyncCommandMismatch(t *testing.T) {
	dir := t.TempDir()
	paths := testutils.CreateEpisodeFiles(t, dir, "ep1.mkv", "ep2.mkv", "x.srt")

	_, _, err := execute(t, "sync", "--media", paths[0], "--media", paths[1], "--subs", paths[2])
	require.Error(t, err)
	assert.True(t, errors.IsCountMismatch(err))
	testutils.AssertExists(t, paths[2])
}

func TestSyncCommandCollisionFails(t *testing.T) {
	dir := t.TempDir()
	paths := testutils.CreateEpisodeFiles(t, dir, "ep1.mkv", "x.srt", "ep1.srt")

	out, _, err := execute(t, "sync", "--no-sort", "--media", paths[0], "--subs", paths[1])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 renames failed")
	assert.Contains(t, out, "Failed 1:")
	testutils.AssertExists(t, paths[1])
}

func TestSyncCommandRequiresBothLists(t *testing.T) {
	_, _, err := execute(t, "sync", "--media", t.TempDir())
	assert.Error(t, err)
}

func TestSyncCommandRejectsBadCollision(t *testing.T) {
	dir := t.TempDir()
	paths := testutils.CreateEpisodeFiles(t, dir, "ep1.mkv", "x.srt")
	_, _, err := execute(t, "sync", "--media", paths[0], "--subs", paths[1], "--collision", "overwrite")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidConfig(err))
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ezsubs", "config.yaml")

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--config", path, "config", "init"})
	require.NoError(t, root.Execute())
	testutils.AssertExists(t, path)

	// A second init refuses to clobber the file.
	root = NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--config", path, "config", "init"})
	assert.Error(t, root.Execute())

	shown, _, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, shown, "collision: fail")
	assert.Contains(t, shown, "srt")
}

func TestBrokenConfigFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("settings:\n  collision: sideways\n"), 0644))

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", path, "config", "show"})
	err := root.Execute()
	require.Error(t, err)
	assert.True(t, errors.IsInvalidConfig(err))
}

func TestHelpListsCommands(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	for _, name := range []string{"sync", "tui", "gui", "watch", "config"} {
		assert.Contains(t, out, name)
	}
}
