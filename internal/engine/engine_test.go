package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sortsense/sortsense/internal/classification"
	"github.com/sortsense/sortsense/internal/config"
	"github.com/sortsense/sortsense/internal/extract"
	"github.com/sortsense/sortsense/internal/model"
	"github.com/sortsense/sortsense/internal/storage"
)

type noOCR struct{}

func (noOCR) Available() bool { return false }
func (noOCR) Recognize(context.Context, string) (string, error) {
	return "", fmt.Errorf("not available")
}

type noRenderer struct{}

func (noRenderer) Available() bool { return false }
func (noRenderer) RenderFirstPage(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("not available")
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Categories: []model.Category{
			{
				Name:     "finance",
				Folder:   "finance",
				Keywords: []string{"invoice", "payment", "receipt"},
			},
			{
				Name:     "school",
				Folder:   "school",
				Keywords: []string{"homework", "syllabus", "transcript"},
			},
		},
		Settings: config.DefaultSettings(),
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func newTestEngine(t *testing.T, cfg *config.Config, withLog bool) *Engine {
	t.Helper()

	extractor := extract.NewWithEngines(cfg.Settings, noOCR{}, noRenderer{})
	classifier, err := classification.New(cfg)
	require.NoError(t, err)

	if !withLog {
		return New(cfg, extractor, classifier, nil)
	}

	log, err := storage.NewSQLiteLog(filepath.Join(t.TempDir(), "transactions.db"))
	require.NoError(t, err)
	require.NoError(t, log.Migrate(context.Background()))
	t.Cleanup(func() { _ = log.Close() })

	return New(cfg, extractor, classifier, log)
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestAnalyzeMovesNothing(t *testing.T) {
	cfg := testConfig(t)
	eng := newTestEngine(t, cfg, false)

	source := t.TempDir()
	writeSource(t, source, "bill.txt", "invoice payment invoice")
	writeSource(t, source, "essay.txt", "homework syllabus homework")
	writeSource(t, source, "noise.txt", "nothing of note here")

	summary, err := eng.Analyze(context.Background(), Options{SourceDir: source})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 0, summary.Moved)
	assert.Equal(t, 1, summary.ByCategory["finance"])
	assert.Equal(t, 1, summary.ByCategory["school"])
	assert.Equal(t, 1, summary.ByCategory[cfg.Settings.FallbackCategory])
	for _, r := range summary.Results {
		assert.Nil(t, r.Move)
	}

	// Source files stay where they were.
	entries, err := os.ReadDir(source)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestAnalyzeReportsProgress(t *testing.T) {
	eng := newTestEngine(t, testConfig(t), false)

	source := t.TempDir()
	writeSource(t, source, "a.txt", "invoice payment")
	writeSource(t, source, "b.txt", "homework syllabus")

	var calls int
	var lastDone, lastTotal int
	_, err := eng.Analyze(context.Background(), Options{
		SourceDir: source,
		Progress: func(done, total int, _ string) {
			calls++
			lastDone, lastTotal = done, total
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, lastDone)
	assert.Equal(t, 2, lastTotal)
}

func TestOrganizeDryRunTouchesNothing(t *testing.T) {
	cfg := testConfig(t)
	// A nil transaction log proves the preview path never reaches it.
	eng := newTestEngine(t, cfg, false)

	source := t.TempDir()
	dest := t.TempDir()
	writeSource(t, source, "bill.txt", "invoice payment invoice")

	summary, err := eng.Organize(context.Background(), Options{
		SourceDir: source,
		DestDir:   dest,
		DryRun:    true,
	})
	require.NoError(t, err)

	assert.True(t, summary.DryRun)
	assert.Empty(t, summary.SessionID)
	require.Len(t, summary.Results, 1)
	move := summary.Results[0].Move
	require.NotNil(t, move)
	assert.Equal(t, model.StatusPlanned, move.Status)
	assert.Equal(t, filepath.Join(dest, "finance", "bill.txt"), move.Destination)

	// Nothing moved, nothing created.
	assert.FileExists(t, filepath.Join(source, "bill.txt"))
	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOrganizeDryRunResolvesPlannedCollisions(t *testing.T) {
	eng := newTestEngine(t, testConfig(t), false)

	source := t.TempDir()
	dest := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(source, "a"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(source, "b"), 0o750))
	writeSource(t, filepath.Join(source, "a"), "bill.txt", "invoice payment invoice")
	writeSource(t, filepath.Join(source, "b"), "bill.txt", "receipt payment invoice")

	summary, err := eng.Organize(context.Background(), Options{
		SourceDir: source,
		DestDir:   dest,
		DryRun:    true,
		Recursive: true,
	})
	require.NoError(t, err)

	require.Len(t, summary.Results, 2)
	destinations := map[string]bool{}
	for _, r := range summary.Results {
		require.NotNil(t, r.Move)
		assert.False(t, destinations[r.Move.Destination], "duplicate planned destination")
		destinations[r.Move.Destination] = true
	}
	assert.True(t, destinations[filepath.Join(dest, "finance", "bill.txt")])
	assert.True(t, destinations[filepath.Join(dest, "finance", "bill_1.txt")])
}

func TestOrganizeMovesAndLogs(t *testing.T) {
	cfg := testConfig(t)
	eng := newTestEngine(t, cfg, true)

	source := t.TempDir()
	dest := t.TempDir()
	writeSource(t, source, "bill.txt", "invoice payment invoice")
	writeSource(t, source, "essay.txt", "homework syllabus homework")

	summary, err := eng.Organize(context.Background(), Options{
		SourceDir: source,
		DestDir:   dest,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Moved)
	assert.Equal(t, 0, summary.Failed)
	require.NotEmpty(t, summary.SessionID)

	assert.FileExists(t, filepath.Join(dest, "finance", "bill.txt"))
	assert.FileExists(t, filepath.Join(dest, "school", "essay.txt"))
	assert.NoFileExists(t, filepath.Join(source, "bill.txt"))

	session, err := eng.log.GetSession(context.Background(), summary.SessionID)
	require.NoError(t, err)
	assert.NotNil(t, session.CompletedAt)
	assert.Equal(t, 2, session.MoveCount)

	moves, err := eng.log.GetMoves(context.Background(), summary.SessionID)
	require.NoError(t, err)
	require.Len(t, moves, 2)
	for _, m := range moves {
		assert.Equal(t, model.StatusExecuted, m.Status)
	}
}

func TestOrganizeCollisionSuffix(t *testing.T) {
	cfg := testConfig(t)
	eng := newTestEngine(t, cfg, true)

	source := t.TempDir()
	dest := t.TempDir()
	writeSource(t, source, "bill.txt", "invoice payment invoice")

	// The plain destination name is already taken.
	require.NoError(t, os.MkdirAll(filepath.Join(dest, "finance"), 0o750))
	writeSource(t, filepath.Join(dest, "finance"), "bill.txt", "previous occupant")

	summary, err := eng.Organize(context.Background(), Options{
		SourceDir: source,
		DestDir:   dest,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Moved)
	assert.FileExists(t, filepath.Join(dest, "finance", "bill_1.txt"))

	// The occupant is untouched.
	content, err := os.ReadFile(filepath.Join(dest, "finance", "bill.txt"))
	require.NoError(t, err)
	assert.Equal(t, "previous occupant", string(content))
}

func TestOrganizeFailureIsolation(t *testing.T) {
	cfg := testConfig(t)
	cfg.Settings.MaxCollisionAttempts = 1
	eng := newTestEngine(t, cfg, true)

	source := t.TempDir()
	dest := t.TempDir()
	writeSource(t, source, "bill.txt", "invoice payment invoice")
	writeSource(t, source, "essay.txt", "homework syllabus homework")

	// Exhaust the planner for bill.txt only.
	require.NoError(t, os.MkdirAll(filepath.Join(dest, "finance"), 0o750))
	writeSource(t, filepath.Join(dest, "finance"), "bill.txt", "taken")
	writeSource(t, filepath.Join(dest, "finance"), "bill_1.txt", "also taken")

	summary, err := eng.Organize(context.Background(), Options{
		SourceDir: source,
		DestDir:   dest,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Moved)
	assert.Equal(t, 1, summary.Failed)
	assert.FileExists(t, filepath.Join(source, "bill.txt"))
	assert.FileExists(t, filepath.Join(dest, "school", "essay.txt"))

	// The failure is in the log, not just the summary.
	moves, err := eng.log.GetMoves(context.Background(), summary.SessionID)
	require.NoError(t, err)
	failed := 0
	for _, m := range moves {
		if m.Status == model.StatusFailed {
			failed++
			assert.NotEmpty(t, m.Error)
		}
	}
	assert.Equal(t, 1, failed)
}

func TestOrganizeRequiresDestination(t *testing.T) {
	eng := newTestEngine(t, testConfig(t), false)
	_, err := eng.Organize(context.Background(), Options{SourceDir: t.TempDir()})
	assert.ErrorContains(t, err, "destination directory")
}

func TestCollectFilesSkipsHidden(t *testing.T) {
	cfg := testConfig(t)
	eng := newTestEngine(t, cfg, false)

	source := t.TempDir()
	writeSource(t, source, "visible.txt", "x")
	writeSource(t, source, ".hidden.txt", "x")
	require.NoError(t, os.MkdirAll(filepath.Join(source, ".git"), 0o750))
	writeSource(t, filepath.Join(source, ".git"), "config", "x")

	files, err := eng.collectFiles(Options{SourceDir: source, Recursive: true})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(source, "visible.txt"), files[0])
}

func TestCollectFilesMaxFiles(t *testing.T) {
	eng := newTestEngine(t, testConfig(t), false)

	source := t.TempDir()
	for _, name := range []string{"c.txt", "a.txt", "b.txt"} {
		writeSource(t, source, name, "x")
	}

	files, err := eng.collectFiles(Options{SourceDir: source, MaxFiles: 2})
	require.NoError(t, err)
	// Sorted before capping, so the cap is deterministic.
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(source, "a.txt"), files[0])
	assert.Equal(t, filepath.Join(source, "b.txt"), files[1])
}

func TestCollectFilesNonRecursiveIgnoresSubdirs(t *testing.T) {
	eng := newTestEngine(t, testConfig(t), false)

	source := t.TempDir()
	writeSource(t, source, "top.txt", "x")
	require.NoError(t, os.MkdirAll(filepath.Join(source, "nested"), 0o750))
	writeSource(t, filepath.Join(source, "nested"), "deep.txt", "x")

	files, err := eng.collectFiles(Options{SourceDir: source})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(source, "top.txt"), files[0])
}

func TestCollectFilesRejectsMissingSource(t *testing.T) {
	eng := newTestEngine(t, testConfig(t), false)
	_, err := eng.collectFiles(Options{SourceDir: filepath.Join(t.TempDir(), "gone")})
	assert.Error(t, err)
}
