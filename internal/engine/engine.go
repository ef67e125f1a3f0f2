// Package engine orchestrates the extraction, categorization and move
// pipeline for a batch of files.
package engine

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sortsense/sortsense/internal/classification"
	"github.com/sortsense/sortsense/internal/common"
	"github.com/sortsense/sortsense/internal/config"
	"github.com/sortsense/sortsense/internal/extract"
	"github.com/sortsense/sortsense/internal/model"
	"github.com/sortsense/sortsense/internal/service"
)

// Engine wires the extractor, classifier and transaction log together.
// Files in a batch are independent: one file's failure never aborts the
// others.
type Engine struct {
	cfg        *config.Config
	extractor  *extract.Extractor
	classifier *classification.Classifier
	log        service.TransactionLog
}

// New creates an engine from pre-built components. The transaction log
// may be nil for analyze-only use.
func New(cfg *config.Config, extractor *extract.Extractor, classifier *classification.Classifier, log service.TransactionLog) *Engine {
	return &Engine{
		cfg:        cfg,
		extractor:  extractor,
		classifier: classifier,
		log:        log,
	}
}

// Options controls one batch run.
type Options struct {
	// Progress, when set, is called after each file finishes analysis.
	Progress  func(done, total int, filename string)
	SourceDir string
	DestDir   string
	MaxFiles  int
	Recursive bool
	DryRun    bool
}

// FileResult carries everything the pipeline learned about one file.
type FileResult struct {
	Move           *model.MoveRecord // nil when no move was attempted
	Extraction     model.ExtractionResult
	Categorization model.CategorizationResult
}

// Summary aggregates one run for reporting. The core does no
// formatting; callers render or serialize it as they see fit.
type Summary struct {
	ByCategory map[string]int
	ByMethod   map[model.ExtractionMethod]int
	Results    []FileResult
	SessionID  string
	Total      int
	Moved      int
	Failed     int
	DryRun     bool
}

// Analyze runs extraction and categorization over the source directory
// without planning or performing any moves.
func (e *Engine) Analyze(ctx context.Context, opts Options) (*Summary, error) {
	files, err := e.collectFiles(opts)
	if err != nil {
		return nil, err
	}
	results, err := e.analyzeFiles(ctx, files, opts)
	if err != nil {
		return nil, err
	}
	return e.summarize(results, "", opts.DryRun), nil
}

// Organize runs the full pipeline: analyze every file, decide its
// destination, then either preview (dry run) or execute the moves,
// appending each completed record to the transaction log.
func (e *Engine) Organize(ctx context.Context, opts Options) (*Summary, error) {
	if opts.DestDir == "" {
		return nil, fmt.Errorf("destination directory is required")
	}

	files, err := e.collectFiles(opts)
	if err != nil {
		return nil, err
	}

	results, err := e.analyzeFiles(ctx, files, opts)
	if err != nil {
		return nil, err
	}

	if opts.DryRun {
		e.planDryRun(results, opts)
		return e.summarize(results, "", true), nil
	}

	session := model.Session{
		ID:        newSessionID(),
		StartedAt: time.Now(),
		SourceDir: opts.SourceDir,
		DestDir:   opts.DestDir,
	}
	if err := e.log.BeginSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	// Moves and log appends run on this single goroutine so the log's
	// append-only ordering never depends on worker scheduling.
	for i := range results {
		e.executeMove(ctx, &results[i], session.ID, opts)
	}

	if err := e.log.CompleteSession(ctx, session.ID); err != nil {
		return nil, err
	}

	return e.summarize(results, session.ID, false), nil
}

// analyzeFiles runs extraction and categorization over the batch with a
// bounded worker pool. Extraction dominates cost (OCR especially) and
// files are independent, so this is the parallel stage; results keep
// the input ordering.
func (e *Engine) analyzeFiles(ctx context.Context, files []string, opts Options) ([]FileResult, error) {
	results := make([]FileResult, len(files))
	done := 0
	progress := make(chan string)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Settings.Workers)

	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		for name := range progress {
			done++
			if opts.Progress != nil {
				opts.Progress(done, len(files), name)
			}
		}
	}()

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			extraction := e.extractor.Extract(gctx, path)
			filename := filepath.Base(path)
			results[i] = FileResult{
				Extraction:     extraction,
				Categorization: e.classifier.Categorize(extraction, filename),
			}

			select {
			case progress <- filename:
			case <-gctx.Done():
			}
			return nil
		})
	}

	err := g.Wait()
	close(progress)
	<-progressDone
	if err != nil {
		return nil, err
	}
	return results, nil
}

// executeMove plans and performs one file's move, recording the outcome
// in the transaction log. Failures mark this record failed and leave
// the batch running.
func (e *Engine) executeMove(ctx context.Context, result *FileResult, sessionID string, opts Options) {
	folder := e.cfg.FolderFor(result.Categorization.Category)
	record := model.MoveRecord{
		SessionID: sessionID,
		Source:    result.Extraction.SourcePath,
		Category:  result.Categorization.Category,
		Status:    model.StatusPlanned,
		CreatedAt: time.Now(),
	}

	dest, err := planDestination(
		filepath.Join(opts.DestDir, folder),
		filepath.Base(record.Source),
		e.cfg.Settings.MaxCollisionAttempts,
		fileExists,
	)
	if err != nil {
		record.Status = model.StatusFailed
		record.Destination = filepath.Join(opts.DestDir, folder, filepath.Base(record.Source))
		record.Error = err.Error()
	} else {
		record.Destination = dest
		if err := moveFile(record.Source, dest); err != nil {
			record.Status = model.StatusFailed
			record.Error = err.Error()
			common.LogError(err, "move failed", common.Fields{
				"source":      record.Source,
				"destination": dest,
			})
		} else {
			record.Status = model.StatusExecuted
		}
	}

	if id, err := e.log.AppendMove(ctx, record); err != nil {
		// The physical move already happened; losing the log entry is
		// worse than a failed move because undo cannot see it.
		common.LogError(err, "failed to record move", common.Fields{
			"source": record.Source,
		})
		record.Error = fmt.Sprintf("move recorded with error: %v", err)
	} else {
		record.ID = id
	}

	result.Move = &record
}

// planDryRun fills in planned records without touching the filesystem
// or the log. Collisions are resolved against both the real filesystem
// and the destinations already planned in this preview.
func (e *Engine) planDryRun(results []FileResult, opts Options) {
	planned := make(map[string]bool)
	exists := func(path string) bool {
		return planned[path] || fileExists(path)
	}

	for i := range results {
		result := &results[i]
		folder := e.cfg.FolderFor(result.Categorization.Category)
		record := model.MoveRecord{
			Source:    result.Extraction.SourcePath,
			Category:  result.Categorization.Category,
			Status:    model.StatusPlanned,
			CreatedAt: time.Now(),
		}

		dest, err := planDestination(
			filepath.Join(opts.DestDir, folder),
			filepath.Base(record.Source),
			e.cfg.Settings.MaxCollisionAttempts,
			exists,
		)
		if err != nil {
			record.Status = model.StatusFailed
			record.Destination = filepath.Join(opts.DestDir, folder, filepath.Base(record.Source))
			record.Error = err.Error()
		} else {
			record.Destination = dest
			planned[dest] = true
		}

		result.Move = &record
	}
}

// collectFiles gathers the batch, applying the hidden-file policy and
// the optional cap. Ordering is sorted for deterministic runs.
func (e *Engine) collectFiles(opts Options) ([]string, error) {
	info, err := os.Stat(opts.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", opts.SourceDir)
	}

	var files []string
	skipHidden := e.cfg.Settings.SkipHidden

	if opts.Recursive {
		err = filepath.WalkDir(opts.SourceDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			hidden := strings.HasPrefix(d.Name(), ".") && path != opts.SourceDir
			if d.IsDir() {
				if skipHidden && hidden {
					return filepath.SkipDir
				}
				return nil
			}
			if skipHidden && hidden {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk source: %w", err)
		}
	} else {
		entries, err := os.ReadDir(opts.SourceDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read source: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if skipHidden && strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			files = append(files, filepath.Join(opts.SourceDir, entry.Name()))
		}
	}

	sort.Strings(files)
	if opts.MaxFiles > 0 && len(files) > opts.MaxFiles {
		files = files[:opts.MaxFiles]
	}
	return files, nil
}

func (e *Engine) summarize(results []FileResult, sessionID string, dryRun bool) *Summary {
	summary := &Summary{
		ByCategory: make(map[string]int),
		ByMethod:   make(map[model.ExtractionMethod]int),
		Results:    results,
		SessionID:  sessionID,
		Total:      len(results),
		DryRun:     dryRun,
	}

	for _, r := range results {
		summary.ByCategory[r.Categorization.Category]++
		// A failed extraction still gets categorized, just from the
		// filename alone; count it as such.
		method := r.Extraction.Method
		if !r.Extraction.Success {
			method = model.MethodFilename
		}
		summary.ByMethod[method]++
		if r.Move == nil {
			continue
		}
		switch r.Move.Status {
		case model.StatusExecuted, model.StatusPlanned:
			summary.Moved++
		case model.StatusFailed:
			summary.Failed++
		}
	}

	return summary
}

func newSessionID() string {
	return fmt.Sprintf("%s-%s",
		time.Now().Format("20060102-150405"),
		uuid.NewString()[:8])
}

func fileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
