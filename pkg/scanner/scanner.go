package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/mwantia/goindex/pkg/db/models"
	"github.com/mwantia/goindex/pkg/db/store"
	"github.com/mwantia/goindex/pkg/log"
)

// ErrRootNotFound is returned when the scan root does not exist or is not a directory
var ErrRootNotFound = errors.New("scan root not found")

const (
	DefaultBatchSize       = 500
	DefaultPathLengthLimit = 260
)

// Store is the store surface a scan writes through
type Store interface {
	Begin(ctx context.Context) (store.Batch, error)
}

// StatFunc returns the file info for a path, following symlinks
type StatFunc func(path string) (fs.FileInfo, error)

// Report summarizes one scan run
type Report struct {
	RunID    string
	Root     string
	New      int
	Updated  int
	Skipped  int
	Errored  int
	Duration time.Duration
}

// Total returns the number of entries the scan looked at
func (r *Report) Total() int {
	return r.New + r.Updated + r.Skipped + r.Errored
}

type Option func(*Scanner)

func WithStat(stat StatFunc) Option {
	return func(s *Scanner) {
		s.stat = stat
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Scanner) {
		s.now = now
	}
}

func WithBatchSize(size int) Option {
	return func(s *Scanner) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

func WithPathLengthLimit(limit int) Option {
	return func(s *Scanner) {
		if limit > 0 {
			s.pathLimit = limit
		}
	}
}

func WithMaxFilenameLength(max int) Option {
	return func(s *Scanner) {
		if max > 0 {
			s.maxName = max
		}
	}
}

// Scanner walks a directory tree and reconciles it with the index. It only
// ever inserts or refreshes rows; it never deletes.
type Scanner struct {
	store Store
	rules Rules
	log   log.LoggerService

	stat      StatFunc
	now       func() time.Time
	batchSize int
	pathLimit int
	maxName   int
}

func NewScanner(s Store, rules Rules, logger log.LoggerService, opts ...Option) *Scanner {
	scanner := &Scanner{
		store:     s,
		rules:     rules,
		log:       logger,
		stat:      os.Stat,
		now:       time.Now,
		batchSize: DefaultBatchSize,
		pathLimit: DefaultPathLengthLimit,
		maxName:   MaxFilenameLength,
	}

	for _, opt := range opts {
		opt(scanner)
	}

	return scanner
}

// Scan indexes every file below root. Batches are committed as the walk
// progresses, so an interrupted scan keeps what was already committed.
func (s *Scanner) Scan(ctx context.Context, root string) (*Report, error) {
	start := time.Now()

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRootNotFound, root, err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, abs)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate run id: %w", err)
	}

	report := &Report{
		RunID: id.String(),
		Root:  abs,
	}

	s.log.Info("Starting scan '%s' of '%s'", report.RunID, abs)

	run := &scanRun{Scanner: s, report: report}
	defer run.rollback()

	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == abs {
				return err
			}
			s.log.Warn("Unable to access '%s': %v", path, err)
			report.Errored++
			return nil
		}

		if d.IsDir() {
			if path != abs && s.rules.SkipDir(d.Name()) {
				s.log.Debug("Skipping directory '%s'", path)
				return fs.SkipDir
			}
			return nil
		}

		return run.visit(ctx, path, d.Name())
	})
	if err != nil {
		return report, fmt.Errorf("scan of '%s' aborted: %w", abs, err)
	}

	if err := run.commit(); err != nil {
		return report, err
	}

	report.Duration = time.Since(start)
	s.log.Info("Finished scan '%s': %d new, %d updated, %d skipped, %d errored in %s",
		report.RunID, report.New, report.Updated, report.Skipped, report.Errored, report.Duration)

	return report, nil
}

// scanRun carries the open batch of a single Scan call
type scanRun struct {
	*Scanner

	report  *Report
	batch   store.Batch
	pending int
}

func (r *scanRun) visit(ctx context.Context, path, name string) error {
	if r.rules.SkipFile(name) {
		r.log.Debug("Skipping excluded file '%s'", path)
		r.report.Skipped++
		return nil
	}

	batch, err := r.writer(ctx)
	if err != nil {
		return err
	}

	info, err := r.stat(path)
	if err != nil && utf8.RuneCountInString(path) > r.pathLimit {
		info, err = r.stat(extendedPath(path))
		if err != nil {
			r.fallback(ctx, batch, path, name)
			return r.flush()
		}
	}
	if err != nil {
		r.log.Warn("Unable to stat '%s': %v", path, err)
		r.report.Errored++
		return nil
	}

	if info.IsDir() {
		r.report.Skipped++
		return nil
	}

	stat := models.ResourceStat{
		Size:       info.Size(),
		CreatedAt:  creationTime(info).UTC(),
		ModifiedAt: info.ModTime().UTC(),
	}

	existing, err := batch.GetResourceByPath(ctx, path, models.ResourceLocal)
	switch {
	case err == nil:
		if err := batch.UpdateResourceStat(ctx, existing.ID, stat); err != nil {
			r.log.Error("Failed to update '%s': %v", path, err)
			r.report.Errored++
			return nil
		}
		r.report.Updated++
	case errors.Is(err, store.ErrNotFound):
		if err := batch.CreateResource(ctx, r.newResource(path, name, stat)); err != nil {
			r.log.Error("Failed to index '%s': %v", path, err)
			r.report.Errored++
			return nil
		}
		r.log.Debug("Indexed '%s'", path)
		r.report.New++
	default:
		r.log.Error("Failed to look up '%s': %v", path, err)
		r.report.Errored++
		return nil
	}

	return r.flush()
}

// fallback records a path that cannot be stat'ed even in extended form.
// Existing rows are left as they are.
func (r *scanRun) fallback(ctx context.Context, batch store.Batch, path, name string) {
	_, err := batch.GetResourceByPath(ctx, path, models.ResourceLocal)
	switch {
	case err == nil:
		r.report.Updated++
		return
	case !errors.Is(err, store.ErrNotFound):
		r.log.Error("Failed to look up '%s': %v", path, err)
		r.report.Errored++
		return
	}

	now := r.now().UTC()
	resource := r.newResource(path, name, models.ResourceStat{
		CreatedAt:  now,
		ModifiedAt: now,
	})
	if err := batch.CreateResource(ctx, resource); err != nil {
		r.log.Error("Failed to index long path '%s': %v", path, err)
		r.report.Errored++
		return
	}

	r.log.Warn("Indexed '%s' without file details, path exceeds %d characters", path, r.pathLimit)
	r.report.New++
}

func (r *scanRun) newResource(path, name string, stat models.ResourceStat) *models.Resource {
	return &models.Resource{
		Path:       path,
		Filename:   TruncateFilename(name, r.maxName),
		Extension:  Extension(name),
		Size:       stat.Size,
		CreatedAt:  stat.CreatedAt,
		ModifiedAt: stat.ModifiedAt,
		Kind:       models.ResourceLocal,
	}
}

func (r *scanRun) writer(ctx context.Context) (store.Batch, error) {
	if r.batch != nil {
		return r.batch, nil
	}

	batch, err := r.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	r.batch = batch
	return batch, nil
}

func (r *scanRun) flush() error {
	r.pending++
	if r.pending < r.batchSize {
		return nil
	}
	return r.commit()
}

func (r *scanRun) commit() error {
	if r.batch == nil {
		return nil
	}

	batch := r.batch
	r.batch = nil
	if err := batch.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch of %d files: %w", r.pending, err)
	}

	r.log.Debug("Committed batch of %d files", r.pending)
	r.pending = 0
	return nil
}

func (r *scanRun) rollback() {
	if r.batch == nil {
		return
	}
	if err := r.batch.Rollback(); err != nil {
		r.log.Warn("Failed to roll back pending batch: %v", err)
	}
	r.batch = nil
}
