package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nfoedit/nfoedit/internal/domain"
	"github.com/nfoedit/nfoedit/internal/nfo"
)

const (
	// DefaultWorkers sizes the apply worker pool. The work is I/O bound,
	// so a modest count suffices.
	DefaultWorkers = 10

	// DefaultMaxFiles is the per-batch file ceiling
	DefaultMaxFiles = 2000

	// SampleSize is how many preview records callers get for display
	SampleSize = 5
)

// RunRecorder receives the final snapshot of a finished task
type RunRecorder interface {
	Record(snap domain.TaskSnapshot) error
}

// Options configures a Processor; zero values select the defaults
type Options struct {
	Workers  int
	MaxFiles int
	MaxDepth int
}

// Processor orchestrates scanning, preview computation, and
// bounded-concurrency apply. It is the only component that reads or writes
// record content, and it mutates task state only through the task's own
// synchronized methods.
type Processor struct {
	store    *Store
	scanner  *Scanner
	mutator  *Mutator
	workers  int
	maxFiles int

	watcher  *Watcher
	recorder RunRecorder
}

// NewProcessor creates a processor over the given store and mutator
func NewProcessor(store *Store, mutator *Mutator, opts Options) *Processor {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = DefaultMaxFiles
	}
	return &Processor{
		store:    store,
		scanner:  NewScanner(opts.MaxDepth),
		mutator:  mutator,
		workers:  opts.Workers,
		maxFiles: opts.MaxFiles,
	}
}

// SetWatcher enables staleness tracking for pending tasks
func (p *Processor) SetWatcher(w *Watcher) { p.watcher = w }

// SetRecorder enables the finished-run ledger
func (p *Processor) SetRecorder(r RunRecorder) { p.recorder = r }

// Store returns the processor's task store
func (p *Processor) Store() *Store { return p.store }

// Preview computes the prospective change set for a directory without
// writing anything, registers a Pending task over it, and returns the
// task. Systemic problems (missing directory, depth, ceiling, overlap)
// fail before any task is created; per-file parse failures just omit the
// file from the preview set.
func (p *Processor) Preview(directory, field, value string, mode domain.Mode) (*domain.BatchTask, error) {
	// Contract errors fail at the boundary, before any file is touched
	if _, ok := p.mutator.Catalog().Lookup(field); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if _, ok := (&nfo.Record{}).FieldValues(field); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if _, err := p.mutator.Mutate(field, nil, value, mode); err != nil {
		return nil, err
	}

	directory = filepath.Clean(directory)
	info, err := os.Stat(directory)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, directory)
	}

	if running := p.overlappingRunning(directory); running != "" {
		return nil, fmt.Errorf("%w: task %s", ErrTaskConflict, running)
	}

	files, err := p.scanner.Scan(directory)
	if err != nil {
		return nil, err
	}
	if len(files) > p.maxFiles {
		return nil, &TooManyFilesError{Count: len(files), Max: p.maxFiles}
	}

	// Bounded fan-out; results keep scan order so repeated previews of an
	// unmodified tree are identical.
	results := make([]*domain.PreviewRecord, len(files))
	g := new(errgroup.Group)
	g.SetLimit(p.workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if rec, err := p.previewFile(path, field, value, mode); err == nil {
				results[i] = rec
			}
			return nil
		})
	}
	_ = g.Wait()

	previews := make([]domain.PreviewRecord, 0, len(results))
	for _, rec := range results {
		if rec != nil {
			previews = append(previews, *rec)
		}
	}

	task := domain.NewBatchTask(uuid.NewString(), directory, field, value, mode, previews)
	p.store.Add(task)
	if p.watcher != nil {
		p.watcher.Track(task, dirsOf(directory, previews))
	}
	return task, nil
}

func (p *Processor) previewFile(path, field, value string, mode domain.Mode) (*domain.PreviewRecord, error) {
	rec, err := nfo.Parse(path)
	if err != nil {
		return nil, err
	}

	current, _ := rec.FieldValues(field)
	next, err := p.mutator.Mutate(field, current, value, mode)
	if err != nil {
		return nil, err
	}

	filename := filepath.Base(path)
	title := rec.Title
	if title == "" {
		title = strings.TrimSuffix(filename, filepath.Ext(filename))
	}

	return &domain.PreviewRecord{
		Path:         path,
		Filename:     filename,
		Title:        title,
		CurrentValue: Render(current),
		NewValue:     Render(next),
	}, nil
}

// Apply starts executing a previewed task and returns immediately; the
// per-file work proceeds on a bounded worker pool in the background.
// Progress is observed by polling the task. Failed is reserved for the
// systemic pre-flight checks here; per-file failures only move counters.
func (p *Processor) Apply(taskID string) (*domain.BatchTask, error) {
	task, ok := p.store.Get(taskID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}

	// Two previews over the same tree may both sit Pending; only one of
	// them gets to run at a time.
	if running := p.overlappingRunning(task.Directory); running != "" && running != task.ID {
		return nil, fmt.Errorf("%w: task %s", ErrTaskConflict, running)
	}

	// Start is the authoritative Pending check. It runs before any other
	// state change so a duplicate Apply returns ErrNotPending without
	// touching the task.
	if err := task.Start(); err != nil {
		return nil, err
	}

	if info, err := os.Stat(task.Directory); err != nil || !info.IsDir() {
		task.Fail(fmt.Sprintf("directory no longer exists: %s", task.Directory))
		if p.watcher != nil {
			p.watcher.Untrack(task.ID)
		}
		return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, task.Directory)
	}

	if p.watcher != nil {
		p.watcher.Untrack(task.ID)
	}

	go p.run(task)
	return task, nil
}

func (p *Processor) run(task *domain.BatchTask) {
	jobs := make(chan domain.PreviewRecord)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range jobs {
				p.applyFile(task, rec)
			}
		}()
	}

	for _, rec := range task.PreviewFiles {
		jobs <- rec
	}
	close(jobs)
	wg.Wait()

	task.Complete()

	if p.recorder != nil {
		_ = p.recorder.Record(task.Snapshot())
	}
}

// applyFile processes one file with full error isolation: any failure is
// recorded on the task and never escapes the worker.
func (p *Processor) applyFile(task *domain.BatchTask, rec domain.PreviewRecord) {
	r, err := nfo.Parse(rec.Path)
	if err != nil {
		task.IncrementFailed(err.Error(), rec.Filename)
		return
	}

	if err := p.mutator.Apply(r, task.Field, task.Value, task.Mode); err != nil {
		task.IncrementFailed(err.Error(), rec.Filename)
		return
	}

	if ok, errs := nfo.Validate(r); !ok {
		task.IncrementFailed("validation failed: "+strings.Join(errs, "; "), rec.Filename)
		return
	}

	if err := nfo.Save(r, rec.Path); err != nil {
		task.IncrementFailed(err.Error(), rec.Filename)
		return
	}

	task.IncrementSuccess()
}

// overlappingRunning returns the ID of a Running task whose directory
// equals, contains, or is contained by dir. Two concurrent batches over
// overlapping trees could race on shared files; rejecting the new preview
// is the policy here.
func (p *Processor) overlappingRunning(dir string) string {
	for _, task := range p.store.ListAll() {
		if task.Status() != domain.StatusRunning {
			continue
		}
		if dir == task.Directory || underDir(dir, task.Directory) || underDir(task.Directory, dir) {
			return task.ID
		}
	}
	return ""
}

// dirsOf collects the unique parent directories of a preview set plus the
// scan root, for the staleness watcher.
func dirsOf(root string, previews []domain.PreviewRecord) []string {
	seen := map[string]bool{root: true}
	dirs := []string{root}
	for _, rec := range previews {
		dir := filepath.Dir(rec.Path)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
