// Package worker provides a bounded pool of goroutines for document parsing.
//
// Go Pattern: Goroutines and channels are Go's concurrency primitives.
// A goroutine is like a lightweight thread (thousands are fine), and
// channels are typed pipes for communication between goroutines.
//
// Parsing a DOCX or PDF is CPU bound, so instead of letting every request
// parse on its own goroutine we funnel the work through a fixed number of
// workers:
// 1. Create a buffered channel as a job queue
// 2. Spawn N worker goroutines that read from the channel
// 3. Handlers submit jobs and wait on a per-job result channel
// 4. A full queue rejects new work instead of piling it up
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// JobType identifies what kind of document a job parses.
type JobType string

const (
	JobWordExtraction JobType = "word_extraction"
	JobPDFExtraction  JobType = "pdf_extraction"
)

// ErrQueueFull is returned by Submit when no more jobs can be queued.
var ErrQueueFull = errors.New("extraction queue is full; try again later")

// ErrStopped is returned for jobs submitted to, or still queued in, a pool
// that has been stopped.
var ErrStopped = errors.New("extraction pool is stopped")

// Extractor turns the document at path into normalized text.
type Extractor func(path string) (string, error)

// Job represents a unit of work to be processed by a worker.
type Job struct {
	ID        string // Request ID, for logs
	Type      JobType
	Path      string
	Ctx       context.Context // The submitter's context; cancelled jobs are skipped
	CreatedAt time.Time

	result chan Result
}

// Result is what a worker sends back for a job.
type Result struct {
	Text string
	Err  error
}

// Pool manages a pool of worker goroutines.
type Pool struct {
	// Go Pattern: Channels are the backbone of Go concurrency.
	// This buffered channel acts as our job queue.
	jobs       chan Job
	workers    int
	extractors map[JobType]Extractor
	log        logrus.FieldLogger

	// mu guards stopped so Submit never sends on a closed channel.
	mu      sync.RWMutex
	stopped bool

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewPool creates a new worker pool. extractors maps each job type to the
// adapter that handles it.
func NewPool(workers, queueSize int, extractors map[JobType]Extractor, log logrus.FieldLogger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		jobs:       make(chan Job, queueSize),
		workers:    workers,
		extractors: extractors,
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	p.log.Infof("🚀 Starting %d extraction workers", p.workers)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop shuts the pool down. Jobs still queued are answered with ErrStopped.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.cancel()
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	p.log.Info("✅ All extraction workers stopped")
}

// Submit adds a job to the queue and returns the channel its result will be
// delivered on. It never blocks: a full queue returns ErrQueueFull.
func (p *Pool) Submit(job Job) (<-chan Result, error) {
	if job.Ctx == nil {
		job.Ctx = context.Background()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	// Buffered so a worker can always deliver, even after the submitter
	// has stopped waiting.
	job.result = make(chan Result, 1)

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return nil, ErrStopped
	}

	select {
	case p.jobs <- job:
		p.log.WithFields(logrus.Fields{"request_id": job.ID, "type": job.Type}).Debug("📥 Job queued")
		return job.result, nil
	default:
		return nil, ErrQueueFull
	}
}

// Run submits a job and waits for its result or for ctx to end.
func (p *Pool) Run(ctx context.Context, id string, jobType JobType, path string) (string, error) {
	results, err := p.Submit(Job{ID: id, Type: jobType, Path: path, Ctx: ctx})
	if err != nil {
		return "", err
	}

	select {
	case res := <-results:
		return res.Text, res.Err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// QueueSize returns the current number of jobs in the queue.
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}

// WorkerCount returns the number of workers.
func (p *Pool) WorkerCount() int {
	return p.workers
}

// worker is the main loop for each worker goroutine.
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	// Go Pattern: `range` over a channel reads values until the channel is closed.
	for job := range p.jobs {
		select {
		case <-p.ctx.Done():
			job.result <- Result{Err: ErrStopped}
			continue
		default:
		}

		if err := job.Ctx.Err(); err != nil {
			job.result <- Result{Err: err}
			continue
		}

		job.result <- p.process(id, job)
	}
}

func (p *Pool) process(workerID int, job Job) Result {
	entry := p.log.WithFields(logrus.Fields{
		"worker":     workerID,
		"request_id": job.ID,
		"type":       job.Type,
	})

	extractor, ok := p.extractors[job.Type]
	if !ok {
		entry.Error("❌ Unknown job type")
		return Result{Err: fmt.Errorf("unknown job type: %s", job.Type)}
	}

	start := time.Now()
	text, err := extractor(job.Path)
	if err != nil {
		entry.WithError(err).Warn("❌ Extraction failed")
		return Result{Err: err}
	}

	entry.WithFields(logrus.Fields{
		"duration_ms": time.Since(start).Milliseconds(),
		"queued_ms":   start.Sub(job.CreatedAt).Milliseconds(),
	}).Debug("✅ Extraction completed")
	return Result{Text: text}
}
