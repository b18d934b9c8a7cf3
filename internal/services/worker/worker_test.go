package worker

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestPool_Run(t *testing.T) {
	p := NewPool(2, 4, map[JobType]Extractor{
		JobWordExtraction: func(path string) (string, error) { return "word:" + path, nil },
		JobPDFExtraction:  func(path string) (string, error) { return "", errors.New("broken pdf") },
	}, quietLogger())
	p.Start()
	defer p.Stop()

	text, err := p.Run(context.Background(), "req-1", JobWordExtraction, "a.docx")
	require.NoError(t, err)
	assert.Equal(t, "word:a.docx", text)

	_, err = p.Run(context.Background(), "req-1", JobPDFExtraction, "a.pdf")
	assert.EqualError(t, err, "broken pdf")

	_, err = p.Run(context.Background(), "req-1", JobType("spreadsheet"), "a.xlsx")
	assert.ErrorContains(t, err, "unknown job type")

	assert.Equal(t, 2, p.WorkerCount())
}

func TestPool_QueueFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)

	p := NewPool(1, 1, map[JobType]Extractor{
		JobPDFExtraction: func(string) (string, error) {
			started <- struct{}{}
			<-release
			return "done", nil
		},
	}, quietLogger())
	p.Start()
	defer p.Stop()

	// First job occupies the only worker.
	first, err := p.Submit(Job{ID: "1", Type: JobPDFExtraction})
	require.NoError(t, err)
	<-started

	// Second job fills the queue.
	second, err := p.Submit(Job{ID: "2", Type: JobPDFExtraction})
	require.NoError(t, err)
	assert.Equal(t, 1, p.QueueSize())

	// Third job has nowhere to go.
	_, err = p.Submit(Job{ID: "3", Type: JobPDFExtraction})
	assert.ErrorIs(t, err, ErrQueueFull)

	close(release)
	assert.Equal(t, "done", (<-first).Text)
	<-started
	assert.Equal(t, "done", (<-second).Text)
}

func TestPool_RunHonoursContext(t *testing.T) {
	release := make(chan struct{})
	p := NewPool(1, 1, map[JobType]Extractor{
		JobPDFExtraction: func(string) (string, error) {
			<-release
			return "late", nil
		},
	}, quietLogger())
	p.Start()
	defer p.Stop()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Run(ctx, "req", JobPDFExtraction, "slow.pdf")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPool_SkipsCancelledJobs(t *testing.T) {
	called := false
	p := NewPool(1, 1, map[JobType]Extractor{
		JobWordExtraction: func(string) (string, error) {
			called = true
			return "", nil
		},
	}, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := p.Submit(Job{ID: "x", Type: JobWordExtraction, Ctx: ctx})
	require.NoError(t, err)

	p.Start()
	defer p.Stop()

	res := <-results
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.False(t, called)
}

func TestPool_SubmitAfterStop(t *testing.T) {
	p := NewPool(1, 1, map[JobType]Extractor{}, quietLogger())
	p.Start()
	p.Stop()
	p.Stop() // second Stop is a no-op

	_, err := p.Submit(Job{ID: "late", Type: JobWordExtraction})
	assert.ErrorIs(t, err, ErrStopped)
}
