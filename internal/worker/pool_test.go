package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type stubResult struct {
	err error
}

func (r *stubResult) GetError() error {
	return r.err
}

// stubJob counts executions and optionally sleeps or fails
type stubJob struct {
	duration time.Duration
	fail     bool
	executed *int32
}

func (j *stubJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.duration > 0 {
		select {
		case <-time.After(j.duration):
		case <-ctx.Done():
			return &stubResult{err: ctx.Err()}
		}
	}
	if j.fail {
		return &stubResult{err: errors.New("job failed")}
	}
	return &stubResult{}
}

// submitAll queues jobs from a separate goroutine and closes the pool
func submitAll(t *testing.T, pool *Pool, jobs []Job) {
	t.Helper()
	go func() {
		defer pool.Close()
		for _, job := range jobs {
			if err := pool.Submit(job); err != nil {
				return
			}
		}
	}()
}

func TestNewPool_Workers(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct{ in, want int }{{5, 5}, {0, 1}, {-3, 1}} {
		if got := NewPool(ctx, tc.in).workers; got != tc.want {
			t.Errorf("NewPool(%d).workers = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestPool_RunsEveryJob(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()

	var executed int32
	const count = 25

	jobs := make([]Job, count)
	for i := range jobs {
		jobs[i] = &stubJob{executed: &executed, fail: i%5 == 0}
	}
	submitAll(t, pool, jobs)

	results := pool.Wait()
	if len(results) != count {
		t.Fatalf("expected %d results, got %d", count, len(results))
	}
	if atomic.LoadInt32(&executed) != count {
		t.Errorf("expected %d executions, got %d", count, executed)
	}

	failed := 0
	for _, r := range results {
		if r.GetError() != nil {
			failed++
		}
	}
	if failed != 5 {
		t.Errorf("expected 5 failures, got %d", failed)
	}
}

// gaugeJob records the highest number of jobs running at once
type gaugeJob struct {
	current *int32
	peak    *int32
	mu      *sync.Mutex
}

func (j *gaugeJob) Execute(ctx context.Context) Result {
	n := atomic.AddInt32(j.current, 1)
	j.mu.Lock()
	if n > *j.peak {
		*j.peak = n
	}
	j.mu.Unlock()

	time.Sleep(5 * time.Millisecond)
	atomic.AddInt32(j.current, -1)
	return &stubResult{}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	const workers = 4
	pool := NewPool(context.Background(), workers)
	pool.Start()

	var current, peak int32
	var mu sync.Mutex

	jobs := make([]Job, 40)
	for i := range jobs {
		jobs[i] = &gaugeJob{current: &current, peak: &peak, mu: &mu}
	}
	submitAll(t, pool, jobs)
	pool.Wait()

	mu.Lock()
	defer mu.Unlock()
	if peak > workers {
		t.Errorf("peak concurrency %d exceeded %d workers", peak, workers)
	}
}

func TestPool_ParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(ctx, 1)
	pool.Start()

	if err := pool.Submit(&stubJob{duration: time.Second}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	cancel()

	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not return after cancellation")
	}

	if err := pool.Submit(&stubJob{}); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed, got %v", err)
	}
}
