package dataset

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrAlreadyInitialized is returned by a second Init in the same process
var ErrAlreadyInitialized = errors.New("dataset already initialized")

var (
	current atomic.Pointer[Dataset]
	initMu  sync.Mutex
)

// Init loads the process-wide dataset, read back through Current. It must
// run once before anything serves requests; later calls fail with
// ErrAlreadyInitialized. A failed load leaves the state empty.
func Init(ctx context.Context, src Source, opts Options) error {
	initMu.Lock()
	defer initMu.Unlock()

	if current.Load() != nil {
		return ErrAlreadyInitialized
	}

	d, err := Load(ctx, src, opts)
	if err != nil {
		return err
	}

	current.Store(d)
	return nil
}

// Current returns the process-wide dataset, or nil before Init
func Current() *Dataset {
	return current.Load()
}
