package path

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/zizul/sailboat/hex"
	"github.com/zizul/sailboat/tile"
)

// ErrClosed reports a search issued against a closed coordinator.
var ErrClosed = errors.New("coordinator is closed")

// Result is the outcome of one search. A nil Path with a nil Err means
// either no path exists or the search was cancelled; both are normal
// outcomes and a caller must not treat them as failures.
type Result struct {
	Path Path
	Err  error
}

// Coordinator schedules searches off the caller's goroutine and
// guarantees at most one search in flight at a time. Issuing a new
// search cancels the outstanding one and waits for it to release the
// strategy before starting, which is what makes the strategies'
// reusable scratch state safe.
type Coordinator struct {
	// admit serializes search admission: cancel the previous flight,
	// wait it out, install the next one.
	admit sync.Mutex

	mu       sync.Mutex
	strategy Strategy
	index    *tile.Index
	cancel   context.CancelFunc
	done     chan struct{}
	closed   bool
}

// NewCoordinator creates a coordinator owning the given strategy and
// reading from the given index.
func NewCoordinator(strategy Strategy, index *tile.Index) *Coordinator {
	return &Coordinator{strategy: strategy, index: index}
}

// SetStrategy swaps the search algorithm. Takes effect on the next
// search; never interrupts one in flight.
func (c *Coordinator) SetStrategy(s Strategy) {
	c.mu.Lock()
	c.strategy = s
	c.mu.Unlock()
}

// SetIndex swaps the tile index, e.g. after a chart reload. Callers
// must cancel in-flight searches first; an index must never be mutated
// while a search reads it.
func (c *Coordinator) SetIndex(ix *tile.Index) {
	c.mu.Lock()
	c.index = ix
	c.mu.Unlock()
}

// FindPathAsync starts a search on a worker goroutine and returns a
// buffered channel that delivers exactly one Result, so the caller
// picks it up on its own goroutine without ever blocking the worker.
//
// Any search still in flight is cancelled and waited out before the new
// one begins. If ctx fires before completion the Result carries a nil
// path and a nil error; genuine faults are reported in Err.
func (c *Coordinator) FindPathAsync(ctx context.Context, start, goal hex.Axial) <-chan Result {
	out := make(chan Result, 1)

	c.admit.Lock()
	c.cancelAndWaitLocked()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.admit.Unlock()
		out <- Result{Err: ErrClosed}
		return out
	}
	searchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done
	strategy, index := c.strategy, c.index
	c.mu.Unlock()
	c.admit.Unlock()

	go func() {
		// Release the in-flight slot and the composite context on every
		// exit, including a strategy panic.
		defer close(done)
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Search %v -> %v panicked: %v", start, goal, r)
				out <- Result{Err: fmt.Errorf("search fault: %v", r)}
			}
		}()

		p, err := strategy.FindPath(searchCtx, start, goal, index)
		out <- Result{Path: p, Err: suppressCancel(err)}
	}()

	return out
}

// FindPath runs a search synchronously on the caller's goroutine; for
// callers that already know it is safe to block. The same one-in-flight
// invariant applies.
func (c *Coordinator) FindPath(start, goal hex.Axial) (Path, error) {
	c.admit.Lock()
	defer c.admit.Unlock()
	c.cancelAndWaitLocked()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	strategy, index := c.strategy, c.index
	c.mu.Unlock()

	// One scheduling yield before the walk, so a caller driving a frame
	// loop gets a tick in even without the async offload.
	runtime.Gosched()

	p, err := strategy.FindPath(context.Background(), start, goal, index)
	return p, suppressCancel(err)
}

// CancelCurrent cancels the in-flight search, if any. Idempotent; safe
// with nothing in flight. It does not wait for the search to unwind.
func (c *Coordinator) CancelCurrent() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Close cancels any in-flight search, waits it out, and rejects all
// subsequent searches.
func (c *Coordinator) Close() {
	c.admit.Lock()
	defer c.admit.Unlock()
	c.cancelAndWaitLocked()

	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// cancelAndWaitLocked cancels the outstanding flight and blocks until
// its goroutine has released the strategy. Caller holds admit.
func (c *Coordinator) cancelAndWaitLocked() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// suppressCancel maps cooperative cancellation to the "no path" outcome.
// A cancelled search is expected to be superseded immediately, so the
// caller must not see it as a failure.
func suppressCancel(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
