package indexer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"media-indexer/internal/cache"
	"media-indexer/internal/logging"
	"media-indexer/internal/media"
	"media-indexer/internal/metrics"
	"media-indexer/internal/watcher"
)

// ErrNoRoot is returned by Refresh when no root has been selected.
var ErrNoRoot = errors.New("no root selected")

// State is the indexer's lifecycle state.
type State int

const (
	// StateIdle means no root is selected and no snapshot exists.
	StateIdle State = iota
	// StateLoading means a load cycle is in flight.
	StateLoading
	// StateReady means a snapshot is published.
	StateReady
)

// String returns the state name for logs and the API.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// Snapshot is an immutable, internally consistent view of the indexed root.
// Exactly one snapshot is current at any time.
type Snapshot struct {
	Generation uint64               `json:"generation"`
	Categories []media.Category     `json:"categories"`
	Tree       *media.DirectoryNode `json:"tree,omitempty"`
}

// Indexer owns the current root, runs load cycles, and publishes snapshots.
type Indexer struct {
	scanner      *media.Scanner
	contentCache *cache.Cache

	gen atomic.Uint64 // generation allocator, never reset

	subsState subscribers

	mu        sync.Mutex
	state     State
	root      string
	rootSeq   uint64 // bumped on SelectRoot/Dispose; stamps cycles to their root
	snapshot  *Snapshot
	published uint64 // generation of the current snapshot
	lastErr   error
	watch     *watcher.Watcher
}

// New creates an Indexer in the Idle state.
func New(scanner *media.Scanner, contentCache *cache.Cache) *Indexer {
	return &Indexer{
		scanner:      scanner,
		contentCache: contentCache,
	}
}

// SelectRoot switches the indexer to a new root directory. The existence
// check runs synchronously: on failure nothing is torn down and the previous
// state survives. On success the old watch subscription is cancelled, the
// snapshot is cleared, and the first load cycle runs off the caller.
func (ix *Indexer) SelectRoot(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: %s", media.ErrRootNotFound, path)
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", media.ErrRootNotFound, path)
	}

	ix.mu.Lock()
	if ix.watch != nil {
		ix.watch.Cancel()
		ix.watch = nil
	}
	ix.root = abs
	ix.rootSeq++
	seq := ix.rootSeq
	ix.snapshot = nil
	ix.published = 0
	ix.lastErr = nil
	ix.setStateLocked(StateLoading)
	ix.mu.Unlock()

	logging.Info("Root selected: %s", abs)
	go ix.runCycle(abs, seq, true)
	return nil
}

// Refresh runs another load cycle for the current root, exactly as a watch
// signal would.
func (ix *Indexer) Refresh() error {
	ix.mu.Lock()
	if ix.root == "" {
		ix.mu.Unlock()
		return ErrNoRoot
	}
	root, seq := ix.root, ix.rootSeq
	ix.setStateLocked(StateLoading)
	ix.mu.Unlock()

	go ix.runCycle(root, seq, false)
	return nil
}

// Dispose tears down the watch subscription, releases the content cache, and
// returns to Idle.
func (ix *Indexer) Dispose() {
	ix.mu.Lock()
	if ix.watch != nil {
		ix.watch.Cancel()
		ix.watch = nil
	}
	ix.root = ""
	ix.rootSeq++
	ix.snapshot = nil
	ix.published = 0
	ix.lastErr = nil
	ix.setStateLocked(StateIdle)
	ix.mu.Unlock()

	ix.contentCache.Purge()
	logging.Info("Indexer disposed")
}

// Snapshot returns the current snapshot, or ok=false while Idle or before
// the first publication.
func (ix *Indexer) Snapshot() (*Snapshot, bool) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.snapshot == nil {
		return nil, false
	}
	return ix.snapshot, true
}

// State returns the current lifecycle state.
func (ix *Indexer) State() State {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.state
}

// Root returns the currently selected root, empty while Idle.
func (ix *Indexer) Root() string {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.root
}

// LastError returns the most recent cycle or watch error. A successful
// publication clears it.
func (ix *Indexer) LastError() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.lastErr
}

// runCycle executes one load cycle: scanner and tree builder run
// concurrently over the same root, then the result is offered for
// publication under the generation taken at cycle start.
func (ix *Indexer) runCycle(root string, seq uint64, firstForRoot bool) {
	gen := ix.gen.Add(1)
	start := time.Now()
	logging.Debug("Load cycle %d starting for %s", gen, root)

	var categories []media.Category
	var scanErr error
	var tree *media.DirectoryNode

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		categories, scanErr = ix.scanner.Scan(root)
	}()
	go func() {
		defer wg.Done()
		tree = media.BuildTree(root)
	}()
	wg.Wait()

	metrics.IndexerCycleDuration.Observe(time.Since(start).Seconds())

	if scanErr != nil {
		ix.cycleFailed(seq, gen, scanErr)
		return
	}

	snap := &Snapshot{
		Generation: gen,
		Categories: categories,
		Tree:       tree,
	}
	if ix.publish(seq, snap) {
		logging.Info("Published snapshot %d for %s (%d categories, %v)",
			gen, root, len(categories), time.Since(start))
		if firstForRoot {
			ix.startWatch(root, seq)
		}
	}
}

// publish installs snap as the current snapshot unless it is stale: from a
// superseded root, or older than what is already published. Returns whether
// the snapshot was installed.
func (ix *Indexer) publish(seq uint64, snap *Snapshot) bool {
	ix.mu.Lock()
	if seq != ix.rootSeq || snap.Generation <= ix.published {
		ix.mu.Unlock()
		metrics.IndexerStaleDropsTotal.Inc()
		logging.Debug("Dropping stale cycle result (generation %d)", snap.Generation)
		return false
	}
	ix.snapshot = snap
	ix.published = snap.Generation
	ix.lastErr = nil
	ix.setStateLocked(StateReady)
	ix.mu.Unlock()

	metrics.IndexerPublishesTotal.Inc()
	metrics.IndexerGeneration.Set(float64(snap.Generation))

	ix.notify(Event{Type: EventPublished, Generation: snap.Generation})
	return true
}

// cycleFailed records a cycle-level error. The previously published snapshot,
// if any, stays in place.
func (ix *Indexer) cycleFailed(seq, gen uint64, err error) {
	ix.mu.Lock()
	if seq != ix.rootSeq {
		ix.mu.Unlock()
		return
	}
	ix.lastErr = err
	if ix.snapshot != nil {
		ix.setStateLocked(StateReady)
	} else {
		ix.setStateLocked(StateIdle)
	}
	ix.mu.Unlock()

	logging.Error("Load cycle %d failed: %v", gen, err)
	ix.notify(Event{Type: EventCycleError, Err: err})
}

// startWatch subscribes to change notifications for root and feeds signals
// back into load cycles. Called once per successful SelectRoot.
func (ix *Indexer) startWatch(root string, seq uint64) {
	w, err := watcher.New(root)
	if err != nil {
		ix.watchFailed(seq, err)
		return
	}

	ix.mu.Lock()
	if seq != ix.rootSeq {
		ix.mu.Unlock()
		w.Cancel()
		return
	}
	ix.watch = w
	ix.mu.Unlock()

	go ix.watchLoop(w.Signals(), w.Errors(), w.Cancel, root, seq)
}

// watchLoop turns change signals into load cycles until the subscription
// dies. The signal channel closes when the watcher stops, and a terminal
// error may be pending alongside that close, so the close path drains the
// error channel before giving up.
func (ix *Indexer) watchLoop(signals <-chan watcher.Signal, errs <-chan error, cancel func(), root string, seq uint64) {
	for {
		select {
		case _, ok := <-signals:
			if !ok {
				select {
				case err := <-errs:
					if err != nil {
						cancel()
						ix.watchFailed(seq, err)
					}
				default:
				}
				return
			}

			ix.mu.Lock()
			if seq != ix.rootSeq {
				ix.mu.Unlock()
				return
			}
			ix.setStateLocked(StateLoading)
			ix.mu.Unlock()

			// One cycle per signal, no debouncing; overlap is
			// resolved at publication
			go ix.runCycle(root, seq, false)

		case err, ok := <-errs:
			if ok && err != nil {
				cancel()
				ix.watchFailed(seq, err)
			}
			return
		}
	}
}

// watchFailed records a terminal watch error. Watching is not restarted; the
// caller can recover with Refresh or SelectRoot.
func (ix *Indexer) watchFailed(seq uint64, err error) {
	ix.mu.Lock()
	if seq != ix.rootSeq {
		ix.mu.Unlock()
		return
	}
	ix.lastErr = err
	ix.watch = nil
	ix.mu.Unlock()

	logging.Error("Watch subscription failed: %v", err)
	ix.notify(Event{Type: EventWatchError, Err: err})
}

// setStateLocked updates the state and its gauge. Caller holds ix.mu.
func (ix *Indexer) setStateLocked(s State) {
	ix.state = s
	metrics.IndexerState.Set(float64(s))
}
