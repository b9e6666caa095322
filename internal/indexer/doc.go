// Package indexer orchestrates load cycles and owns the published snapshot.
//
// The indexer moves through three states: Idle (no root selected), Loading
// (a load cycle in flight), and Ready (snapshot published, watcher active).
// Selecting a root tears down the previous watch subscription, runs one load
// cycle off the calling goroutine, publishes the result, and subscribes to
// filesystem changes for the new root. Every change signal triggers another
// full load cycle.
//
// Load cycles may overlap when signals arrive faster than a cycle completes.
// Each cycle takes a generation number when it starts; publication is
// monotonic by generation, so a slow cycle whose result would regress the
// published snapshot is dropped on arrival. A cycle started for a superseded
// root is dropped the same way.
//
// A failed cycle never disturbs the published snapshot: the last good
// snapshot stays in place and the error is reported alongside it.
package indexer
