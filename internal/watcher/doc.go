// Package watcher turns OS filesystem notifications for a directory subtree
// into a stream of logical change signals.
//
// fsnotify watches are per-directory, so the watcher registers the root and
// every non-hidden descendant directory, and registers newly created
// directories as they appear. One signal is emitted per underlying event;
// there is no coalescing or debouncing. Consumers decide what a signal means
// (for the indexer: run another load cycle).
//
// A watcher error is terminal for the subscription: it is delivered on the
// error stream and the watcher shuts down. Restarting is the caller's call.
package watcher
