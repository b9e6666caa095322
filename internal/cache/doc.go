// Package cache provides an in-memory content cache keyed by file identity.
//
// An entry is identified by (path, modification time). A lookup only hits
// when the stored modification time matches exactly, so a file that changes
// on disk invalidates its own entry: the next scan misses, re-reads, and the
// Put with the newer modification time supersedes the old bytes.
//
// The cache is unbounded. Entries are only released when superseded, or all
// at once via Purge when the indexer is disposed or the root changes.
package cache
