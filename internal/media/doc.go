// Package media implements the filesystem side of a load cycle: scanning a
// root directory into sorted category groups and building its directory tree.
//
// The Scanner and tree builder read disjoint information and can run
// concurrently against the same root. Both return plain values; neither
// mutates shared state, so the orchestrator decides what gets published.
//
// Paths in Entry and DirectoryNode are slash-separated and relative to the
// scanned root. The root's own tree node has an empty path.
//
// The scanner deliberately descends into hidden directories: exclusion of
// their contents happens at classification, while the tree builder prunes
// hidden directories outright. The two views can therefore disagree on
// directory visibility, which is the intended behavior.
package media
