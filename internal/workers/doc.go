// Package workers calculates worker pool sizes for parallel operations.
//
// It provides CPU-aware worker count calculation with support for container
// CPU limits (via GOMAXPROCS) and a manual override through the SCAN_WORKERS
// environment variable. The scanner uses it to size its content-read pool.
package workers
