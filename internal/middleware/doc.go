// Package middleware provides HTTP middleware for the media indexer API:
// access logging, Prometheus request metrics, and gzip compression.
package middleware
