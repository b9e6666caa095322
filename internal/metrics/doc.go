// Package metrics defines Prometheus collectors for the media indexer.
//
// All collectors are registered with the default registry via promauto at
// package load time and exposed through the /metrics endpoint. Metric names
// are prefixed with "media_indexer_".
package metrics
