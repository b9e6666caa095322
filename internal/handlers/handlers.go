package handlers

import (
	"media-indexer/internal/cache"
	"media-indexer/internal/indexer"
)

// Handlers bundles the API's dependencies.
type Handlers struct {
	indexer      *indexer.Indexer
	contentCache *cache.Cache
}

// New creates the handler set.
func New(ix *indexer.Indexer, contentCache *cache.Cache) *Handlers {
	return &Handlers{
		indexer:      ix,
		contentCache: contentCache,
	}
}
