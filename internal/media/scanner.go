package media

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"media-indexer/internal/cache"
	"media-indexer/internal/logging"
	"media-indexer/internal/mediatypes"
	"media-indexer/internal/metrics"
	"media-indexer/internal/workers"
)

// maxReadWorkers caps the content-read pool regardless of CPU count.
const maxReadWorkers = 8

// Scanner walks a root directory and produces sorted category groups.
// Safe to run from any goroutine; concurrent scans share the cache only.
type Scanner struct {
	classifier *mediatypes.Classifier
	cache      *cache.Cache
	numWorkers int
}

// NewScanner creates a Scanner using the given classifier and content cache.
func NewScanner(classifier *mediatypes.Classifier, contentCache *cache.Cache) *Scanner {
	return &Scanner{
		classifier: classifier,
		cache:      contentCache,
		numWorkers: workers.ForIO(maxReadWorkers),
	}
}

// pendingRead is a content-bearing entry that missed the cache during the
// walk and still needs its bytes loaded.
type pendingRead struct {
	absPath string
	idx     int
}

// Scan recursively enumerates every file under root, classifies it, and
// groups the survivors by category. Traversal order is irrelevant; ordering
// comes from the post-scan sort. Per-file errors skip the file; only a
// missing root or an unlistable root is fatal.
func (s *Scanner) Scan(root string) ([]Category, error) {
	start := time.Now()
	metrics.ScanRunsTotal.Inc()
	defer func() {
		metrics.ScanDuration.Observe(time.Since(start).Seconds())
	}()

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		metrics.ScanErrors.Inc()
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	var entries []Entry
	var pending []pendingRead

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				// Existence check passed but the root cannot be listed
				return err
			}
			logging.Warn("Skipping %s: %v", path, err)
			return nil
		}

		if d.IsDir() {
			// Hidden directories are descended on purpose; their
			// contents are rejected by the classifier instead
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		metrics.ScanFilesSeen.Inc()

		label, ok := s.classifier.Classify(rel)
		if !ok {
			metrics.ScanFilesSkipped.WithLabelValues("excluded").Inc()
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			logging.Warn("Skipping %s: %v", path, err)
			metrics.ScanFilesSkipped.WithLabelValues("stat_error").Inc()
			return nil
		}

		entry := Entry{
			Path:       rel,
			SizeBytes:  uint64(fi.Size()),
			ModifiedAt: fi.ModTime(),
			Category:   label,
		}

		if mediatypes.RequiresContent(label) {
			if data, hit := s.cache.Get(path, fi.ModTime()); hit {
				entry.Bytes = data
			} else {
				pending = append(pending, pendingRead{absPath: path, idx: len(entries)})
			}
		}

		entries = append(entries, entry)
		return nil
	})
	if walkErr != nil {
		metrics.ScanErrors.Inc()
		return nil, fmt.Errorf("%w: %v", ErrScanFailed, walkErr)
	}

	entries = s.loadContent(entries, pending)
	metrics.ScanFilesIncluded.Add(float64(len(entries)))

	return groupAndSort(entries), nil
}

// loadContent reads pending file content through a bounded worker pool and
// fills entry bytes in place. Entries whose read fails are dropped, matching
// the skip-on-error rule for unreadable files.
func (s *Scanner) loadContent(entries []Entry, pending []pendingRead) []Entry {
	if len(pending) == 0 {
		return entries
	}

	logging.Debug("Reading content for %d entries with %d workers", len(pending), s.numWorkers)

	dropped := make([]bool, len(entries))
	jobs := make(chan pendingRead)

	var wg sync.WaitGroup
	for i := 0; i < s.numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				data, err := os.ReadFile(job.absPath)
				if err != nil {
					logging.Warn("Skipping %s: %v", job.absPath, err)
					metrics.ScanFilesSkipped.WithLabelValues("read_error").Inc()
					dropped[job.idx] = true
					continue
				}
				entries[job.idx].Bytes = data
				s.cache.Put(job.absPath, entries[job.idx].ModifiedAt, data)
			}
		}()
	}

	for _, p := range pending {
		jobs <- p
	}
	close(jobs)
	wg.Wait()

	kept := entries[:0]
	for i := range entries {
		if !dropped[i] {
			kept = append(kept, entries[i])
		}
	}
	return kept
}

// groupAndSort buckets entries by category label and applies the ordering
// contract: entries newest-first with case-insensitive path tie-break,
// categories by label ascending.
func groupAndSort(entries []Entry) []Category {
	groups := make(map[string][]Entry)
	for _, e := range entries {
		groups[e.Category] = append(groups[e.Category], e)
	}

	labels := make([]string, 0, len(groups))
	for label := range groups {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	categories := make([]Category, 0, len(labels))
	for _, label := range labels {
		group := groups[label]
		sort.Slice(group, func(i, j int) bool {
			if !group[i].ModifiedAt.Equal(group[j].ModifiedAt) {
				return group[i].ModifiedAt.After(group[j].ModifiedAt)
			}
			return strings.ToLower(group[i].Path) < strings.ToLower(group[j].Path)
		})
		categories = append(categories, Category{Label: label, Entries: group})
	}
	return categories
}
