package mediatypes

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// sidecarNames lists filesystem metadata files that are never indexed,
// keyed by lowercased base name.
var sidecarNames = map[string]bool{
	".ds_store":   true,
	"thumbs.db":   true,
	"desktop.ini": true,
}

// extensionLabels maps lowercased file extensions to category labels.
var extensionLabels = map[string]string{
	// Images
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".heic": "image/heic",
	".heif": "image/heif",

	// Videos
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".3gp":  "video/3gpp",
	".ts":   "video/mp2t",

	// Audio
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".flac": "audio/flac",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".opus": "audio/opus",
	".aac":  "audio/aac",

	// Text
	".txt": "text/plain",
	".md":  "text/markdown",
	".csv": "text/csv",

	// Application-family labels, excluded unless allow-listed
	".json": "application/json",
	".pdf":  "application/pdf",
	".xml":  "application/xml",
	".zip":  "application/zip",
}

// LabelForExtension returns the category label for a lowercased extension
// (including the leading dot). It falls back to the platform MIME registry
// for extensions the table does not know.
func LabelForExtension(ext string) (string, bool) {
	if label, ok := extensionLabels[ext]; ok {
		return label, true
	}

	byType := mime.TypeByExtension(ext)
	if byType == "" {
		return "", false
	}

	// Strip parameters like "; charset=utf-8"
	if i := strings.IndexByte(byType, ';'); i >= 0 {
		byType = byType[:i]
	}
	return strings.ToLower(strings.TrimSpace(byType)), true
}

// RequiresContent reports whether entries with this label carry eager bytes.
// Only image content is read during a scan; everything else is metadata-only.
func RequiresContent(label string) bool {
	return strings.HasPrefix(label, "image/")
}

// HasHiddenSegment reports whether any segment of the slash- or
// OS-separated path starts with the hidden marker ".".
func HasHiddenSegment(relPath string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(relPath), "/") {
		if strings.HasPrefix(seg, ".") && seg != "." && seg != ".." {
			return true
		}
	}
	return false
}

// Classifier maps file paths to category labels. The zero value excludes all
// application/* labels; NewClassifier installs an allow-list for them.
type Classifier struct {
	allow []glob.Glob
}

// NewClassifier creates a Classifier. Each allow pattern is a glob matched
// against application/* labels that would otherwise be excluded.
func NewClassifier(allowLabels []string) (*Classifier, error) {
	c := &Classifier{}
	for _, pattern := range allowLabels {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid allow pattern %q: %w", pattern, err)
		}
		c.allow = append(c.allow, g)
	}
	return c, nil
}

// Classify returns the category label for a path relative to the scan root,
// or ok=false if the path is excluded from indexing.
func (c *Classifier) Classify(relPath string) (string, bool) {
	base := filepath.Base(relPath)
	if sidecarNames[strings.ToLower(base)] {
		return "", false
	}

	if HasHiddenSegment(relPath) {
		return "", false
	}

	ext := strings.ToLower(filepath.Ext(base))
	label, ok := LabelForExtension(ext)
	if !ok {
		return "", false
	}

	if strings.HasPrefix(label, "application/") && !c.allowed(label) {
		return "", false
	}

	return label, true
}

func (c *Classifier) allowed(label string) bool {
	for _, g := range c.allow {
		if g.Match(label) {
			return true
		}
	}
	return false
}
