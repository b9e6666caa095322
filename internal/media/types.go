package media

import "time"

// Entry describes one indexed file. Entries are immutable once constructed;
// a later load cycle replaces them wholesale.
type Entry struct {
	Path       string    `json:"path"`
	SizeBytes  uint64    `json:"sizeBytes"`
	ModifiedAt time.Time `json:"modifiedAt"`
	Category   string    `json:"category"`

	// Bytes carries eager file content for categories that require it
	// (images). Nil for everything else. Excluded from JSON; content is
	// served through its own endpoint.
	Bytes []byte `json:"-"`
}

// Category is an ordered group of entries sharing a label. Entries are
// sorted by ModifiedAt descending, ties broken by case-insensitive path
// ascending. A published category is never empty.
type Category struct {
	Label   string  `json:"label"`
	Entries []Entry `json:"entries"`
}

// DirectoryNode is one directory in the tree view. Children are sorted
// case-insensitively by path at every level. Hidden directories are never
// represented.
type DirectoryNode struct {
	Path     string           `json:"path"`
	Children []*DirectoryNode `json:"children,omitempty"`
}
