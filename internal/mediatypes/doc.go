// Package mediatypes classifies file paths into media category labels.
//
// This package exists as a low-level foundation that can be imported by other
// packages without creating import cycles. Classification is pure and cheap:
// it looks only at the path, never at file contents.
//
// # Category Labels
//
// A category label is a MIME-type-like string such as "image/jpeg" or
// "video/mp4". Labels are resolved from the file extension via the package
// extension table, with mime.TypeByExtension as a fallback for extensions the
// table does not know.
//
// # Exclusion
//
// A path is excluded (no label) when any of the following hold:
//   - its base name is a filesystem sidecar file (.DS_Store and friends)
//   - any path segment is hidden (starts with ".")
//   - no label can be determined for its extension
//   - the label is in the application/* family and not explicitly allowed
//
// The application/* allow-list is configured per Classifier as glob patterns,
// e.g. "application/json" or "application/*+xml".
//
// # Usage
//
//	c, err := mediatypes.NewClassifier([]string{"application/json"})
//	label, ok := c.Classify("photos/cat.jpg") // "image/jpeg", true
//	if ok && mediatypes.RequiresContent(label) {
//	    // entry carries eager bytes
//	}
package mediatypes
