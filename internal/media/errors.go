package media

import "errors"

var (
	// ErrRootNotFound means the root path does not exist or is not a
	// directory. Fatal to the load cycle before anything is touched.
	ErrRootNotFound = errors.New("root directory not found")

	// ErrScanFailed means the root existed but could not be traversed.
	// Fatal to the load cycle; the previous snapshot stays in place.
	ErrScanFailed = errors.New("scan failed")
)
