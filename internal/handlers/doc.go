// Package handlers implements the HTTP API over the media index.
//
// All read endpoints serve the currently published snapshot and never block
// on a running load cycle. Control endpoints (select root, refresh) return
// immediately; consumers follow progress through the event stream.
package handlers
