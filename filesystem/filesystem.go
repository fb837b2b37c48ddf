// Package filesystem routes all file access through a single swappable afero
// backend, so tests and sandboxed platforms can run against an in-memory tree
// without touching the host disk.
package filesystem

import "github.com/spf13/afero"

var backend afero.Fs = afero.NewOsFs()

// API wraps the active backend with afero's convenience methods.
func API() afero.Afero {
	return afero.Afero{Fs: backend}
}

// SetOsFs points the backend at the host filesystem.
func SetOsFs() {
	backend = afero.NewOsFs()
}

// SetMemMapFs points the backend at a fresh in-memory filesystem. Tests call
// this from init so nothing they write survives the process.
func SetMemMapFs() {
	backend = afero.NewMemMapFs()
}
