// Package fakefs implements the SimpleLight in-memory filesystem. It replaces
// the whole FAT driver surface (mount, open, read, write, seek, directory
// iteration, rename, unlink) with a node tree kept in host memory, while still
// exposing FAT-compatible cluster-chain addressing for callers that stream
// file content by walking clusters directly.
package fakefs

import "errors"

// Sentinel errors mirroring the result codes of the FAT driver the package
// stands in for. Callers check them with errors.Is.
var (
	ErrNotReady         = errors.New("filesystem not mounted")
	ErrNotFound         = errors.New("no such file")
	ErrNoPath           = errors.New("no such path")
	ErrExists           = errors.New("already exists")
	ErrDenied           = errors.New("access denied")
	ErrInvalidObject    = errors.New("invalid object")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrTooManyNodes     = errors.New("node pool exhausted")
	ErrInternal         = errors.New("internal filesystem error")
)
