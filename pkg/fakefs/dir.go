// Package fakefs implements the SimpleLight in-memory filesystem.
// This file contains directory iteration.
package fakefs

import "fmt"

// Dir iterates the children of one directory in insertion order. Each OpenDir
// call returns an independent cursor; restarting iteration requires
// re-opening.
type Dir struct {
	fsys   *Filesystem
	dir    *node
	next   *node
	closed bool
}

// OpenDir opens a directory for iteration. An empty path opens the working
// directory. Fails with ErrNoPath if the target is missing or is a file.
func (f *Filesystem) OpenDir(path string) (*Dir, error) {
	if !f.mounted {
		return nil, ErrNotReady
	}
	var n *node
	if path == "" {
		n = f.cwd
	} else {
		n = f.resolve(path)
	}
	if n == nil || n.kind != KindDirectory {
		return nil, fmt.Errorf("%w: %s", ErrNoPath, path)
	}
	return &Dir{fsys: f, dir: n, next: n.firstChild}, nil
}

// Next yields the next child. When the listing is exhausted it returns an
// Info with an empty Name and a nil error, the driver's readdir sentinel.
func (d *Dir) Next() (Info, error) {
	if d == nil || d.closed || d.dir == nil {
		return Info{}, ErrInvalidObject
	}
	if !d.fsys.mounted {
		return Info{}, ErrNotReady
	}
	if d.next == nil {
		return Info{}, nil
	}
	n := d.next
	d.next = n.nextSibling
	return n.info(), nil
}

// Close invalidates the cursor
func (d *Dir) Close() error {
	if d == nil {
		return ErrInvalidParameter
	}
	d.closed = true
	d.dir = nil
	d.next = nil
	return nil
}
