// Package fakefs implements the SimpleLight in-memory filesystem.
// This file contains file handles and the byte-level file operations.
package fakefs

import "fmt"

// Mode is the set of open flags, mirroring the FAT driver's access modes
type Mode uint8

const (
	// ModeRead opens for reading
	ModeRead Mode = 1 << iota
	// ModeWrite opens for writing
	ModeWrite
	// ModeCreateNew creates the file and fails if it already exists
	ModeCreateNew
	// ModeCreateAlways creates the file, truncating an existing one
	ModeCreateAlways
	// ModeOpenAlways opens the file, creating it if missing
	ModeOpenAlways
)

func (m Mode) creates() bool {
	return m&(ModeCreateNew|ModeCreateAlways|ModeOpenAlways) != 0
}

// File is a transient handle onto one file node. It owns a byte cursor and
// dies on Close. Multiple live handles onto the same node may exist; there is
// no locking, the last writer wins.
type File struct {
	fsys   *Filesystem
	node   *node
	mode   Mode
	offset int64
	closed bool
}

// Open resolves path and returns a handle with the cursor at offset zero.
//
// A missing target is created when mode requests creation, with any missing
// parent directories created along the way. ModeCreateNew fails with
// ErrExists when the target is already present; ModeCreateAlways truncates
// it. Opening a directory fails with ErrInvalidObject.
func (f *Filesystem) Open(path string, mode Mode) (*File, error) {
	if !f.mounted {
		return nil, ErrNotReady
	}
	n := f.resolve(path)
	if n != nil && mode&ModeCreateNew != 0 {
		return nil, fmt.Errorf("%w: %s", ErrExists, path)
	}
	if n != nil && mode&ModeCreateAlways != 0 && n.kind == KindFile {
		n.data = nil
		n.size = 0
	}
	if n == nil {
		if !mode.creates() {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		parentPath, leaf := splitParent(path)
		if leaf == "" {
			return nil, ErrInvalidParameter
		}
		parent, err := f.ensureDir(parentPath)
		if err != nil {
			return nil, err
		}
		n, err = f.allocNode(leaf, KindFile)
		if err != nil {
			return nil, err
		}
		f.assignClusters(n)
		addChild(parent, n)
	}
	if n.kind != KindFile {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidObject, path)
	}
	return &File{fsys: f, node: n, mode: mode}, nil
}

// Read copies up to len(p) bytes from the cursor onward and advances the
// cursor. A file without backing data reads as zeros. At end of file Read
// returns 0 with a nil error, matching the driver's f_read contract rather
// than the io.Reader one.
func (fp *File) Read(p []byte) (int, error) {
	if err := fp.valid(); err != nil {
		return 0, err
	}
	if fp.offset >= fp.node.size {
		return 0, nil
	}
	remain := fp.node.size - fp.offset
	n := len(p)
	if int64(n) > remain {
		n = int(remain)
	}
	if fp.node.data != nil && fp.offset < int64(len(fp.node.data)) {
		copied := copy(p[:n], fp.node.data[fp.offset:])
		for i := copied; i < n; i++ {
			p[i] = 0
		}
	} else {
		for i := 0; i < n; i++ {
			p[i] = 0
		}
	}
	fp.offset += int64(n)
	return n, nil
}

// Write copies len(p) bytes at the cursor, growing the file (and zero-filling
// any gap left by a past-end seek) as needed, and advances the cursor. Fails
// with ErrDenied if the handle was not opened with ModeWrite.
func (fp *File) Write(p []byte) (int, error) {
	if err := fp.valid(); err != nil {
		return 0, err
	}
	if fp.mode&ModeWrite == 0 {
		return 0, ErrDenied
	}
	end := fp.offset + int64(len(p))
	if err := fp.node.ensureCapacity(end); err != nil {
		return 0, err
	}
	copy(fp.node.data[fp.offset:end], p)
	fp.offset = end
	if end > fp.node.size {
		fp.node.size = end
	}
	return len(p), nil
}

// ensureCapacity grows the backing buffer to hold at least size bytes.
// The grown region reads as zeros. A sparse file (size without data) gets a
// buffer covering its full logical size so earlier zero-reads stay stable.
func (n *node) ensureCapacity(size int64) error {
	if size < n.size {
		size = n.size
	}
	if int64(len(n.data)) >= size {
		return nil
	}
	grown := make([]byte, size)
	copy(grown, n.data)
	n.data = grown
	return nil
}

// Seek moves the cursor to the absolute offset. Read-only handles are clipped
// to the file size; writable handles may seek past the end, where a later
// Write grows the file and leaves the gap reading as zeros.
func (fp *File) Seek(offset int64) error {
	if err := fp.valid(); err != nil {
		return err
	}
	if offset < 0 {
		return ErrInvalidParameter
	}
	if fp.mode&ModeWrite == 0 && offset > fp.node.size {
		offset = fp.node.size
	}
	fp.offset = offset
	return nil
}

// Close invalidates the handle. Further operations fail with
// ErrInvalidObject.
func (fp *File) Close() error {
	if fp == nil {
		return ErrInvalidParameter
	}
	fp.closed = true
	fp.node = nil
	return nil
}

// Size returns the current file size
func (fp *File) Size() int64 {
	if fp.valid() != nil {
		return 0
	}
	return fp.node.size
}

// Offset returns the cursor position
func (fp *File) Offset() int64 {
	return fp.offset
}

// StartCluster returns the first cluster of the file's synthetic chain
func (fp *File) StartCluster() uint32 {
	if fp.valid() != nil {
		return 0
	}
	return fp.node.startCluster
}

// ReadLine reads bytes up to and including the next newline, or until limit
// bytes have been read, whichever comes first. Returns an empty string at end
// of file.
func (fp *File) ReadLine(limit int) (string, error) {
	if err := fp.valid(); err != nil {
		return "", err
	}
	if limit <= 0 {
		return "", ErrInvalidParameter
	}
	line := make([]byte, 0, limit)
	buf := make([]byte, 1)
	for len(line) < limit {
		n, err := fp.Read(buf)
		if err != nil {
			return "", err
		}
		if n == 0 {
			break
		}
		line = append(line, buf[0])
		if buf[0] == '\n' {
			break
		}
	}
	return string(line), nil
}

// WriteString appends the formatted string at the cursor. Returns the number
// of bytes written.
func (fp *File) WriteString(format string, args ...interface{}) (int, error) {
	return fp.Write([]byte(fmt.Sprintf(format, args...)))
}

func (fp *File) valid() error {
	if fp == nil || fp.closed || fp.node == nil {
		return ErrInvalidObject
	}
	if !fp.fsys.mounted {
		return ErrNotReady
	}
	return nil
}
