// Package fakefs implements the SimpleLight in-memory filesystem.
// This file contains the Filesystem context object, path resolution and the
// path-level operations (mount, stat, unlink, rename, mkdir, cwd).
package fakefs

import (
	"fmt"
	"strings"

	"github.com/shawly/SimpleLight/pkg/common"
)

// Config carries the emulator constants of a Filesystem instance. The zero
// value selects the defaults used by the firmware build.
type Config struct {
	// MaxNodes is the node pool capacity (default 64)
	MaxNodes int
	// SectorSize in bytes (default 512)
	SectorSize uint32
	// SectorsPerCluster for cluster arithmetic (default 4)
	SectorsPerCluster uint32
	// DataBaseSector is the sector where the emulated data area begins
	// (default 2048)
	DataBaseSector uint32
}

func (c Config) withDefaults() Config {
	if c.MaxNodes <= 0 {
		c.MaxNodes = DefaultMaxNodes
	}
	if c.SectorSize == 0 {
		c.SectorSize = 512
	}
	if c.SectorsPerCluster == 0 {
		c.SectorsPerCluster = 4
	}
	if c.DataBaseSector == 0 {
		c.DataBaseSector = 2048
	}
	return c
}

// Info describes a file or directory without requiring an open handle
type Info struct {
	Name string
	Dir  bool
	Size int64
	// StartCluster lets cluster-walking callers seed a chain without
	// opening the file
	StartCluster uint32
}

// Filesystem is one independent filesystem instance. Instances share nothing;
// each owns its node pool, root, working directory and cluster counter.
// Mount resets everything, so an instance can be reused across sessions.
//
// Operations are not safe for concurrent use. The emulated firmware is a
// single-threaded client and the package keeps that assumption.
type Filesystem struct {
	cfg         Config
	pool        []node
	root        *node
	cwd         *node
	nextCluster uint32
	mounted     bool
}

// New creates an unmounted filesystem with the given configuration
func New(cfg Config) *Filesystem {
	return &Filesystem{cfg: cfg.withDefaults()}
}

// Mount resets all filesystem state and seeds the tree from layout. A nil
// layout seeds the firmware's default tree (see DefaultLayout).
func (f *Filesystem) Mount(layout *Layout) error {
	f.pool = make([]node, f.cfg.MaxNodes)
	f.nextCluster = 2 // FAT numbers clusters from 2
	f.mounted = true

	root, err := f.allocNode("", KindDirectory)
	if err != nil {
		return err
	}
	f.root = root
	f.cwd = root

	if layout == nil {
		layout = DefaultLayout()
	}
	if err := f.applyLayout(layout); err != nil {
		f.Unmount()
		return common.FormatError(common.ErrFailedToMountImage, err)
	}
	common.LogDebug(common.InfoFilesystemReady, f.nodesInUse())
	return nil
}

// Unmount drops all filesystem state. Handles created before the unmount
// must not be used afterwards.
func (f *Filesystem) Unmount() {
	f.pool = nil
	f.root = nil
	f.cwd = nil
	f.nextCluster = 0
	f.mounted = false
}

// Mounted reports whether Mount has been called
func (f *Filesystem) Mounted() bool {
	return f.mounted
}

func (f *Filesystem) nodesInUse() int {
	used := 0
	for i := range f.pool {
		if !f.pool[i].free() {
			used++
		}
	}
	return used
}

// splitPath breaks a path into its segments, dropping empty segments caused
// by repeated separators. The second return value reports whether the path
// was absolute.
func splitPath(path string) ([]string, bool) {
	absolute := strings.HasPrefix(path, "/")
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments, absolute
}

// resolve walks the tree to the node named by path. Relative paths start at
// the working directory; "." and ".." are honored; matching is
// case-insensitive. Returns nil if any segment is missing.
func (f *Filesystem) resolve(path string) *node {
	if f.root == nil {
		return nil
	}
	segments, absolute := splitPath(path)
	cur := f.cwd
	if absolute || cur == nil {
		cur = f.root
	}
	for _, seg := range segments {
		switch seg {
		case ".":
			// stay
		case "..":
			if cur.parent != nil {
				cur = cur.parent
			}
		default:
			next := findChild(cur, seg)
			if next == nil {
				return nil
			}
			cur = next
		}
	}
	common.LogDebug(common.DebugPathResolved, path)
	return cur
}

// ensureDir resolves path, creating any missing segments as directories.
// Fails with ErrInvalidObject if an existing segment is a file.
func (f *Filesystem) ensureDir(path string) (*node, error) {
	if f.root == nil {
		return nil, ErrNotReady
	}
	segments, absolute := splitPath(path)
	cur := f.cwd
	if absolute || cur == nil {
		cur = f.root
	}
	for _, seg := range segments {
		switch seg {
		case ".":
		case "..":
			if cur.parent != nil {
				cur = cur.parent
			}
		default:
			next := findChild(cur, seg)
			if next == nil {
				var err error
				next, err = f.allocNode(seg, KindDirectory)
				if err != nil {
					return nil, err
				}
				addChild(cur, next)
			} else if next.kind != KindDirectory {
				return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidObject, seg)
			}
			cur = next
		}
	}
	return cur, nil
}

// splitParent separates a path into its parent path and leaf name. A path
// with no separator names an entry of the working directory.
func splitParent(path string) (parent string, leaf string) {
	trimmed := strings.TrimRight(path, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return ".", trimmed
	}
	if idx == 0 {
		return "/", trimmed[1:]
	}
	return trimmed[:idx], trimmed[idx+1:]
}

// assignClusters gives a file node a contiguous synthetic cluster chain
// sized for its current content
func (f *Filesystem) assignClusters(n *node) {
	if n.kind != KindFile {
		return
	}
	clusterSize := int64(f.cfg.SectorsPerCluster) * int64(f.cfg.SectorSize)
	count := common.SizeInClusters(n.size, clusterSize)
	n.startCluster = f.nextCluster
	f.nextCluster += count
	common.LogDebug(common.DebugClusterAssigned, n.startCluster, n.startCluster+count-1, n.name)
}

// Stat returns the description of the entry at path
func (f *Filesystem) Stat(path string) (Info, error) {
	if !f.mounted {
		return Info{}, ErrNotReady
	}
	n := f.resolve(path)
	if n == nil {
		return Info{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return n.info(), nil
}

// Unlink removes the file or empty directory at path. Removing the root or a
// non-empty directory fails with ErrDenied. The node's backing data is freed
// and its pool slot becomes reusable.
func (f *Filesystem) Unlink(path string) error {
	if !f.mounted {
		return ErrNotReady
	}
	n := f.resolve(path)
	if n == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if n == f.root {
		return fmt.Errorf("%w: cannot remove root", ErrDenied)
	}
	if n.kind == KindDirectory && n.firstChild != nil {
		return fmt.Errorf("%w: directory not empty", ErrDenied)
	}
	if err := detachChild(n); err != nil {
		return err
	}
	if n == f.cwd {
		f.cwd = f.root
	}
	n.release()
	return nil
}

// Rename moves the entry at oldPath to newPath, creating intermediate
// directories of the destination as needed. The destination leaf name
// replaces the entry's current name.
func (f *Filesystem) Rename(oldPath, newPath string) error {
	if !f.mounted {
		return ErrNotReady
	}
	n := f.resolve(oldPath)
	if n == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, oldPath)
	}
	if n == f.root {
		return fmt.Errorf("%w: cannot rename root", ErrDenied)
	}
	parentPath, leaf := splitParent(newPath)
	if leaf == "" || len(leaf) > MaxNameLength {
		return ErrInvalidParameter
	}
	newParent, err := f.ensureDir(parentPath)
	if err != nil {
		return err
	}
	// Attaching a directory under itself would make it its own ancestor
	for it := newParent; it != nil; it = it.parent {
		if it == n {
			return fmt.Errorf("%w: destination inside %s", ErrDenied, oldPath)
		}
	}
	if existing := findChild(newParent, leaf); existing != nil && existing != n {
		return fmt.Errorf("%w: %s", ErrExists, newPath)
	}
	if err := detachChild(n); err != nil {
		return err
	}
	n.name = leaf
	addChild(newParent, n)
	return nil
}

// Mkdir creates the directory chain named by path. Fails with ErrExists if
// the path already resolves.
func (f *Filesystem) Mkdir(path string) error {
	if !f.mounted {
		return ErrNotReady
	}
	if n := f.resolve(path); n != nil {
		return fmt.Errorf("%w: %s", ErrExists, path)
	}
	_, err := f.ensureDir(path)
	return err
}

// Getcwd returns the absolute path of the working directory
func (f *Filesystem) Getcwd() (string, error) {
	if !f.mounted {
		return "", ErrNotReady
	}
	if f.cwd == nil || f.cwd == f.root {
		return "/", nil
	}
	var segments []string
	for it := f.cwd; it != nil && it != f.root; it = it.parent {
		segments = append([]string{it.name}, segments...)
	}
	return "/" + strings.Join(segments, "/"), nil
}

// Chdir moves the working directory to path. Fails with ErrNoPath if the
// target is missing or is not a directory.
func (f *Filesystem) Chdir(path string) error {
	if !f.mounted {
		return ErrNotReady
	}
	n := f.resolve(path)
	if n == nil || n.kind != KindDirectory {
		return fmt.Errorf("%w: %s", ErrNoPath, path)
	}
	f.cwd = n
	return nil
}
