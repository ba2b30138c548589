// Package fakefs implements the SimpleLight in-memory filesystem.
// This file contains the node pool and the tree primitives.
package fakefs

import (
	"strings"

	"github.com/shawly/SimpleLight/pkg/common"
)

// Kind discriminates the two node types of the tree
type Kind uint8

const (
	// KindNone marks a free pool slot
	KindNone Kind = iota
	// KindFile is a regular file
	KindFile
	// KindDirectory is a directory
	KindDirectory
)

// MaxNameLength bounds the length of a single path component
const MaxNameLength = 99

// DefaultMaxNodes is the default node pool capacity
const DefaultMaxNodes = 64

// node is a file or directory in the tree. Directories carry no size or data;
// files carry no children. data may be nil for a file with a non-zero size, in
// which case reads yield zeros (the default layout uses this for its large
// sample files).
type node struct {
	name         string
	kind         Kind
	parent       *node
	firstChild   *node
	nextSibling  *node
	data         []byte
	size         int64
	startCluster uint32
}

// free reports whether the pool slot is unused. A slot is free when its name
// is empty and its kind is zero; the root is the only live node with an empty
// name and is distinguished by its directory kind.
func (n *node) free() bool {
	return n.name == "" && n.kind == KindNone
}

// release returns the node to the free pool and drops its backing data
func (n *node) release() {
	common.LogDebug(common.DebugNodeReleased, n.name)
	*n = node{}
}

// allocNode scans the pool for a free slot. Returns ErrTooManyNodes when the
// pool is exhausted.
func (f *Filesystem) allocNode(name string, kind Kind) (*node, error) {
	if len(name) > MaxNameLength {
		return nil, ErrInvalidParameter
	}
	for i := range f.pool {
		if f.pool[i].free() {
			f.pool[i] = node{name: name, kind: kind}
			common.LogDebug(common.DebugNodeAllocated, name, i)
			return &f.pool[i], nil
		}
	}
	return nil, ErrTooManyNodes
}

// addChild appends child to dir's child list, preserving insertion order
func addChild(dir, child *node) {
	child.parent = dir
	child.nextSibling = nil
	if dir.firstChild == nil {
		dir.firstChild = child
		return
	}
	it := dir.firstChild
	for it.nextSibling != nil {
		it = it.nextSibling
	}
	it.nextSibling = child
}

// findChild looks name up in dir's children. Matching is case-insensitive,
// following FAT short-name semantics.
func findChild(dir *node, name string) *node {
	if dir == nil || dir.kind != KindDirectory {
		return nil
	}
	for it := dir.firstChild; it != nil; it = it.nextSibling {
		if strings.EqualFold(it.name, name) {
			return it
		}
	}
	return nil
}

// detachChild unlinks n from its parent's child list. Returns ErrInternal if
// the parent does not actually list n, which would mean the tree is corrupt.
func detachChild(n *node) error {
	parent := n.parent
	if parent == nil {
		return ErrInternal
	}
	var prev *node
	it := parent.firstChild
	for it != nil && it != n {
		prev = it
		it = it.nextSibling
	}
	if it == nil {
		return ErrInternal
	}
	if prev != nil {
		prev.nextSibling = n.nextSibling
	} else {
		parent.firstChild = n.nextSibling
	}
	n.parent = nil
	n.nextSibling = nil
	return nil
}

// info builds the externally visible description of the node
func (n *node) info() Info {
	return Info{
		Name:         n.name,
		Dir:          n.kind == KindDirectory,
		Size:         n.fileSize(),
		StartCluster: n.startCluster,
	}
}

func (n *node) fileSize() int64 {
	if n.kind == KindDirectory {
		return 0
	}
	return n.size
}
