// Package fusefs exposes a mounted fakefs tree to the host through FUSE, so
// the emulated card's contents can be browsed with ordinary shell tools. The
// mount is read-only; mutation goes through the fakefs API or the CLI.
package fusefs

import (
	"context"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/shawly/SimpleLight/pkg/common"
	"github.com/shawly/SimpleLight/pkg/fakefs"
)

// Root is the mount point node. It materializes the fakefs tree as
// persistent inodes when the mount is added.
type Root struct {
	fs.Inode
	fsys *fakefs.Filesystem
}

// New wraps a mounted filesystem for serving over FUSE
func New(fsys *fakefs.Filesystem) *Root {
	return &Root{fsys: fsys}
}

var _ = (fs.NodeOnAdder)((*Root)(nil))

// OnAdd walks the fakefs tree and registers an inode per node
func (r *Root) OnAdd(ctx context.Context) {
	r.addTree(ctx, &r.Inode, "/")
}

func (r *Root) addTree(ctx context.Context, parent *fs.Inode, path string) {
	dir, err := r.fsys.OpenDir(path)
	if err != nil {
		common.LogError(common.ErrFailedToMountImage+": %v", err)
		return
	}
	defer dir.Close()

	for {
		info, err := dir.Next()
		if err != nil || info.Name == "" {
			return
		}
		childPath := joinPath(path, info.Name)
		common.LogDebug(common.DebugFuseInodeAdded, childPath)
		if info.Dir {
			child := parent.NewPersistentInode(ctx, &fs.Inode{}, fs.StableAttr{Mode: fuse.S_IFDIR})
			parent.AddChild(info.Name, child, true)
			r.addTree(ctx, child, childPath)
		} else {
			child := parent.NewPersistentInode(ctx, &file{fsys: r.fsys, path: childPath}, fs.StableAttr{})
			parent.AddChild(info.Name, child, true)
		}
	}
}

func joinPath(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}

// file serves one fakefs file. Every read opens a fresh fakefs handle, so
// FUSE-side reads never disturb handles the emulated firmware may hold.
type file struct {
	fs.Inode

	fsys *fakefs.Filesystem
	path string
}

var _ = (fs.NodeOpener)((*file)(nil))
var _ = (fs.NodeReader)((*file)(nil))
var _ = (fs.NodeGetattrer)((*file)(nil))

func (f *file) Open(ctx context.Context, openFlags uint32) (fh fs.FileHandle, fuseFlags uint32, errno syscall.Errno) {
	return nil, fuse.FOPEN_DIRECT_IO, 0
}

func (f *file) Read(ctx context.Context, fh fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	h, err := f.fsys.Open(f.path, fakefs.ModeRead)
	if err != nil {
		return nil, syscall.EIO
	}
	defer h.Close()

	if err := h.Seek(off); err != nil {
		return nil, syscall.EINVAL
	}
	n, err := h.Read(dest)
	if err != nil {
		return nil, syscall.EIO
	}
	return fuse.ReadResultData(dest[:n]), 0
}

func (f *file) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	info, err := f.fsys.Stat(f.path)
	if err != nil {
		return syscall.ENOENT
	}
	out.Size = uint64(info.Size)
	return 0
}
