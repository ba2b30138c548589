// Package fakefs implements the SimpleLight in-memory filesystem.
// This file contains the layout manifest: the YAML-loadable description of
// the tree a Mount seeds, and the firmware's default tree.
package fakefs

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/shawly/SimpleLight/pkg/common"
)

// LayoutEntry describes one file or directory to seed. Files may carry
// inline content, or only a size, in which case the file is sparse and reads
// as zeros - the default layout uses this for its multi-megabyte ROM samples.
type LayoutEntry struct {
	Path    string `yaml:"path"`
	Dir     bool   `yaml:"dir,omitempty"`
	Size    int64  `yaml:"size,omitempty"`
	Content string `yaml:"content,omitempty"`
}

// Layout is the set of entries a Mount seeds into the fresh tree
type Layout struct {
	Entries []LayoutEntry `yaml:"entries"`
}

// LoadLayout parses a YAML layout manifest
func LoadLayout(reader io.Reader) (*Layout, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadLayout, err)
	}
	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, common.FormatError(common.ErrFailedToParseLayout, err)
	}
	common.LogDebug(common.InfoLayoutLoaded, len(layout.Entries))
	return &layout, nil
}

// DefaultLayout reproduces the tree the firmware expects on a fresh card:
// a SYSTEM directory with the patch and plugin folders and the recent-ROMs
// file, plus sample ROMs at the root and under GAMES
func DefaultLayout() *Layout {
	return &Layout{Entries: []LayoutEntry{
		{Path: "/SYSTEM/PATCH", Dir: true},
		{Path: "/SYSTEM/PLUG", Dir: true},
		{Path: "/SYSTEM/RECENT.TXT"},
		{Path: "/ALTT.gba", Size: 8 * 1024 * 1024},
		{Path: "/Metroid.gba", Size: 16 * 1024 * 1024},
		{Path: "/Sample.gb", Size: 256 * 1024},
		{Path: "/Readme.txt", Size: 2048},
		{Path: "/GAMES/Pokemon.gba", Size: 32 * 1024 * 1024},
		{Path: "/GAMES/MarioKart.gba", Size: 16 * 1024 * 1024},
	}}
}

// applyLayout seeds the freshly reset tree from the manifest
func (f *Filesystem) applyLayout(layout *Layout) error {
	for _, entry := range layout.Entries {
		if entry.Path == "" {
			return fmt.Errorf("%w: layout entry with empty path", ErrInvalidParameter)
		}
		if entry.Dir {
			if _, err := f.ensureDir(entry.Path); err != nil {
				return fmt.Errorf("layout entry %q: %w", entry.Path, err)
			}
			continue
		}
		if err := f.seedFile(entry); err != nil {
			return fmt.Errorf("layout entry %q: %w", entry.Path, err)
		}
	}
	return nil
}

func (f *Filesystem) seedFile(entry LayoutEntry) error {
	parentPath, leaf := splitParent(entry.Path)
	if leaf == "" {
		return ErrInvalidParameter
	}
	parent, err := f.ensureDir(parentPath)
	if err != nil {
		return err
	}
	if findChild(parent, leaf) != nil {
		return ErrExists
	}
	n, err := f.allocNode(leaf, KindFile)
	if err != nil {
		return err
	}
	if entry.Content != "" {
		n.data = []byte(entry.Content)
		n.size = int64(len(n.data))
	} else {
		// sparse: size without backing data, reads yield zeros
		n.size = entry.Size
	}
	f.assignClusters(n)
	addChild(parent, n)
	return nil
}
