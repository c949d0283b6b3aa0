package vfs

import (
	"iter"
	"strings"

	"github.com/tidwall/btree"
)

// PathIndex is a path-sorted view where the last file seen for a path wins.
// The tree itself never deduplicates; build a PathIndex when override
// semantics are wanted.
type PathIndex struct {
	files *btree.Map[string, *File]
}

// MergeByPath indexes files by path, later files replacing earlier ones.
func MergeByPath(files iter.Seq[*File]) *PathIndex {
	idx := &PathIndex{files: btree.NewMap[string, *File](0)}
	for f := range files {
		idx.files.Set(f.Path, f)
	}
	return idx
}

// Get returns the winning file for path.
func (p *PathIndex) Get(path string) (*File, bool) {
	return p.files.Get(path)
}

// Len returns the number of distinct paths.
func (p *PathIndex) Len() int {
	return p.files.Len()
}

// Files returns the winning files sorted by path.
func (p *PathIndex) Files() []*File {
	result := make([]*File, 0, p.files.Len())
	p.files.Scan(func(_ string, f *File) bool {
		result = append(result, f)
		return true
	})
	return result
}

// Under returns the winning files whose path starts with prefix, sorted.
func (p *PathIndex) Under(prefix string) []*File {
	var result []*File
	p.files.Ascend(prefix, func(path string, f *File) bool {
		if !strings.HasPrefix(path, prefix) {
			return false
		}
		result = append(result, f)
		return true
	})
	return result
}
