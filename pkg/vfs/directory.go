package vfs

import (
	"iter"
	"strings"

	"github.com/Faultbox/pakview/pkg/encoding"
)

// Directory is a node of the virtual tree. Subdirectories and files keep
// insertion order.
type Directory struct {
	Name  string
	Files []*File

	subdirs map[string]*Directory
	order   []*Directory
}

// NewRoot creates an empty, unnamed root directory.
func NewRoot() *Directory {
	return newDirectory("")
}

func newDirectory(name string) *Directory {
	return &Directory{
		Name:    name,
		subdirs: make(map[string]*Directory),
	}
}

// Add inserts f under its path, creating intermediate directories.
func (d *Directory) Add(f *File) {
	segments := encoding.SplitPath(f.Path)
	dir := d
	if len(segments) > 1 {
		for _, name := range segments[:len(segments)-1] {
			dir = dir.child(name)
		}
	}
	dir.Files = append(dir.Files, f)
}

// AppendFile adds f directly to this directory, ignoring its path.
func (d *Directory) AppendFile(f *File) {
	d.Files = append(d.Files, f)
}

func (d *Directory) child(name string) *Directory {
	if sub, ok := d.subdirs[name]; ok {
		return sub
	}
	sub := newDirectory(name)
	d.subdirs[name] = sub
	d.order = append(d.order, sub)
	return sub
}

// Subdirectory returns the named direct child.
func (d *Directory) Subdirectory(name string) (*Directory, bool) {
	sub, ok := d.subdirs[name]
	return sub, ok
}

// Subdirectories returns direct children in insertion order.
func (d *Directory) Subdirectories() []*Directory {
	return d.order
}

// GetDirectory resolves a relative path. The empty path resolves to d;
// nil is returned when any segment is missing.
func (d *Directory) GetDirectory(path string) *Directory {
	dir := d
	for _, name := range encoding.SplitPath(path) {
		sub, ok := dir.subdirs[name]
		if !ok {
			return nil
		}
		dir = sub
	}
	return dir
}

// Find yields files whose name contains mask: this directory's files
// first, then each subdirectory depth-first. Every call starts a fresh
// traversal.
func (d *Directory) Find(mask string) iter.Seq[*File] {
	return func(yield func(*File) bool) {
		d.find(mask, yield)
	}
}

func (d *Directory) find(mask string, yield func(*File) bool) bool {
	for _, f := range d.Files {
		if strings.Contains(f.Name, mask) && !yield(f) {
			return false
		}
	}
	for _, sub := range d.order {
		if !sub.find(mask, yield) {
			return false
		}
	}
	return true
}

// All yields every file in the subtree in Find order.
func (d *Directory) All() iter.Seq[*File] {
	return d.Find("")
}

// FileCount returns the number of files in the subtree.
func (d *Directory) FileCount() int {
	n := len(d.Files)
	for _, sub := range d.order {
		n += sub.FileCount()
	}
	return n
}

// Lookup returns every file stored at path, in insertion order. Files
// merged into d by AppendFile match on their full path.
func (d *Directory) Lookup(path string) []*File {
	segments := encoding.SplitPath(path)
	if len(segments) == 0 {
		return nil
	}
	base := segments[len(segments)-1]

	var matches []*File
	if len(segments) > 1 {
		for _, f := range d.Files {
			if f.Path == strings.Join(segments, "/") {
				matches = append(matches, f)
			}
		}
	}

	dir := d.GetDirectory(strings.Join(segments[:len(segments)-1], "/"))
	if dir == nil {
		return matches
	}
	for _, f := range dir.Files {
		if f.Name == base {
			matches = append(matches, f)
		}
	}
	return matches
}
