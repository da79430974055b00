// Package resolve turns relative destination paths into collision-free files
// below an output root.
package resolve

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

const (
	fileMode fs.FileMode = 0o644
	dirMode  fs.FileMode = 0o755
)

// UnknownFolder receives blocks without an inferable destination when the
// bucket policy is active.
const UnknownFolder = "__unknown__"

// FS is the filesystem the resolver writes into. Names are slash separated and
// relative to the output root. [DirFS] and memoryfs.FS both satisfy it.
type FS interface {
	fs.StatFS
	MkdirAll(name string, perm fs.FileMode) error
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

// NextAvailable returns name if nothing exists there, otherwise the first
// stem_N.ext (N >= 1) that is free. Names listed in reserved count as taken.
// The check is not atomic.
func NextAvailable(fsys fs.StatFS, name string, reserved ...string) (string, error) {
	taken, err := exists(fsys, name, reserved)
	if err != nil || !taken {
		return name, err
	}

	stem, ext := splitExt(name)

	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)

		taken, err := exists(fsys, candidate, reserved)
		if err != nil {
			return "", err
		}

		if !taken {
			return candidate, nil
		}
	}
}

// NextUnknown returns the first free __unknown__/unknown_N.md name (N >= 1).
func NextUnknown(fsys fs.StatFS) (string, error) {
	for n := 1; ; n++ {
		candidate := path.Join(UnknownFolder, fmt.Sprintf("unknown_%d.md", n))

		taken, err := exists(fsys, candidate, nil)
		if err != nil {
			return "", err
		}

		if !taken {
			return candidate, nil
		}
	}
}

func exists(fsys fs.StatFS, name string, reserved []string) (bool, error) {
	if slices.Contains(reserved, name) {
		return true, nil
	}

	_, err := fsys.Stat(name)
	if err == nil {
		return true, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	return false, err
}

func splitExt(name string) (string, string) {
	ext := path.Ext(name)
	if ext == path.Base(name) {
		return name, ""
	}

	return strings.TrimSuffix(name, ext), ext
}

// Resolver creates files below an output root without overwriting anything
// already there.
type Resolver struct {
	fsys     FS
	root     string
	reserved []string
}

// New returns a Resolver writing into fsys. root is the OS path fsys is rooted
// at and is only used to report absolute paths; reserved names are never
// handed out.
func New(fsys FS, root string, reserved ...string) *Resolver {
	return &Resolver{fsys: fsys, root: root, reserved: reserved}
}

// Path returns the OS path of a name relative to the output root.
func (r *Resolver) Path(rel string) string {
	return filepath.Join(r.root, filepath.FromSlash(rel))
}

// Resolve picks a collision-free name for rel and creates its parent
// directories.
func (r *Resolver) Resolve(rel string) (string, error) {
	if dir := path.Dir(rel); dir != "." {
		if err := r.fsys.MkdirAll(dir, dirMode); err != nil {
			return "", fmt.Errorf("create %s: %w", dir, err)
		}
	}

	return NextAvailable(r.fsys, rel, r.reserved...)
}

// Create resolves rel and writes data there. It returns the name actually used.
func (r *Resolver) Create(rel string, data []byte) (string, error) {
	name, err := r.Resolve(rel)
	if err != nil {
		return "", err
	}

	return name, r.write(name, data)
}

// CreateUnknown writes data to the next free name in the unknown bucket.
func (r *Resolver) CreateUnknown(data []byte) (string, error) {
	if err := r.fsys.MkdirAll(UnknownFolder, dirMode); err != nil {
		return "", fmt.Errorf("create %s: %w", UnknownFolder, err)
	}

	name, err := NextUnknown(r.fsys)
	if err != nil {
		return "", err
	}

	return name, r.write(name, data)
}

func (r *Resolver) write(name string, data []byte) error {
	if err := r.fsys.WriteFile(name, data, fileMode); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	return nil
}
