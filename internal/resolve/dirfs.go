package resolve

import (
	"io/fs"
	"os"
	"path/filepath"
)

// DirFS is an [FS] rooted at an OS directory.
type DirFS string

func (d DirFS) path(name string) string {
	return filepath.Join(string(d), filepath.FromSlash(name))
}

// Open implements fs.FS.
func (d DirFS) Open(name string) (fs.File, error) {
	return os.DirFS(string(d)).Open(name)
}

// Stat implements fs.StatFS.
func (d DirFS) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}

	return os.Stat(d.path(name))
}

func (d DirFS) MkdirAll(name string, perm fs.FileMode) error {
	return os.MkdirAll(d.path(name), perm)
}

func (d DirFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(d.path(name), data, perm)
}
