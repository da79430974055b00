// Package archive snapshots an output root before it is written again.
package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ezerfernandes/mdsplit/internal/resolve"
	"github.com/klauspost/compress/zip"
)

const layout = "20060102_150405"

// Backup zips the contents of dir into a timestamped archive next to it and
// returns the archive path. Nothing is written, and the path is empty, when dir
// does not exist or holds no entries.
func Backup(dir string, now time.Time) (string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && len(entries) == 0) {
		return "", nil
	}

	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	parent := filepath.Dir(abs)

	name, err := resolve.NextAvailable(resolve.DirFS(parent), now.Format(layout)+".zip")
	if err != nil {
		return "", err
	}

	target := filepath.Join(parent, name)

	if err := write(abs, target); err != nil {
		os.Remove(target)

		return "", fmt.Errorf("backup %s: %w", dir, err)
	}

	return target, nil
}

func write(dir, target string) error {
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == dir {
			return err
		}

		return add(zw, dir, path, d)
	})
	if err != nil {
		zw.Close()

		return err
	}

	if err := zw.Close(); err != nil {
		return err
	}

	return f.Close()
}

func add(zw *zip.Writer, dir, path string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return err
	}

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}

	hdr.Name = filepath.ToSlash(rel)

	if d.IsDir() {
		hdr.Name += "/"

		_, err = zw.CreateHeader(hdr)

		return err
	}

	if !info.Mode().IsRegular() {
		return nil
	}

	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	_, err = io.Copy(w, src)

	return err
}

// Clear removes everything below dir, keeping dir itself.
func Clear(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return err
	}

	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}
