// Package index renders a `tree`-style listing of an output root.
package index

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

// Name is the file the index is written to.
const Name = "index.md"

type counts struct {
	dirs  int
	files int
}

// Tree renders the directory tree of fsys below its root, labelled rootName.
// Entries whose path relative to the root is listed in skip are left out.
func Tree(fsys fs.FS, rootName string, skip ...string) (string, error) {
	var (
		sb strings.Builder
		c  counts
	)

	sb.WriteString(rootName)
	sb.WriteByte('\n')

	if err := walk(fsys, ".", "", skip, &sb, &c); err != nil {
		return "", err
	}

	fmt.Fprintf(&sb, "\n%s, %s", plural(c.dirs, "directory", "directories"), plural(c.files, "file", "files"))

	return sb.String(), nil
}

func walk(fsys fs.FS, dir, prefix string, skip []string, sb *strings.Builder, c *counts) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}

	entries = slices.DeleteFunc(entries, func(e fs.DirEntry) bool {
		return slices.Contains(skip, path.Join(dir, e.Name()))
	})

	for i, entry := range entries {
		marker, indent := "├── ", "│   "
		if i == len(entries)-1 {
			marker, indent = "└── ", "    "
		}

		sb.WriteString(prefix + marker + entry.Name() + "\n")

		if !entry.IsDir() {
			c.files++

			continue
		}

		c.dirs++

		if err := walk(fsys, path.Join(dir, entry.Name()), prefix+indent, skip, sb, c); err != nil {
			return err
		}
	}

	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}

	return fmt.Sprintf("%d %s", n, many)
}

// Document wraps a rendered tree into the index markdown document.
func Document(tree string) string {
	return "# Output Index\n```\n" + strings.TrimRight(tree, "\n") + "\n```\n"
}
