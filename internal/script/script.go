// Package script writes and runs the shell script that undoes a run.
package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Name is the file the deletion script is written to.
const Name = "delete_files.sh"

// Render returns a bash script with one forced remove per path.
func Render(paths []string) (string, error) {
	var sb strings.Builder

	sb.WriteString("#!/bin/bash\n\n")

	for _, path := range paths {
		quoted, err := syntax.Quote(path, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("quote %q: %w", path, err)
		}

		fmt.Fprintf(&sb, "rm -rf %s\n", quoted)
	}

	return sb.String(), nil
}

// Run executes the script at path in-process with dir as working directory.
// It returns the script's exit status; err is only set when the script could
// not be parsed or started.
func Run(ctx context.Context, path, dir string, stdout, stderr io.Writer) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return -1, err
	}
	defer f.Close()

	file, err := syntax.NewParser().Parse(f, path)
	if err != nil {
		return -1, err
	}

	runner, err := interp.New(interp.Dir(dir), interp.StdIO(strings.NewReader(""), stdout, stderr))
	if err != nil {
		return -1, err
	}

	err = runner.Run(ctx, file)
	if err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return int(status), nil
		}

		return -1, err
	}

	return 0, nil
}
