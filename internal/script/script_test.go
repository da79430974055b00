package script_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ezerfernandes/mdsplit/internal/script"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Parallel()

	got, err := script.Render([]string{"/out/a.py", "/out/with space.txt", "/out/it's.md"})
	require.NoError(t, err)

	want := "#!/bin/bash\n\n" +
		"rm -rf /out/a.py\n" +
		"rm -rf '/out/with space.txt'\n" +
		"rm -rf \"/out/it's.md\"\n"

	require.Equal(t, want, got)
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	got, err := script.Render(nil)
	require.NoError(t, err)
	require.Equal(t, "#!/bin/bash\n\n", got)
}

func TestRenderRejectsNul(t *testing.T) {
	t.Parallel()

	_, err := script.Render([]string{"a\x00b"})
	require.Error(t, err)
}

func TestRunRemovesFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := []string{filepath.Join(dir, "a.py"), filepath.Join(dir, "sub dir", "b.go")}

	for _, f := range files {
		require.NoError(t, os.MkdirAll(filepath.Dir(f), 0o755))
		require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))
	}

	body, err := script.Render(files)
	require.NoError(t, err)

	path := filepath.Join(dir, script.Name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))

	var stderr bytes.Buffer

	status, err := script.Run(context.Background(), path, dir, &bytes.Buffer{}, &stderr)
	require.NoError(t, err)
	require.Equal(t, 0, status, stderr.String())

	for _, f := range files {
		_, err := os.Stat(f)
		require.True(t, os.IsNotExist(err), f)
	}
}

func TestRunExitStatus(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "fail.sh")
	require.NoError(t, os.WriteFile(path, []byte("exit 3\n"), 0o644))

	status, err := script.Run(context.Background(), path, dir, &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, 3, status)
}

func TestRunMissingScript(t *testing.T) {
	t.Parallel()

	_, err := script.Run(context.Background(), filepath.Join(t.TempDir(), "nope.sh"), ".", &bytes.Buffer{}, &bytes.Buffer{})
	require.ErrorIs(t, err, os.ErrNotExist)
}
