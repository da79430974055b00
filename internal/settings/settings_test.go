package settings_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ezerfernandes/mdsplit/internal/settings"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParse(t *testing.T) {
	t.Parallel()

	input := `
# comment
OUTPUT_DIR=out
UNKNOWN_POLICY = bucket
export LOG_FILE="/var/log/my split.log"
EXCLUDE='*.lock, vendor/**'
EMPTY=
EQUALS=a=b
`

	s, err := settings.Parse(strings.NewReader(input), nil)
	require.NoError(t, err)

	require.Equal(t, settings.Settings{
		"OUTPUT_DIR":     "out",
		"UNKNOWN_POLICY": "bucket",
		"LOG_FILE":       "/var/log/my split.log",
		"EXCLUDE":        "*.lock, vendor/**",
		"EMPTY":          "",
		"EQUALS":         "a=b",
	}, s)

	require.Equal(t, []string{"*.lock", "vendor/**"}, s.List(settings.KeyExclude))
	require.Equal(t, "fallback", s.Get("EMPTY", "fallback"))
	require.Equal(t, "out", s.Get(settings.KeyOutputDir, "fallback"))
}

func TestParseSkipsMalformed(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)

	s, err := settings.Parse(strings.NewReader("GOOD=1\nno equals here\n=nokey\nALSO=2\n"), zap.New(core))
	require.NoError(t, err)
	require.Equal(t, settings.Settings{"GOOD": "1", "ALSO": "2"}, s)

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, int64(2), entries[0].ContextMap()["line"])
	require.Equal(t, int64(3), entries[1].ContextMap()["line"])
}

func TestParseUnbalancedQuoteKeptRaw(t *testing.T) {
	t.Parallel()

	s, err := settings.Parse(strings.NewReader(`A="open`), nil)
	require.NoError(t, err)
	require.Equal(t, `"open`, s["A"])
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	s, err := settings.Load(filepath.Join(dir, "missing.env"), nil)
	require.NoError(t, err)
	require.Empty(t, s)

	path := filepath.Join(dir, "settings.env")
	require.NoError(t, os.WriteFile(path, []byte("OUTPUT_DIR=build\n"), 0o644))

	s, err = settings.Load(path, nil)
	require.NoError(t, err)
	require.Equal(t, "build", s[settings.KeyOutputDir])
}
