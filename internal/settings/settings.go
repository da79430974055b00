// Package settings reads the key=value settings file.
package settings

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/google/shlex"
	"go.uber.org/zap"
)

// Recognized keys.
const (
	KeyOutputDir     = "OUTPUT_DIR"
	KeyUnknownPolicy = "UNKNOWN_POLICY"
	KeyExclude       = "EXCLUDE"
	KeyLogFile       = "LOG_FILE"
)

// Settings maps keys to values.
type Settings map[string]string

// Get returns the value for key or fallback when it is unset or empty.
func (s Settings) Get(key, fallback string) string {
	if v := s[key]; len(v) != 0 {
		return v
	}

	return fallback
}

// List splits a comma separated value, dropping empty items.
func (s Settings) List(key string) []string {
	var list []string

	for _, item := range strings.Split(s[key], ",") {
		if item = strings.TrimSpace(item); len(item) != 0 {
			list = append(list, item)
		}
	}

	return list
}

// Load reads the settings file at path. A missing file yields empty settings.
func Load(path string, log *zap.Logger) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Settings{}, nil
		}

		return nil, err
	}
	defer f.Close()

	return Parse(f, log)
}

// Parse reads key=value lines. Blank lines and lines starting with # are
// ignored; malformed lines are logged and skipped.
func Parse(r io.Reader, log *zap.Logger) (Settings, error) {
	if log == nil {
		log = zap.NewNop()
	}

	s := Settings{}
	scanner := bufio.NewScanner(r)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))

		if !ok || len(key) == 0 {
			log.Warn("skipping malformed settings line", zap.Int("line", lineNo))

			continue
		}

		s[key] = unquote(strings.TrimSpace(value))
	}

	return s, scanner.Err()
}

func unquote(value string) string {
	if len(value) == 0 || !strings.ContainsAny(value[:1], `"'`) {
		return value
	}

	words, err := shlex.Split(value)
	if err != nil || len(words) != 1 {
		return value
	}

	return words[0]
}
