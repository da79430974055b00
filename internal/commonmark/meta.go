package commonmark

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/shlex"
)

// MetaFile is the info-string key naming a block's destination, as in
// ```go file=cmd/main.go
const MetaFile = "file"

// Meta holds the key-value pairs that follow the language in an info string.
type Meta map[string]interface{}

// Get returns the value stored under name, formatted as a string.
// Missing keys and a nil Meta yield "".
func (m Meta) Get(name string) string {
	switch v := m[name].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

var (
	reInfo    = regexp.MustCompile(`^\s*([\w+#.-]+)?\s*(.*?)\s*$`)
	reObject  = regexp.MustCompile(`^{\s*["}]`)
	reBracket = regexp.MustCompile(`^{(.*)}$`)
)

// ParseInfo splits a fence info string into its language and metadata.
// Metadata is either `key=value` words, optionally wrapped in braces, or a
// JSON object. On error the language is still returned.
func ParseInfo(info string) (string, Meta, error) {
	m := reInfo.FindStringSubmatch(info)
	if m == nil {
		return "", Meta{}, nil
	}

	lang, rest := m[1], m[2]

	// ```file=x carries metadata only.
	if strings.HasPrefix(rest, "=") {
		lang, rest = "", strings.TrimSpace(info)
	}

	var (
		meta Meta
		err  error
	)

	switch {
	case len(rest) == 0:
		meta = Meta{}
	case reObject.MatchString(rest):
		err = json.Unmarshal([]byte(rest), &meta)
	default:
		meta, err = parseWords(rest)
	}

	if err != nil {
		return lang, nil, fmt.Errorf("parse info %q: %w", info, err)
	}

	return lang, meta, nil
}

func parseWords(rest string) (Meta, error) {
	if sub := reBracket.FindStringSubmatch(rest); sub != nil {
		rest = sub[1]
	}

	words, err := shlex.Split(rest)
	if err != nil {
		return nil, err
	}

	meta := make(Meta, len(words))

	for _, word := range words {
		if key, value, ok := strings.Cut(word, "="); ok && len(key) != 0 {
			meta[key] = value
		}
	}

	return meta, nil
}
