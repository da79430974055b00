// Package header recognizes destination header comments (`# path`, `// path`,
// `<!-- path -->`) at the top of fenced code blocks.
package header

import (
	"path"
	"regexp"
	"strings"
)

const (
	reMarker  = `^(?:#+|/{2,}|<!--)`
	reClosing = `[[:blank:]]*(?:-->)?[[:blank:]]*$`
)

var (
	reHeader  = regexp.MustCompile(reMarker + `(.*?)` + reClosing)
	reInvalid = regexp.MustCompile(`[<>"|*?]`)
)

// Warning is the line inserted ahead of a block that looks appended to the
// previous one.
const Warning = "# WARNING: CODE BLOCKS APPENDED"

// IsComment reports whether line starts with one of the header comment markers.
// It does not check that the remainder is a usable path.
func IsComment(line string) bool {
	return strings.HasPrefix(line, "#") ||
		strings.HasPrefix(line, "//") ||
		strings.HasPrefix(line, "<!--")
}

// Parse extracts a relative, slash separated path from a header line.
// The bool return is false when line is not a header or names no usable path.
func Parse(line string) (string, bool) {
	if strings.HasPrefix(line, "#!") {
		return "", false
	}

	m := reHeader.FindStringSubmatch(strings.TrimRight(line, "\r"))
	if m == nil {
		return "", false
	}

	rel := strings.Trim(m[1], "/ \t")
	if len(rel) == 0 || reInvalid.MatchString(rel) {
		return "", false
	}

	rel = path.Clean(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}

	return rel, true
}

// IsMarkdown reports whether rel names a markdown document.
func IsMarkdown(rel string) bool {
	switch strings.ToLower(path.Ext(rel)) {
	case ".md", ".markdown":
		return true
	}

	return false
}
