package extract

import (
	"strings"

	"github.com/ezerfernandes/mdsplit/internal/commonmark"
	"github.com/ezerfernandes/mdsplit/internal/header"
)

const (
	fenceToken = "```"
	docToken   = `"""`
)

type state int

const (
	outside state = iota
	inFence
	inMarkdownFence
	inDocComment
)

// Block is a fenced code block as the line scanner saw it.
type Block struct {
	Open  string // opening fence line, info string included
	Close string // closing fence line, empty when the document ended first
	Lang  string
	Meta  commonmark.Meta

	// Lines holds the scanned content, header line and warning prefix included.
	Lines []string
	// Header is the index of the header line in Lines, or -1.
	Header int
	// Path is the destination relative to the output root, empty when none
	// could be inferred.
	Path string

	StartLine int
	EndLine   int
	Warned    bool
}

// Terminated reports whether the block had a closing fence.
func (b *Block) Terminated() bool {
	return len(b.Close) != 0
}

// Content returns the text to materialize: everything after the header line,
// or every line when there is no header.
func (b *Block) Content() string {
	lines := b.Lines
	if b.Header >= 0 {
		lines = lines[b.Header+1:]
	}

	if len(lines) == 0 {
		return ""
	}

	return strings.Join(lines, "\n") + "\n"
}

// Fenced renders the block back as a fenced code block.
func (b *Block) Fenced() string {
	var sb strings.Builder

	sb.WriteString(b.Open)
	sb.WriteByte('\n')

	for _, line := range b.Lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	if b.Terminated() {
		sb.WriteString(b.Close)
	} else {
		sb.WriteString(fenceToken)
	}

	sb.WriteByte('\n')

	return sb.String()
}

// Part is either one prose line or one block of a scanned document.
type Part struct {
	Line  string
	Block *Block
}

type scanner struct {
	state state
	depth int

	block     *Block
	seen      bool
	preceding string
	carry     string

	lines  []string
	lineNo int
	parts  []Part
}

// Scan splits a markdown document into prose lines and fenced blocks.
// It never fails: a fence left open at the end of the document is closed there.
func Scan(text string) []Part {
	s := &scanner{lines: strings.Split(text, "\n")}

	for i := range s.lines {
		s.lines[i] = strings.TrimSuffix(s.lines[i], "\r")
	}

	for _, line := range s.lines {
		s.lineNo++
		s.feed(line)
	}

	if s.state != outside {
		s.finish()
	}

	return s.parts
}

// Blocks returns only the blocks of a scanned document.
func Blocks(parts []Part) []*Block {
	var blocks []*Block

	for _, part := range parts {
		if part.Block != nil {
			blocks = append(blocks, part.Block)
		}
	}

	return blocks
}

func (s *scanner) feed(line string) {
	switch s.state {
	case outside:
		if isFence(line) {
			s.open(line)

			return
		}

		if len(strings.TrimSpace(line)) != 0 {
			s.carry = ""
		}

		s.parts = append(s.parts, Part{Line: line})

	case inFence:
		switch {
		case isFence(line):
			s.close(line)
		case togglesDoc(line):
			s.seen = true
			s.appendLine(line)
			s.state = inDocComment
		default:
			s.detectHeader(line)
			s.appendLine(line)
		}

	case inMarkdownFence:
		if !isFence(line) {
			s.detectHeader(line)
			s.appendLine(line)

			return
		}

		switch {
		case len(fenceInfo(line)) != 0:
			s.depth++
			s.appendLine(line)
		case s.depth > 0:
			s.depth--
			s.appendLine(line)
		case s.opensNested():
			s.depth++
			s.appendLine(line)
		default:
			s.close(line)
		}

	case inDocComment:
		s.appendLine(line)

		if togglesDoc(line) {
			s.state = inFence
		}
	}
}

func (s *scanner) open(line string) {
	lang, meta, err := commonmark.ParseInfo(fenceInfo(line))
	if err != nil {
		meta = commonmark.Meta{}
	}

	s.block = &Block{
		Open:      line,
		Lang:      lang,
		Meta:      meta,
		Header:    -1,
		StartLine: s.lineNo,
	}
	s.state = inFence
	s.depth = 0
	s.seen = false
	s.preceding = s.carry

	if file := meta.Get(commonmark.MetaFile); len(file) != 0 {
		if rel, ok := header.Parse("# " + file); ok {
			s.block.Path = rel
			if header.IsMarkdown(rel) {
				s.state = inMarkdownFence
			}
		}
	}
}

// detectHeader checks the first non-blank content line of a block.
func (s *scanner) detectHeader(line string) {
	if s.seen || len(strings.TrimSpace(line)) == 0 {
		return
	}

	s.seen = true

	rel, ok := header.Parse(line)
	if !ok {
		return
	}

	s.block.Header = len(s.block.Lines)
	s.block.Path = rel

	if header.IsMarkdown(rel) {
		s.state = inMarkdownFence
	}
}

func (s *scanner) appendLine(line string) {
	s.block.Lines = append(s.block.Lines, line)

	if len(strings.TrimSpace(line)) != 0 {
		s.carry = line
	}
}

func (s *scanner) close(line string) {
	s.block.Close = line
	s.block.EndLine = s.lineNo
	s.finish()
}

func (s *scanner) finish() {
	b := s.block

	if b.EndLine == 0 {
		b.EndLine = s.lineNo
	}

	if n := len(b.Lines); n > 0 && len(strings.TrimSpace(b.Lines[n-1])) == 0 {
		b.Lines = b.Lines[:n-1]
	}

	if len(b.Path) == 0 && len(s.preceding) != 0 && !header.IsComment(firstContent(b.Lines)) {
		b.Lines = append([]string{s.preceding, header.Warning}, b.Lines...)
		b.Warned = true
	}

	s.parts = append(s.parts, Part{Block: b})
	s.block = nil
	s.preceding = ""
	s.state = outside
}

// opensNested decides what a bare fence at depth 0 of a markdown block does.
// It opens a nested fence when content follows it directly and the fences
// ahead pair it with a closer and still leave one to close the block. The look
// ahead stops at the opening of the next block with a destination.
func (s *scanner) opensNested() bool {
	next := s.lineNo // index of the line after the current one
	if next >= len(s.lines) || isBlank(s.lines[next]) || isFence(s.lines[next]) {
		return false
	}

	bare, depth := 1, 0

	for i := next; i < len(s.lines); i++ {
		line := s.lines[i]
		if !isFence(line) {
			continue
		}

		if depth == 0 && s.opensDestination(i) {
			break
		}

		switch {
		case len(fenceInfo(line)) != 0:
			depth++
		case depth > 0:
			depth--
		default:
			bare++
		}
	}

	return bare >= 3 && bare%2 == 1
}

// opensDestination reports whether the fence at index i starts a block that
// names a file: a file= key, or a path-like header as its first content line.
func (s *scanner) opensDestination(i int) bool {
	if _, meta, err := commonmark.ParseInfo(fenceInfo(s.lines[i])); err == nil && len(meta.Get(commonmark.MetaFile)) != 0 {
		return true
	}

	for _, line := range s.lines[i+1:] {
		if isBlank(line) {
			continue
		}

		rel, ok := header.Parse(line)

		return ok && strings.ContainsAny(rel, "./")
	}

	return false
}

func firstContent(lines []string) string {
	for _, line := range lines {
		if !isBlank(line) {
			return line
		}
	}

	return ""
}

func isBlank(line string) bool {
	return len(strings.TrimSpace(line)) == 0
}

func isFence(line string) bool {
	return strings.HasPrefix(line, fenceToken)
}

func fenceInfo(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "`"))
}

// togglesDoc reports whether line opens or closes a triple-quote span.
// `"""one line"""` does neither.
func togglesDoc(line string) bool {
	return strings.Count(line, docToken)%2 == 1
}
