// Package commonmark reads fenced code blocks the way a CommonMark renderer
// does. It is used to cross-check the line scanner, never to rewrite documents.
package commonmark

import (
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Walker is called for each fenced code block of a document, in document
// order. Returning an error stops the walk.
type Walker func(fence *Fence) error

// Walk parses a Markdown document and calls walker for every fenced code block.
func Walk(source []byte, walker Walker) error {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))
	lines := newLineIndex(source)

	return ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := node.(*ast.FencedCodeBlock)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}

		if err := walker(newFence(fcb, source, lines)); err != nil {
			return ast.WalkStop, err
		}

		return ast.WalkSkipChildren, nil
	})
}

func newFence(fcb *ast.FencedCodeBlock, source []byte, idx lineIndex) *Fence {
	fence := &Fence{Meta: Meta{}}

	if fcb.Info != nil {
		// A malformed info string still names the language.
		lang, meta, err := ParseInfo(string(fcb.Info.Text(source)))
		if err != nil {
			meta = Meta{}
		}

		fence.Lang, fence.Meta = lang, meta
	}

	segs := fcb.Lines()

	switch {
	case fcb.Info != nil:
		fence.StartLine = idx.line(fcb.Info.Segment.Start)
	case segs.Len() > 0:
		fence.StartLine = idx.line(segs.At(0).Start) - 1
	}

	switch {
	case segs.Len() > 0:
		// Stop is past the last content line's newline, so it lands on the
		// closing fence.
		fence.EndLine = idx.line(segs.At(segs.Len() - 1).Stop)
	case fence.StartLine > 0:
		fence.EndLine = fence.StartLine + 1
	}

	return fence
}

// lineIndex holds the offset of every newline in a source.
type lineIndex []int

func newLineIndex(source []byte) lineIndex {
	var idx lineIndex

	for off, b := range source {
		if b == '\n' {
			idx = append(idx, off)
		}
	}

	return idx
}

// line returns the 1-based line holding offset. An offset just past a newline
// belongs to the next line.
func (idx lineIndex) line(offset int) int {
	return sort.SearchInts(idx, offset) + 1
}
