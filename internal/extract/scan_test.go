package extract_test

import (
	"testing"

	"github.com/ezerfernandes/mdsplit/internal/extract"
	"github.com/ezerfernandes/mdsplit/internal/header"
	"github.com/stretchr/testify/require"
)

func TestScanProseAndBlock(t *testing.T) {
	t.Parallel()

	parts := extract.Scan("Some text.\n```python\n# src/main.py\nprint(\"hi\")\n```\nMore text.")
	require.Len(t, parts, 3)

	require.Equal(t, "Some text.", parts[0].Line)
	require.Nil(t, parts[0].Block)
	require.Equal(t, "More text.", parts[2].Line)

	b := parts[1].Block
	require.NotNil(t, b)
	require.Equal(t, "python", b.Lang)
	require.Equal(t, "src/main.py", b.Path)
	require.Equal(t, 0, b.Header)
	require.Equal(t, []string{"# src/main.py", `print("hi")`}, b.Lines)
	require.Equal(t, "print(\"hi\")\n", b.Content())
	require.Equal(t, 2, b.StartLine)
	require.Equal(t, 5, b.EndLine)
	require.True(t, b.Terminated())
	require.False(t, b.Warned)
}

func TestScanHeaderAfterBlankLines(t *testing.T) {
	t.Parallel()

	blocks := extract.Blocks(extract.Scan("```\n\n// pkg/a.go\npackage a\n```"))
	require.Len(t, blocks, 1)
	require.Equal(t, "pkg/a.go", blocks[0].Path)
	require.Equal(t, 1, blocks[0].Header)
	require.Equal(t, "package a\n", blocks[0].Content())
}

func TestScanHeaderMustBeFirstContentLine(t *testing.T) {
	t.Parallel()

	blocks := extract.Blocks(extract.Scan("```python\nimport os\n# not/a/header.py\n```"))
	require.Len(t, blocks, 1)
	require.Empty(t, blocks[0].Path)
	require.Equal(t, -1, blocks[0].Header)
}

func TestScanNestedMarkdownFence(t *testing.T) {
	t.Parallel()

	doc := "```markdown\n" +
		"<!-- docs/guide.md -->\n" +
		"# Guide\n" +
		"```go\n" +
		"fmt.Println()\n" +
		"```\n" +
		"end\n" +
		"```\n" +
		"after"

	parts := extract.Scan(doc)
	require.Len(t, parts, 2)

	b := parts[0].Block
	require.Equal(t, "docs/guide.md", b.Path)
	require.Equal(t, "# Guide\n```go\nfmt.Println()\n```\nend\n", b.Content())
	require.Equal(t, 8, b.EndLine)
	require.Equal(t, "after", parts[1].Line)
}

func TestScanNestedBareFences(t *testing.T) {
	t.Parallel()

	doc := "```markdown\n" +
		"<!-- README.md -->\n" +
		"# Tool\n" +
		"```\n" +
		"npm install\n" +
		"```\n" +
		"Done.\n" +
		"```\n" +
		"after"

	parts := extract.Scan(doc)
	require.Len(t, parts, 2)
	require.Equal(t, "README.md", parts[0].Block.Path)
	require.Equal(t, "# Tool\n```\nnpm install\n```\nDone.\n", parts[0].Block.Content())
	require.Equal(t, 8, parts[0].Block.EndLine)
	require.Equal(t, "after", parts[1].Line)
}

func TestScanBareFenceFollowedByBlankCloses(t *testing.T) {
	t.Parallel()

	doc := "```markdown\n<!-- README.md -->\n# Tool\n```\n\nSee:\n```\nls\n```"

	blocks := extract.Blocks(extract.Scan(doc))
	require.Len(t, blocks, 2)
	require.Equal(t, "# Tool\n", blocks[0].Content())
	require.Equal(t, []string{"ls"}, blocks[1].Lines)
}

func TestScanBareFenceBeforeNextDestinationCloses(t *testing.T) {
	t.Parallel()

	doc := "```markdown\n<!-- README.md -->\n# Tool\n```\ntext\n```\n# b.py\nx\n```"

	parts := extract.Scan(doc)
	require.Len(t, parts, 3)
	require.Equal(t, "# Tool\n", parts[0].Block.Content())
	require.Equal(t, "text", parts[1].Line)
	require.Equal(t, "b.py", parts[2].Block.Path)
}

func TestScanMarkdownFromInfoString(t *testing.T) {
	t.Parallel()

	doc := "```md file=README.md\n```sh\nmake\n```\n```\ntail"

	parts := extract.Scan(doc)
	require.Len(t, parts, 2)
	require.Equal(t, "README.md", parts[0].Block.Path)
	require.Equal(t, "```sh\nmake\n```\n", parts[0].Block.Content())
	require.Equal(t, "tail", parts[1].Line)
}

func TestScanDocComment(t *testing.T) {
	t.Parallel()

	doc := "```python\n" +
		"# pkg/mod.py\n" +
		"def f():\n" +
		"    \"\"\"\n" +
		"# other/file.py\n" +
		"```\n" +
		"    \"\"\"\n" +
		"    return 1\n" +
		"```\n" +
		"after"

	parts := extract.Scan(doc)
	require.Len(t, parts, 2)

	b := parts[0].Block
	require.Equal(t, "pkg/mod.py", b.Path)
	require.Equal(t, "def f():\n    \"\"\"\n# other/file.py\n```\n    \"\"\"\n    return 1\n", b.Content())
	require.Equal(t, "after", parts[1].Line)
}

func TestScanDocCommentAsFirstLine(t *testing.T) {
	t.Parallel()

	blocks := extract.Blocks(extract.Scan("```python\n\"\"\"\n# looks/like/a/header.py\n\"\"\"\n```"))
	require.Len(t, blocks, 1)
	require.Empty(t, blocks[0].Path)
}

func TestScanOneLineDocString(t *testing.T) {
	t.Parallel()

	parts := extract.Scan("```python\n# a.py\n\"\"\"doc\"\"\"\n```\nafter")
	require.Len(t, parts, 2)
	require.Equal(t, "\"\"\"doc\"\"\"\n", parts[0].Block.Content())
	require.Equal(t, "after", parts[1].Line)
}

func TestScanTripleQuoteOutsideIsProse(t *testing.T) {
	t.Parallel()

	parts := extract.Scan("\"\"\"\n```\n# a.py\nx\n```")
	require.Len(t, parts, 2)
	require.Equal(t, `"""`, parts[0].Line)
	require.Equal(t, "a.py", parts[1].Block.Path)
}

func TestScanUnterminatedFence(t *testing.T) {
	t.Parallel()

	blocks := extract.Blocks(extract.Scan("intro\n```go\n// main.go\npackage main\n"))
	require.Len(t, blocks, 1)
	require.False(t, blocks[0].Terminated())
	require.Equal(t, "main.go", blocks[0].Path)
	require.Equal(t, "package main\n", blocks[0].Content())
	require.Equal(t, "```go\n// main.go\npackage main\n```\n", blocks[0].Fenced())
}

func TestScanTrimsOneTrailingBlank(t *testing.T) {
	t.Parallel()

	blocks := extract.Blocks(extract.Scan("```\n# a.txt\nx\n\n\n```"))
	require.Len(t, blocks, 1)
	require.Equal(t, []string{"# a.txt", "x", ""}, blocks[0].Lines)
}

func TestScanEmptyBlock(t *testing.T) {
	t.Parallel()

	blocks := extract.Blocks(extract.Scan("```\n```"))
	require.Len(t, blocks, 1)
	require.Empty(t, blocks[0].Lines)
	require.Equal(t, "", blocks[0].Content())
}

func TestScanWarnsOnAdjacentBlocks(t *testing.T) {
	t.Parallel()

	doc := "```\n# a.py\nprint(1)\n```\n\n```\nprint(2)\n```"

	blocks := extract.Blocks(extract.Scan(doc))
	require.Len(t, blocks, 2)
	require.False(t, blocks[0].Warned)
	require.True(t, blocks[1].Warned)
	require.Equal(t, []string{"print(1)", header.Warning, "print(2)"}, blocks[1].Lines)
	require.Empty(t, blocks[1].Path)
}

func TestScanNoWarningWhenFirstLineIsComment(t *testing.T) {
	t.Parallel()

	tests := []string{
		"#include <stdio.h>",
		"#!/bin/bash",
		`<!-- "draft" -->`,
	}

	for _, first := range tests {
		doc := "```\n# a.py\nprint(1)\n```\n\n```\n" + first + "\nbody\n```"

		blocks := extract.Blocks(extract.Scan(doc))
		require.Len(t, blocks, 2, first)
		require.False(t, blocks[1].Warned, first)
		require.Equal(t, []string{first, "body"}, blocks[1].Lines, first)
	}
}

func TestScanNoWarningAfterProse(t *testing.T) {
	t.Parallel()

	doc := "```\n# a.py\nprint(1)\n```\nThen run:\n```\nprint(2)\n```"

	blocks := extract.Blocks(extract.Scan(doc))
	require.Len(t, blocks, 2)
	require.False(t, blocks[1].Warned)
	require.Equal(t, []string{"print(2)"}, blocks[1].Lines)
}

func TestScanNoWarningWithHeader(t *testing.T) {
	t.Parallel()

	blocks := extract.Blocks(extract.Scan("```\n# a.py\n1\n```\n```\n# b.py\n2\n```"))
	require.Len(t, blocks, 2)
	require.False(t, blocks[1].Warned)
	require.Equal(t, "b.py", blocks[1].Path)
}

func TestScanCRLF(t *testing.T) {
	t.Parallel()

	parts := extract.Scan("text\r\n```\r\n# a.py\r\nx = 1\r\n```\r\n")
	require.Equal(t, "text", parts[0].Line)
	require.Equal(t, "a.py", parts[1].Block.Path)
	require.Equal(t, "x = 1\n", parts[1].Block.Content())
}

func TestScanBrokenInfoString(t *testing.T) {
	t.Parallel()

	blocks := extract.Blocks(extract.Scan("```go file=\"broken\n// ok.go\nx\n```"))
	require.Len(t, blocks, 1)
	require.Equal(t, "ok.go", blocks[0].Path)
}
