package commonmark

// Fence is a fenced code block as CommonMark sees it.
type Fence struct {
	Lang      string
	Meta      Meta
	// StartLine is the opening fence line, EndLine the closing one (1-based).
	StartLine int
	EndLine   int
}

type Fences []*Fence
