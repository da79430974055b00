package commonmark

// Collect parses a Markdown document and returns all fenced code blocks.
func Collect(source []byte) (Fences, error) {
	var fences Fences

	err := Walk(source, func(fence *Fence) error {
		fences = append(fences, fence)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return fences, nil
}
