// Package extract materializes the fenced code blocks of a markdown document as
// files and rewrites the document to link to them.
package extract

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/ezerfernandes/mdsplit/internal/resolve"
	"github.com/gobwas/glob"
	"go.uber.org/zap"
)

// Policy decides what happens to blocks without an inferable destination.
type Policy string

const (
	// PolicyInline leaves such blocks in the rewritten document untouched.
	PolicyInline Policy = "inline"
	// PolicyBucket also writes them to __unknown__/unknown_N.md.
	PolicyBucket Policy = "bucket"
)

// ErrUnknownPolicy is returned by [ParsePolicy] for unrecognized names.
var ErrUnknownPolicy = errors.New("unknown policy")

// ParsePolicy converts a policy name. An empty name selects [PolicyInline].
func ParsePolicy(name string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(name))) {
	case "", PolicyInline:
		return PolicyInline, nil
	case PolicyBucket:
		return PolicyBucket, nil
	}

	return "", fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownPolicy, name, PolicyInline, PolicyBucket)
}

// Record ties a created file to the block it came from.
type Record struct {
	Path    string // OS path
	Rel     string // slash separated, relative to the output root
	Unknown bool   // written to the unknown bucket
	Block   *Block
}

// Stats counts what happened to the blocks of one document.
type Stats struct {
	Blocks   int
	Created  int
	Unknown  int
	Inline   int
	Excluded int
	Warned   int
	Failed   int
}

// Result is the outcome of [Extractor.Extract].
type Result struct {
	Document string
	Records  []Record
	Stats    Stats
}

// Options configures an [Extractor].
type Options struct {
	Policy  Policy
	Exclude []string // globs matched against destination paths
	Logger  *zap.Logger
}

// Extractor writes blocks through a [resolve.Resolver].
type Extractor struct {
	resolver *resolve.Resolver
	policy   Policy
	exclude  []glob.Glob
	log      *zap.Logger
}

// New returns an Extractor. It fails when an exclude pattern does not compile.
func New(resolver *resolve.Resolver, opts Options) (*Extractor, error) {
	policy, err := ParsePolicy(string(opts.Policy))
	if err != nil {
		return nil, err
	}

	e := &Extractor{resolver: resolver, policy: policy, log: opts.Logger}
	if e.log == nil {
		e.log = zap.NewNop()
	}

	for _, pattern := range opts.Exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}

		e.exclude = append(e.exclude, g)
	}

	return e, nil
}

// Extract scans text, writes one file per block with a destination and
// returns the rewritten document. Blocks that cannot be written are logged and
// left inline; the run goes on.
func (e *Extractor) Extract(text string) *Result {
	res := &Result{}

	var doc strings.Builder

	for _, part := range Scan(text) {
		if part.Block == nil {
			doc.WriteString(part.Line)
			doc.WriteByte('\n')

			continue
		}

		e.process(part.Block, &doc, res)
	}

	res.Document = strings.TrimRightFunc(doc.String(), unicode.IsSpace)

	return res
}

func (e *Extractor) process(b *Block, doc *strings.Builder, res *Result) {
	res.Stats.Blocks++

	if b.Warned {
		res.Stats.Warned++
		e.log.Warn("block looks appended to the previous one", zap.Int("line", b.StartLine))
	}

	switch {
	case len(b.Path) == 0:
		e.unresolved(b, res)
	case e.excluded(b.Path):
		res.Stats.Excluded++
		e.log.Info("skipped excluded block", zap.String("path", b.Path), zap.Int("line", b.StartLine))
	default:
		if rec, ok := e.create(b, res); ok {
			doc.WriteString(link(rec.Rel))
			doc.WriteString("\n\n")

			return
		}
	}

	res.Stats.Inline++

	doc.WriteString(b.Fenced())
	doc.WriteByte('\n')
}

func (e *Extractor) create(b *Block, res *Result) (Record, bool) {
	name, err := e.resolver.Create(b.Path, []byte(b.Content()))
	if err != nil {
		res.Stats.Failed++
		e.log.Warn("failed to write block", zap.Int("line", b.StartLine), zap.Error(err))

		return Record{}, false
	}

	rec := Record{Path: e.resolver.Path(name), Rel: name, Block: b}
	res.Records = append(res.Records, rec)
	res.Stats.Created++

	e.log.Info("created file", zap.String("path", rec.Path))

	return rec, true
}

func (e *Extractor) unresolved(b *Block, res *Result) {
	if e.policy != PolicyBucket {
		return
	}

	name, err := e.resolver.CreateUnknown([]byte(b.Content()))
	if err != nil {
		res.Stats.Failed++
		e.log.Warn("failed to write unknown block", zap.Int("line", b.StartLine), zap.Error(err))

		return
	}

	rec := Record{Path: e.resolver.Path(name), Rel: name, Unknown: true, Block: b}
	res.Records = append(res.Records, rec)
	res.Stats.Unknown++

	e.log.Info("created file", zap.String("path", rec.Path), zap.Bool("unknown", true))
}

func (e *Extractor) excluded(rel string) bool {
	for _, g := range e.exclude {
		if g.Match(rel) {
			return true
		}
	}

	return false
}

func link(rel string) string {
	target := rel
	if strings.ContainsAny(target, " ()") {
		target = "<" + target + ">"
	}

	return fmt.Sprintf("[%s](%s)", path.Base(rel), target)
}
