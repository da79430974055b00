// Package runner performs one complete extraction run against an output root.
package runner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ezerfernandes/mdsplit/internal/archive"
	"github.com/ezerfernandes/mdsplit/internal/extract"
	"github.com/ezerfernandes/mdsplit/internal/index"
	"github.com/ezerfernandes/mdsplit/internal/resolve"
	"github.com/ezerfernandes/mdsplit/internal/script"
	"go.uber.org/zap"
)

// DocumentName is the rewritten copy of the input document.
const DocumentName = "output.md"

// ErrInputInOutput is returned when cleaning the output root would delete the
// input document.
var ErrInputInOutput = errors.New("input document is inside the output folder")

// Config describes one run.
type Config struct {
	Input   string
	Output  string
	Policy  extract.Policy
	Exclude []string
	Rewrite bool // write output.md
	Backup  bool // zip a non-empty output root first
	Clean   bool // empty the output root after the backup

	// Now defaults to time.Now.
	Now func() time.Time
}

// Rerun returns the config for running again into a root this process has
// already backed up and filled: the root is emptied instead of archived, so
// files keep their names.
func (c Config) Rerun() Config {
	c.Backup, c.Clean = false, true

	return c
}

// CheckClean fails with [ErrInputInOutput] when emptying the output root would
// remove the input document.
func (c Config) CheckClean() error {
	input, err := filepath.Abs(c.Input)
	if err != nil {
		return err
	}

	root, err := filepath.Abs(c.Output)
	if err != nil {
		return err
	}

	if rel, err := filepath.Rel(root, input); err == nil && filepath.IsLocal(rel) {
		return fmt.Errorf("clean %s: %w", root, ErrInputInOutput)
	}

	return nil
}

// Result lists what a run produced. Paths are empty for skipped artifacts.
type Result struct {
	*extract.Result

	Root    string
	Backup  string
	Rewrite string
	Index   string
	Script  string
}

// Run reads the input document and materializes its blocks below the output
// root. A missing input aborts before anything is written.
func Run(cfg Config, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	text, err := os.ReadFile(cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	root, err := filepath.Abs(cfg.Output)
	if err != nil {
		return nil, err
	}

	if cfg.Clean {
		if err := cfg.CheckClean(); err != nil {
			return nil, err
		}
	}

	log.Info("input path", zap.String("path", cfg.Input))
	log.Info("output path", zap.String("path", root))

	res := &Result{Root: root}

	if cfg.Backup {
		if res.Backup, err = archive.Backup(root, cfg.Now()); err != nil {
			return nil, err
		}

		if len(res.Backup) != 0 {
			log.Info("output folder zipped", zap.String("path", res.Backup))
		}
	}

	if cfg.Clean {
		if err := archive.Clear(root); err != nil {
			return nil, fmt.Errorf("clean output: %w", err)
		}
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}

	resolver := resolve.New(resolve.DirFS(root), root, DocumentName, index.Name, script.Name)

	ex, err := extract.New(resolver, extract.Options{Policy: cfg.Policy, Exclude: cfg.Exclude, Logger: log})
	if err != nil {
		return nil, err
	}

	res.Result = ex.Extract(string(text))

	log.Info("document parsed",
		zap.Int("blocks", res.Stats.Blocks),
		zap.Int("created", res.Stats.Created),
		zap.Int("unknown", res.Stats.Unknown),
		zap.Int("inline", res.Stats.Inline))

	if cfg.Rewrite {
		res.Rewrite = filepath.Join(root, DocumentName)
		if err := os.WriteFile(res.Rewrite, []byte(res.Document+"\n"), 0o644); err != nil {
			return nil, err
		}

		log.Info("output markdown file created", zap.String("path", res.Rewrite))
	}

	if res.Script, err = writeScript(root, res.Records); err != nil {
		return nil, err
	}

	log.Info("bash script created", zap.String("path", res.Script))

	if res.Index, err = writeIndex(root, log); err != nil {
		return nil, err
	}

	log.Info("index file created", zap.String("path", res.Index))

	return res, nil
}

func writeScript(root string, records []extract.Record) (string, error) {
	paths := make([]string, len(records))
	for i, rec := range records {
		paths[i] = rec.Path
	}

	body, err := script.Render(paths)
	if err != nil {
		return "", err
	}

	path := filepath.Join(root, script.Name)

	return path, os.WriteFile(path, []byte(body), 0o755)
}

func writeIndex(root string, log *zap.Logger) (string, error) {
	name := filepath.Base(root)

	tree, err := index.Tree(os.DirFS(root), name, index.Name)
	if err != nil {
		log.Warn("could not list output folder", zap.Error(err))

		tree = name
	}

	path := filepath.Join(root, index.Name)

	return path, os.WriteFile(path, []byte(index.Document(tree)), 0o644)
}
