package bundle

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/htmlweld/htmlweld/internal/component"
	"github.com/htmlweld/htmlweld/internal/errors"
	"github.com/htmlweld/htmlweld/internal/logging"
)

// Orchestrator runs full rebuilds: re-list the component directory, extract
// and generate every component into a fresh Aggregate, then hand it to the
// Writer. It owns the aggregate for the duration of a rebuild; nothing holds
// state between rebuilds, so additions and deletions are picked up simply by
// listing again.
type Orchestrator struct {
	dir    string
	ext    string
	writer *Writer
	logger logging.Logger

	// Rebuilds triggered while one is running wait here, so overlapping
	// file-change events serialize deterministically instead of racing on
	// the artifact writes.
	mu sync.Mutex
}

// NewOrchestrator creates an orchestrator over the component directory.
// ext is the component file extension including the dot.
func NewOrchestrator(dir, ext string, writer *Writer, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		dir:    dir,
		ext:    ext,
		writer: writer,
		logger: logger.WithComponent("bundle"),
	}
}

// Scan lists the component directory fresh and extracts every component in
// listing order. A missing directory is empty input, not an error. The first
// unreadable or invalidly named component aborts the scan.
func (o *Orchestrator) Scan() ([]component.Component, error) {
	entries, err := os.ReadDir(o.dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.ExtractError("scan_failed", "cannot list component directory", err).WithFile(o.dir)
	}

	var components []component.Component
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), o.ext) {
			continue
		}

		path := filepath.Join(o.dir, entry.Name())
		name := component.NameFromFile(entry.Name())
		if err := component.ValidateName(name); err != nil {
			return nil, withFile(err, path)
		}

		source, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.ExtractError("read_failed", "cannot read component file", err).WithFile(path)
		}

		sections, err := component.Extract(string(source))
		if err != nil {
			return nil, withFile(err, path)
		}

		components = append(components, component.Component{
			Name:     name,
			Path:     path,
			Sections: sections,
		})
	}

	return components, nil
}

// Rebuild runs one full scan-extract-generate-write cycle into outDir.
// Any failure aborts the whole rebuild; previously written artifacts are
// left on disk. Concurrent calls serialize.
func (o *Orchestrator) Rebuild(ctx context.Context, outDir string, minifyScript bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	start := time.Now()

	components, err := o.Scan()
	if err != nil {
		return err
	}

	agg := NewAggregate()
	for _, c := range components {
		agg.Add(c.Name, c.Sections)
	}

	if err := o.writer.Write(agg, outDir, minifyScript); err != nil {
		return err
	}

	o.logger.Info(ctx, "rebuild complete",
		"components", len(components),
		"output", outDir,
		"minified", minifyScript,
		"duration", time.Since(start).String(),
	)
	return nil
}

func withFile(err error, path string) error {
	var be *errors.BuildError
	if stderrors.As(err, &be) {
		return be.WithFile(path)
	}
	return err
}
