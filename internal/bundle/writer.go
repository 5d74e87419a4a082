package bundle

import (
	"os"
	"path/filepath"

	"github.com/htmlweld/htmlweld/internal/errors"
	"github.com/htmlweld/htmlweld/internal/minify"
)

// Default artifact names inside the output directory.
const (
	ScriptArtifact = "bundle.js"
	StyleArtifact  = "bundle.css"
)

// Writer serializes an aggregate into the output artifacts.
type Writer struct {
	ScriptName string
	StyleName  string
}

// NewWriter returns a writer using the default artifact names.
func NewWriter() *Writer {
	return &Writer{ScriptName: ScriptArtifact, StyleName: StyleArtifact}
}

// Write serializes the aggregate into outDir, creating the directory first.
//
// The script artifact is always written, minified when minifyScript is set.
// The style artifact is written only when the aggregate carries any style
// text, and is always minified; when there is no style text an existing
// style artifact is left untouched.
//
// Both outputs are minified before either file is touched, so a minifier
// rejection retains every previous artifact. The style artifact is written
// first; a failure there leaves the previous script artifact in place.
func (w *Writer) Write(agg *Aggregate, outDir string, minifyScript bool) error {
	script := agg.Script()
	if minifyScript {
		minified, err := minify.JS(script)
		if err != nil {
			return err
		}
		script = minified
	}

	var style string
	hasStyle := agg.StyleText() != ""
	if hasStyle {
		minified, err := minify.CSS(agg.StyleText())
		if err != nil {
			return err
		}
		style = minified
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.WriteError("mkdir_failed", "cannot create output directory", err)
	}

	if hasStyle {
		stylePath := filepath.Join(outDir, w.StyleName)
		if err := os.WriteFile(stylePath, []byte(style), 0o644); err != nil {
			return errors.WriteError("style_write_failed", "cannot write style artifact", err).WithFile(stylePath)
		}
	}

	scriptPath := filepath.Join(outDir, w.ScriptName)
	if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		return errors.WriteError("script_write_failed", "cannot write script artifact", err).WithFile(scriptPath)
	}

	return nil
}

// CopyEntry copies the entry HTML file verbatim into outDir under its base
// name, creating outDir if needed.
func (w *Writer) CopyEntry(entryPath, outDir string) error {
	data, err := os.ReadFile(entryPath)
	if err != nil {
		return errors.WriteError("entry_read_failed", "cannot read entry file", err).WithFile(entryPath)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.WriteError("mkdir_failed", "cannot create output directory", err)
	}
	dest := filepath.Join(outDir, filepath.Base(entryPath))
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return errors.WriteError("entry_write_failed", "cannot write entry file", err).WithFile(dest)
	}
	return nil
}
