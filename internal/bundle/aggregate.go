// Package bundle implements the rebuild pipeline: scanning the component
// directory, accumulating generated fragments, and writing the output
// artifacts.
package bundle

import (
	"strings"

	"github.com/htmlweld/htmlweld/internal/codegen"
	"github.com/htmlweld/htmlweld/internal/component"
)

// Aggregate accumulates the generated fragments of every component in one
// rebuild, in directory-listing order. A fresh Aggregate is built per rebuild
// and replaced wholesale; it is never patched incrementally.
//
// Fragments are stored typed and rendered on demand, so the
// template-before-script ordering is a structural property of Script()
// rather than of string assembly along the way.
type Aggregate struct {
	templates []codegen.Fragment
	scripts   []codegen.Fragment
	styles    []string
}

// NewAggregate returns an empty aggregate.
func NewAggregate() *Aggregate {
	return &Aggregate{}
}

// Add generates and accumulates the fragments for one component. Order of
// Add calls determines fragment order within each group.
func (a *Aggregate) Add(name string, sections component.Sections) {
	frags := codegen.Generate(name, sections)
	if frags.Template != nil {
		a.templates = append(a.templates, *frags.Template)
	}
	if frags.Script != nil {
		a.scripts = append(a.scripts, *frags.Script)
	}
	if sections.HasStyle {
		a.styles = append(a.styles, sections.Style)
	}
}

// TemplateCode renders all template-injection statements, newline-joined.
func (a *Aggregate) TemplateCode() string {
	return codegen.RenderAll(a.templates)
}

// ScriptCode renders all scoped script statements, newline-joined.
func (a *Aggregate) ScriptCode() string {
	return codegen.RenderAll(a.scripts)
}

// Script renders the full aggregated script: every template statement, then
// a single joining space, then every script statement. The space join is
// unconditional, so an empty component set renders exactly " ". Grouping all
// template statements first guarantees any component's markup is injected
// before any component's script runs.
func (a *Aggregate) Script() string {
	return a.TemplateCode() + " " + a.ScriptCode()
}

// StyleText concatenates style sections verbatim, newline-joined so one
// file's missing trailing newline cannot glue two rules together. Styles are
// global and unscoped.
func (a *Aggregate) StyleText() string {
	return strings.Join(a.styles, "\n")
}
