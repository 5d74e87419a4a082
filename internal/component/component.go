// Package component defines the single-file component model and the section
// extractor that splits a component source into its template, script, and
// style sections.
//
// A component is one HTML file whose base name (sans extension) is the
// component name. The name doubles as the element tag the generated code
// selects on and as the variable the component script sees its host element
// bound to, so it must be a lowercase, hyphen-free identifier.
package component

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/htmlweld/htmlweld/internal/errors"
)

// Component is one discovered component source with its extracted sections.
type Component struct {
	Name     string
	Path     string
	Sections Sections
}

// Sections holds the three extracted sections of a component file. Each
// section is optional; the Has flags distinguish an absent section from a
// present-but-empty one, which matters for template injection.
type Sections struct {
	Template    string
	HasTemplate bool
	Script      string
	HasScript   bool
	Style       string
	HasStyle    bool
}

var (
	namePattern    = regexp.MustCompile(`^[a-z][a-z0-9]*$`)
	whitespaceRuns = regexp.MustCompile(`\s{2,}`)
)

// ValidateName checks that a component name is usable both as an element tag
// and as a script variable. Hyphenated or otherwise non-identifier names are
// rejected rather than silently generating unusable code.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return errors.ExtractError("invalid_name",
			fmt.Sprintf("component name must match [a-z][a-z0-9]*, got %q", name), nil)
	}
	return nil
}

// NameFromFile derives the component name from a file path by stripping the
// directory and extension.
func NameFromFile(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// CollapseWhitespace replaces every run of two or more whitespace characters
// with a single space. Template markup is collapsed before code generation so
// embedded newlines cannot break the generated template literal.
func CollapseWhitespace(s string) string {
	return whitespaceRuns.ReplaceAllString(s, " ")
}
