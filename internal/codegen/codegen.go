// Package codegen turns extracted component sections into the statements of
// the aggregated script. Fragments are kept as typed values and rendered in
// one place, so statement ordering and escaping are independent of how the
// aggregate assembles its output.
package codegen

import (
	"fmt"
	"strings"

	"github.com/htmlweld/htmlweld/internal/component"
)

// Fragment is one generated statement of the aggregated script.
type Fragment interface {
	Render() string
}

// TemplateFragment injects a component's template markup into every element
// whose tag name equals the component name. It must render, and execute,
// before the component's ScriptFragment so the script can rely on the markup
// being present inside its host element.
type TemplateFragment struct {
	Tag    string
	Markup string
}

// Render emits the injection statement. The markup is carried in a template
// literal; CollapseWhitespace upstream guarantees it is newline-free, and
// escaping here keeps backticks and interpolations inert.
func (f TemplateFragment) Render() string {
	return fmt.Sprintf("document.querySelectorAll(%q).forEach((el) => { el.innerHTML = `%s`; });",
		f.Tag, escapeTemplateLiteral(f.Markup))
}

// ScriptFragment runs a component's script body once per matched element,
// with the element bound to a variable named exactly after the component.
// Binding the host element to the component's own name is the convention
// component authors write against.
type ScriptFragment struct {
	Tag  string
	Body string
}

// Render emits the scoped execution statement.
func (f ScriptFragment) Render() string {
	return fmt.Sprintf("document.querySelectorAll(%q).forEach((%s) => { %s });",
		f.Tag, f.Tag, f.Body)
}

// Fragments is the generated output for one component. Either field may be
// nil when the corresponding section is absent or empty.
type Fragments struct {
	Template *TemplateFragment
	Script   *ScriptFragment
}

// Generate produces the fragments for one component. A template section,
// even an empty one, yields a template fragment; a script section yields a
// fragment only when its trimmed body is non-empty. Styles are never
// code-generated.
func Generate(name string, sections component.Sections) Fragments {
	var out Fragments

	if sections.HasTemplate {
		out.Template = &TemplateFragment{Tag: name, Markup: sections.Template}
	}
	if sections.HasScript && strings.TrimSpace(sections.Script) != "" {
		out.Script = &ScriptFragment{Tag: name, Body: sections.Script}
	}

	return out
}

// RenderAll renders fragments in order, newline-joined.
func RenderAll(fragments []Fragment) string {
	parts := make([]string, len(fragments))
	for i, f := range fragments {
		parts[i] = f.Render()
	}
	return strings.Join(parts, "\n")
}

var templateLiteralEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"${", `\${`,
)

func escapeTemplateLiteral(s string) string {
	return templateLiteralEscaper.Replace(s)
}
