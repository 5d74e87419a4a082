package component

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/htmlweld/htmlweld/internal/errors"
)

// Extract splits one component source into its sections. The first
// <template>, <script>, and <style> elements win, in any document order;
// each is optional and a file with none of the three is valid.
//
// Template inner markup comes back whitespace-collapsed, script text
// trimmed, style text verbatim. Pure over the source text.
func Extract(source string) (Sections, error) {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return Sections{}, errors.ExtractError("parse_failed", "cannot parse component markup", err)
	}

	var sections Sections
	collect(doc, &sections)

	return sections, nil
}

func collect(n *html.Node, sections *Sections) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "template":
			if !sections.HasTemplate {
				sections.Template = CollapseWhitespace(innerHTML(n))
				sections.HasTemplate = true
			}
		case "script":
			if !sections.HasScript {
				sections.Script = strings.TrimSpace(innerText(n))
				sections.HasScript = true
			}
		case "style":
			if !sections.HasStyle {
				sections.Style = innerText(n)
				sections.HasStyle = true
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, sections)
	}
}

// innerHTML re-serializes an element's children.
func innerHTML(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		// Render only fails on unrenderable node types, which cannot
		// appear under a parsed element.
		_ = html.Render(&sb, c)
	}
	return sb.String()
}

// innerText concatenates an element's text children. Script and style
// contents are raw text to the parser, so this is their full body.
func innerText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}
