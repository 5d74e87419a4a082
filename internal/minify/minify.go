// Package minify wraps esbuild's transform API as pure string-to-string
// minifiers for the two artifact kinds.
package minify

import (
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/htmlweld/htmlweld/internal/errors"
)

// JS minifies an aggregated script. An empty input minifies to empty output.
func JS(source string) (string, error) {
	result := api.Transform(source, api.TransformOptions{
		Loader:            api.LoaderJS,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
	})
	if len(result.Errors) > 0 {
		return "", errors.MinifyError("js_minify", messageText(result.Errors), nil)
	}
	return string(result.Code), nil
}

// CSS minifies an aggregated stylesheet.
func CSS(source string) (string, error) {
	result := api.Transform(source, api.TransformOptions{
		Loader:           api.LoaderCSS,
		MinifyWhitespace: true,
		MinifySyntax:     true,
	})
	if len(result.Errors) > 0 {
		return "", errors.MinifyError("css_minify", messageText(result.Errors), nil)
	}
	return string(result.Code), nil
}

func messageText(messages []api.Message) string {
	texts := make([]string, len(messages))
	for i, m := range messages {
		texts[i] = m.Text
	}
	return strings.Join(texts, "; ")
}
