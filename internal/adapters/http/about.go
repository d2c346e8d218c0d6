package http

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

//go:embed templates/about.md
var aboutMarkdown []byte

// renderAboutHTML converts the embedded about page once at startup. The
// sanitizer keeps the result safe to inline unescaped.
func renderAboutHTML() (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(aboutMarkdown, &buf); err != nil {
		return "", fmt.Errorf("render about page: %w", err)
	}
	clean := bluemonday.UGCPolicy().SanitizeBytes(buf.Bytes())
	return template.HTML(clean), nil
}
