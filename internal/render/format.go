package render

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format is the kind of input document.
type Format string

const (
	FormatAuto     Format = "auto"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// DetectFormat picks a format from the file extension, falling back to a
// look at the content. Unknown input is treated as Markdown.
func DetectFormat(path string, content []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdx":
		return FormatMarkdown
	case ".html", ".htm", ".xhtml":
		return FormatHTML
	}
	if isFullDocument(content) {
		return FormatHTML
	}
	return FormatMarkdown
}

func isFullDocument(content []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(content))
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}
