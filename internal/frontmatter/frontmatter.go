package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document opened a frontmatter
// block with `---` but never closed it.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

var bom = []byte("\xef\xbb\xbf")

// Split is the result of separating a document's frontmatter from its body.
type Split struct {
	Raw     []byte // YAML between the delimiters
	Body    []byte
	Present bool
	Newline string // "\n" or "\r\n", detected from the first line break
}

// SplitDocument separates `---` delimited YAML frontmatter from the body.
// A leading UTF-8 byte order mark is ignored. Without frontmatter, Present
// is false and Body is the whole input.
func SplitDocument(content []byte) (Split, error) {
	content = bytes.TrimPrefix(content, bom)
	nl := detectNewline(content)
	delim := []byte("---" + nl)

	if !bytes.HasPrefix(content, delim) {
		return Split{Body: content, Newline: nl}, nil
	}
	rest := content[len(delim):]
	if bytes.HasPrefix(rest, delim) {
		return Split{Raw: []byte{}, Body: rest[len(delim):], Present: true, Newline: nl}, nil
	}

	closing := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		// A closing delimiter on the last line has no trailing newline.
		if bytes.HasSuffix(rest, []byte(nl+"---")) {
			return Split{Raw: rest[:len(rest)-len("---")], Body: []byte{}, Present: true, Newline: nl}, nil
		}
		return Split{Newline: nl}, ErrMissingClosingDelimiter
	}
	return Split{
		Raw:     rest[:idx+len(nl)],
		Body:    rest[idx+len(closing):],
		Present: true,
		Newline: nl,
	}, nil
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(raw []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
