package frontmatter

import (
	"bytes"

	"github.com/inful/mdfp"
)

// Fingerprint returns a content hash of a document that ignores the newline
// style and a trailing newline after the frontmatter block. Documents with a
// broken frontmatter block are hashed as a plain body.
func Fingerprint(content []byte) string {
	split, err := SplitDocument(content)
	if err != nil {
		return mdfp.CalculateFingerprintFromParts("", string(content))
	}
	raw := bytes.ReplaceAll(split.Raw, []byte("\r\n"), []byte("\n"))
	raw = bytes.TrimSuffix(raw, []byte("\n"))
	body := bytes.ReplaceAll(split.Body, []byte("\r\n"), []byte("\n"))
	return mdfp.CalculateFingerprintFromParts(string(raw), string(body))
}
