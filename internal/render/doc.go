// Package render runs whole documents through the map transform.
//
// Markdown input is split from its frontmatter, rendered with goldmark and
// parsed into a hast tree; HTML input is parsed directly. A `leaflet` mapping
// in the frontmatter overrides the map defaults for that document only.
package render
