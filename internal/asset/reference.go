package asset

import (
	"net/url"
	"regexp"
	"strings"
)

// Source identifies where an asset reference is read from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

var remotePattern = regexp.MustCompile(`(?i)^https?://`)

// Classify reports whether ref is fetched over the network or read locally.
func Classify(ref string) Source {
	if remotePattern.MatchString(strings.TrimSpace(ref)) {
		return SourceRemote
	}
	return SourceLocal
}

// Reference is an image reference split into its link and optional alias.
// The alias follows a "|" separator, as in "maps/world.png|World".
type Reference struct {
	Link  string
	Alias string
}

// ParseReference percent-decodes ref and splits off an alias.
// Undecodable input is used as-is.
func ParseReference(ref string) Reference {
	decoded, err := url.PathUnescape(strings.TrimSpace(ref))
	if err != nil {
		decoded = strings.TrimSpace(ref)
	}
	link, alias, _ := strings.Cut(decoded, "|")
	return Reference{Link: strings.TrimSpace(link), Alias: strings.TrimSpace(alias)}
}
