package naming

import (
	"strings"
)

const (
	// MarkerType is the marker type the workbench resolves diagram links with.
	MarkerType = "org.eclipse.emf.ecore.diagnostic"

	// MarkerURIAttribute is the marker attribute carrying the element URI.
	MarkerURIAttribute = "uri"

	platformResource = "platform:/resource/"
	resourceSegment  = "/resource"
)

// Hyperlink returns the link for an element location.
//
// Locations inside the workspace ("platform:/resource/...") become marker
// links whose path is the workspace-relative resource path and whose query
// carries the percent-encoded location. Any other location is returned as
// is, and an empty location yields "".
func Hyperlink(location string) string {
	if !strings.HasPrefix(location, platformResource) {
		return location
	}

	path := strings.TrimPrefix(location, "platform:")
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimPrefix(path, resourceSegment)

	var b strings.Builder
	b.WriteString("marker:/")
	b.WriteString(MarkerType)
	b.WriteString(path)
	b.WriteString("?")
	b.WriteString(MarkerURIAttribute)
	b.WriteString("=")
	b.WriteString(EncodeQuery(location))
	return b.String()
}

// EncodeQuery percent-encodes every byte of s that may not appear literally
// in a URI query. Unreserved and reserved characters are kept, so "/" and ":"
// survive while "#", "%", spaces and non-ASCII bytes are escaped.
func EncodeQuery(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if queryChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func queryChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'();/?:@&=+$,", c) >= 0
}
