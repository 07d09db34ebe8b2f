package photo

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

var noPrefixRe = regexp.MustCompile(`^NO[.．]?\s*(\d+)`)

// CanonicalStation normalizes a station/location label so the same physical
// station always produces the same grouping key: full-width characters are
// folded to half-width, whitespace is collapsed, everything is uppercased
// and "No."-style prefixes are normalized to a single "NO." form.
// An empty result means the label carries no usable station.
func CanonicalStation(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = width.Narrow.String(s)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ToUpper(s)
	s = noPrefixRe.ReplaceAllString(s, "NO.$1")
	return s
}
