package marker

import (
	"regexp"
	"strconv"
	"strings"
)

// pattern matches a trailing continuation marker in both the "(2/3)" and the
// bare "2/3" form. Anchored at the end of the trimmed text so mid-text digit
// pairs never match.
var pattern = regexp.MustCompile(`(?:\()?(\d+)/(\d+)(?:\))?\s*$`)

// Marker is a parsed continuation marker: part Index of Total.
type Marker struct {
	Index int
	Total int
}

// Detect returns the continuation marker at the end of text, if any.
func Detect(text string) (Marker, bool) {
	m := pattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return Marker{}, false
	}

	index, err := strconv.Atoi(m[1])
	if err != nil {
		return Marker{}, false
	}
	total, err := strconv.Atoi(m[2])
	if err != nil {
		return Marker{}, false
	}

	return Marker{Index: index, Total: total}, true
}

// Strip removes the trailing continuation marker from text, using the same
// end-anchored pattern as Detect. The text is trimmed first.
func Strip(text string) string {
	return pattern.ReplaceAllString(strings.TrimSpace(text), "")
}
