package structure

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/orgball2608/telegram-hugo-exporter/internal/domain"
	"github.com/orgball2608/telegram-hugo-exporter/internal/marker"
)

// Post is the structured record extracted from a group's combined text.
type Post struct {
	Organization string
	SubUnit      string
	PressRelease bool
	// Date in DD-MM-YYYY form, empty when no date line was recognized.
	Date  string
	Title string
	Body  []string
}

var organizationKeywords = []string{
	"party", "movement", "organization", "front", "union",
	"congress", "league", "association", "council", "committee",
}

var subUnitKeywords = []string{
	"committee", "central", "zonal", "provincial", "district",
	"division", "wing", "cell", "bureau", "secretariat",
}

var (
	dateAtStart  = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}`)
	dateAnywhere = regexp.MustCompile(`\d{2}-\d{2}-\d{4}`)
	asterisks    = regexp.MustCompile(`\*+`)
)

// CombineText strips the trailing continuation marker from every message and
// joins the texts with a blank-line separator.
func CombineText(msgs []domain.Message) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, marker.Strip(m.Text))
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

// Parse classifies the lines of a group's combined text into organization,
// sub-unit, press-release flag, date and body. Rules are ordered and
// short-circuiting: the first matching rule consumes the line.
//
// Organization and sub-unit detection stop once body content has started;
// press-release and date lines are consumed wherever they appear and never
// start the body.
func Parse(text string) Post {
	var post Post
	contentStarted := false

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		if post.Organization == "" && !contentStarted {
			if containsAny(lower, organizationKeywords) || looksLikeName(line) {
				post.Organization = line
				continue
			}
		}

		if post.SubUnit == "" && !contentStarted {
			if containsAny(lower, subUnitKeywords) {
				post.SubUnit = line
				continue
			}
		}

		if strings.Contains(lower, "press release") {
			post.PressRelease = true
			continue
		}

		if strings.HasPrefix(lower, "date:") || dateAtStart.MatchString(line) {
			if m := dateAnywhere.FindString(line); m != "" {
				post.Date = m
			}
			continue
		}

		post.Body = append(post.Body, line)
		contentStarted = true
	}

	if len(post.Body) > 0 {
		post.Title = truncateRunes(post.Body[0], 100, "...")
	}

	post.Organization = StripAsterisks(post.Organization)
	post.SubUnit = StripAsterisks(post.SubUnit)

	return post
}

// StripAsterisks removes runs of literal '*' and trims the result.
func StripAsterisks(s string) string {
	return strings.TrimSpace(asterisks.ReplaceAllString(s, ""))
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// looksLikeName reports whether a line reads like an organization name: at
// least two words, each starting with an uppercase letter.
func looksLikeName(line string) bool {
	words := strings.Fields(line)
	if len(words) < 2 {
		return false
	}
	for _, w := range words {
		r := []rune(w)[0]
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func truncateRunes(s string, max int, suffix string) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + suffix
}
