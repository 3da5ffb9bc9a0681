package render

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/orgball2608/telegram-hugo-exporter/internal/structure"
)

// GalleryPolicy selects which downloaded images enter the rendered gallery.
const (
	// GalleryLegacy keeps the historical behavior: only files named
	// image-<n>-<slug>.jpg appear, the featured file and non-jpg images do not.
	GalleryLegacy = "legacy"
	// GalleryAll lists every downloaded image, featured included.
	GalleryAll = "all"
)

// Options carries the per-channel rendering settings.
type Options struct {
	ChannelHandle string
	GalleryPolicy string
}

var (
	folderStrip    = regexp.MustCompile(`[^\w\s-]`)
	folderCollapse = regexp.MustCompile(`[-\s]+`)
)

// FolderName derives the post folder name from the group's combined text:
// first line, capped at 50 runes, slugified, prefixed with YYYY-MM-DD- when
// the parsed date converts. Falls back to a timestamp name when no usable
// text exists.
func FolderName(text, date string) string {
	if text == "" {
		return timestampName()
	}

	firstLine := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
	r := []rune(firstLine)
	if len(r) > 50 {
		firstLine = string(r[:50])
	}

	name := folderStrip.ReplaceAllString(firstLine, "")
	name = folderCollapse.ReplaceAllString(name, "-")
	name = strings.ToLower(strings.Trim(name, "-"))

	if name == "" {
		name = timestampName()
	}

	if date != "" {
		if d, err := time.Parse("02-01-2006", date); err == nil {
			name = d.Format("2006-01-02") + "-" + name
		}
	}

	return name
}

// ConvertDate converts DD-MM-YYYY to YYYY-MM-DD; invalid input falls back to
// the current date.
func ConvertDate(date string) string {
	d, err := time.Parse("02-01-2006", date)
	if err != nil {
		return time.Now().Format("2006-01-02")
	}
	return d.Format("2006-01-02")
}

// Document renders the complete index.md for a post: TOML frontmatter followed
// by the HTML-flavored body.
func Document(post structure.Post, videoIDs []int, images []string, opts Options) string {
	date := time.Now().Format("2006-01-02")
	if post.Date != "" {
		date = ConvertDate(post.Date)
	}

	title := post.Title
	if title == "" {
		title = "Press Release"
	}
	if len([]rune(title)) > 30 {
		r := []rune(title)
		if len(r) > 70 {
			r = r[:70]
		}
		title = strings.TrimRight(string(r), " \t") + "..."
	}
	title = strings.ReplaceAll(title, `"`, `\"`)

	var b strings.Builder
	b.WriteString("+++\n")
	fmt.Fprintf(&b, "date = '%s'\n", date)
	b.WriteString("draft = false\n")
	fmt.Fprintf(&b, "title = \"%s\"\n", title)
	fmt.Fprintf(&b, "authors = ['%s']\n", post.Organization)
	b.WriteString("+++\n\n")

	var content []string

	if len(videoIDs) > 0 {
		handle := strings.TrimPrefix(opts.ChannelHandle, "@")
		content = append(content, "<h2>Videos</h2>")
		for _, id := range videoIDs {
			content = append(content, fmt.Sprintf("[📹 Watch Video](https://t.me/%s/%d)", handle, id))
		}
		content = append(content, "")
	}

	if post.Organization != "" {
		content = append(content, fmt.Sprintf("<h1>%s</h1>", post.Organization))
	}
	if post.SubUnit != "" {
		content = append(content, fmt.Sprintf("<h2>%s</h2>", post.SubUnit))
	}
	if post.PressRelease {
		content = append(content, "<h3>Press Release</h3>")
	}
	if post.Date != "" {
		content = append(content, "Date: "+post.Date, "")
	}

	if len(post.Body) > 0 {
		heading := structure.StripAsterisks(post.Body[0])
		content = append(content, fmt.Sprintf("<h2>%s</h2>", heading), "")

		for _, line := range post.Body[1:] {
			content = append(content, structure.StripAsterisks(line), "")
		}
	}

	for _, img := range galleryImages(images, opts.GalleryPolicy) {
		content = append(content, fmt.Sprintf("![Image](%s)", img), "")
	}

	b.WriteString(strings.Join(content, "\n"))
	return b.String()
}

// galleryImages applies the gallery inclusion policy and sorts by filename.
func galleryImages(images []string, policy string) []string {
	var out []string
	for _, name := range images {
		if policy == GalleryAll {
			out = append(out, name)
			continue
		}
		if ok, _ := filepath.Match("image-*-*.jpg", name); ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func timestampName() string {
	return "post_" + time.Now().Format("20060102_150405")
}
