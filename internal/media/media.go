package media

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/orgball2608/telegram-hugo-exporter/internal/domain"
	"github.com/orgball2608/telegram-hugo-exporter/pkg/logger"
)

// Downloader fetches the media bytes of a message to the given path and
// returns the realized path (which may differ for best-effort downloads).
type Downloader interface {
	Download(ctx context.Context, messageID int, path string) (string, error)
}

// Asset is one media file written into a post folder.
type Asset struct {
	MessageID int
	Filename  string
	Featured  bool
	Image     bool
}

// Result summarizes the media saved for one group.
type Result struct {
	// Featured is the filename of the post's primary image, empty when the
	// group produced no image.
	Featured string
	Assets   []Asset
}

// Images returns the filenames of all saved image assets, in assignment order.
func (r *Result) Images() []string {
	var names []string
	for _, a := range r.Assets {
		if a.Image {
			names = append(names, a.Filename)
		}
	}
	return names
}

var mimeExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

var (
	nonSlugChars = regexp.MustCompile(`[^\w\-]`)
	hyphenRuns   = regexp.MustCompile(`-+`)
)

// CleanName turns a folder name into the slug used inside media filenames.
func CleanName(folderName string) string {
	s := nonSlugChars.ReplaceAllString(strings.ToLower(folderName), "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Saver downloads and names a group's media following the deterministic
// scheme: albums before singles, ascending message ID within each, one image
// counter across the whole group.
type Saver struct {
	Logger logger.Logger
}

func NewSaver(log logger.Logger) *Saver {
	return &Saver{Logger: log.WithComponent("MediaSaver")}
}

// saveState carries the counters threaded through one group. It lives for a
// single SaveGroup call, never across groups.
type saveState struct {
	slug       string
	dir        string
	imageCount int
	used       map[string]bool
	result     *Result
}

// unique reserves filename, disambiguating with the message ID when two items
// in one group map to the same name (two documents uploaded with the same
// original filename). Numbered image names never collide.
func (st *saveState) unique(filename string, messageID int) string {
	if !st.used[filename] {
		st.used[filename] = true
		return filename
	}
	ext := filepath.Ext(filename)
	name := fmt.Sprintf("%s-%d%s", strings.TrimSuffix(filename, ext), messageID, ext)
	st.used[name] = true
	return name
}

// SaveGroup downloads every media item of the group into dir. A failed item is
// logged and skipped; the remaining items and the post are still produced.
func (s *Saver) SaveGroup(ctx context.Context, dl Downloader, group domain.MessageGroup, folderName, dir string) *Result {
	state := &saveState{
		slug:   CleanName(folderName),
		dir:    dir,
		used:   map[string]bool{},
		result: &Result{},
	}

	msgs := make([]domain.Message, 0, len(group.Messages))
	for _, m := range group.Messages {
		if m.HasMedia() {
			msgs = append(msgs, m)
		}
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].ID < msgs[j].ID })

	// Albums first: cluster by grouped ID in order of first appearance.
	var albumOrder []int64
	albums := map[int64][]domain.Message{}
	var singles []domain.Message
	for _, m := range msgs {
		if m.GroupedID != 0 {
			if _, seen := albums[m.GroupedID]; !seen {
				albumOrder = append(albumOrder, m.GroupedID)
			}
			albums[m.GroupedID] = append(albums[m.GroupedID], m)
		} else {
			singles = append(singles, m)
		}
	}

	for _, gid := range albumOrder {
		s.Logger.Info("Processing album", "grouped_id", gid, "messages", len(albums[gid]))
		for _, m := range albums[gid] {
			s.saveItem(ctx, dl, m, state)
		}
	}
	for _, m := range singles {
		s.saveItem(ctx, dl, m, state)
	}

	if state.result.Featured != "" {
		s.Logger.Info("Featured image set", "filename", state.result.Featured, "images", state.imageCount)
	}

	return state.result
}

func (s *Saver) saveItem(ctx context.Context, dl Downloader, msg domain.Message, state *saveState) {
	switch msg.Media.Kind {
	case domain.MediaPhoto:
		s.saveImage(ctx, dl, msg, state, ".jpg")

	case domain.MediaDocument:
		mime := msg.Media.MimeType
		switch {
		case strings.Contains(mime, "image"):
			s.saveImage(ctx, dl, msg, state, imageExtension(msg.Media))
		case strings.Contains(mime, "video"):
			base, ext := baseAndExt(msg.Media, fmt.Sprintf("video-%d", msg.ID), ".mp4")
			s.saveNamed(ctx, dl, msg, state, base+"-"+state.slug+ext, false)
		default:
			base, ext := baseAndExt(msg.Media, fmt.Sprintf("document-%d", msg.ID), ".bin")
			s.saveNamed(ctx, dl, msg, state, base+"-"+state.slug+ext, false)
		}

	default:
		s.saveOther(ctx, dl, msg, state)
	}
}

// saveImage counts the item as an image and gives it the featured- or
// image-<n>- name. The counter advances even when the download fails, so the
// numbering stays deterministic for a given input.
func (s *Saver) saveImage(ctx context.Context, dl Downloader, msg domain.Message, state *saveState, ext string) {
	state.imageCount++
	var filename string
	if state.imageCount == 1 {
		filename = "featured-" + state.slug + ext
	} else {
		filename = fmt.Sprintf("image-%d-%s%s", state.imageCount, state.slug, ext)
	}
	s.saveNamed(ctx, dl, msg, state, filename, true)
}

func (s *Saver) saveNamed(ctx context.Context, dl Downloader, msg domain.Message, state *saveState, filename string, image bool) {
	filename = state.unique(filename, msg.ID)
	path := filepath.Join(state.dir, filename)
	if _, err := dl.Download(ctx, msg.ID, path); err != nil {
		s.Logger.Error("Failed to download media", "message_id", msg.ID, "filename", filename, "error", err)
		return
	}

	featured := false
	if image && state.result.Featured == "" {
		state.result.Featured = filename
		featured = true
	}
	state.result.Assets = append(state.result.Assets, Asset{
		MessageID: msg.ID,
		Filename:  filename,
		Featured:  featured,
		Image:     image,
	})
	s.Logger.Info("Downloaded media", "message_id", msg.ID, "filename", filename)
}

// saveOther handles unknown media kinds best-effort: download under a generic
// name and count the result as an image when the realized file has an image
// extension.
func (s *Saver) saveOther(ctx context.Context, dl Downloader, msg domain.Message, state *saveState) {
	filename := fmt.Sprintf("media-%d-%s", msg.ID, state.slug)
	realized, err := dl.Download(ctx, msg.ID, filepath.Join(state.dir, filename))
	if err != nil {
		s.Logger.Warn("Could not download other media kind", "message_id", msg.ID, "error", err)
		return
	}

	name := filepath.Base(realized)
	image := imageExtensions[strings.ToLower(filepath.Ext(name))]
	featured := false
	if image {
		state.imageCount++
		if state.result.Featured == "" {
			state.result.Featured = name
			featured = true
		}
	}
	state.result.Assets = append(state.result.Assets, Asset{
		MessageID: msg.ID,
		Filename:  name,
		Featured:  featured,
		Image:     image,
	})
	s.Logger.Info("Downloaded other media", "message_id", msg.ID, "filename", name)
}

// imageExtension picks the extension for an image document: the original
// filename's extension when present, else a MIME lookup, defaulting to .jpg.
func imageExtension(m *domain.Media) string {
	if m.Filename != "" {
		if ext := filepath.Ext(m.Filename); ext != "" {
			return ext
		}
		return ".jpg"
	}
	if ext, ok := mimeExtensions[m.MimeType]; ok {
		return ext
	}
	return ".jpg"
}

func baseAndExt(m *domain.Media, fallbackBase, fallbackExt string) (string, string) {
	if m.Filename == "" {
		return fallbackBase, fallbackExt
	}
	ext := filepath.Ext(m.Filename)
	if ext == "" {
		ext = fallbackExt
	}
	return strings.TrimSuffix(filepath.Base(m.Filename), filepath.Ext(m.Filename)), ext
}
