package media

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/orgball2608/telegram-hugo-exporter/internal/domain"
	"github.com/orgball2608/telegram-hugo-exporter/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDownloader struct {
	paths    []string
	fail     map[int]bool
	realized map[int]string
}

func (d *fakeDownloader) Download(_ context.Context, messageID int, path string) (string, error) {
	if d.fail[messageID] {
		return "", errors.New("flood wait")
	}
	d.paths = append(d.paths, path)
	if r, ok := d.realized[messageID]; ok {
		return r, nil
	}
	return path, nil
}

func photo(id int, groupedID int64) domain.Message {
	return domain.Message{
		ID:        id,
		GroupedID: groupedID,
		Media:     &domain.Media{Kind: domain.MediaPhoto},
	}
}

func testSaver() *Saver {
	return NewSaver(logger.New(logger.Opts{Env: "test"}))
}

func TestSaveGroupAlbumNaming(t *testing.T) {
	dl := &fakeDownloader{}
	group := domain.MessageGroup{Messages: []domain.Message{
		photo(12, 7), photo(10, 7), photo(11, 7),
	}}

	res := testSaver().SaveGroup(context.Background(), dl, group, "2023-02-01-statement", "/out")

	assert.Equal(t, "featured-2023-02-01-statement.jpg", res.Featured)
	assert.Equal(t, []string{
		"featured-2023-02-01-statement.jpg",
		"image-2-2023-02-01-statement.jpg",
		"image-3-2023-02-01-statement.jpg",
	}, res.Images())
	// Ascending message ID drives the numbering regardless of arrival order.
	require.Len(t, res.Assets, 3)
	assert.Equal(t, 10, res.Assets[0].MessageID)
	assert.True(t, res.Assets[0].Featured)
}

func TestSaveGroupFailedImageKeepsNumbering(t *testing.T) {
	dl := &fakeDownloader{fail: map[int]bool{10: true}}
	group := domain.MessageGroup{Messages: []domain.Message{
		photo(10, 7), photo(11, 7),
	}}

	res := testSaver().SaveGroup(context.Background(), dl, group, "post", "/out")

	// The failed first image still consumed slot 1, so the surviving image
	// keeps its image-2 name and becomes the featured one.
	assert.Equal(t, "image-2-post.jpg", res.Featured)
	assert.Equal(t, []string{"image-2-post.jpg"}, res.Images())
	require.Len(t, res.Assets, 1)
	assert.True(t, res.Assets[0].Featured)
}

func TestSaveGroupAlbumsBeforeSingles(t *testing.T) {
	dl := &fakeDownloader{}
	group := domain.MessageGroup{Messages: []domain.Message{
		photo(1, 0), photo(5, 9), photo(6, 9),
	}}

	res := testSaver().SaveGroup(context.Background(), dl, group, "post", "/out")

	assert.Equal(t, []string{
		"featured-post.jpg",
		"image-2-post.jpg",
		"image-3-post.jpg",
	}, res.Images())
	// The standalone photo has the lowest ID but is saved after the album.
	require.Len(t, res.Assets, 3)
	assert.Equal(t, 1, res.Assets[2].MessageID)
}

func TestSaveGroupDocumentKinds(t *testing.T) {
	dl := &fakeDownloader{}
	group := domain.MessageGroup{Messages: []domain.Message{
		{ID: 1, Media: &domain.Media{Kind: domain.MediaDocument, MimeType: "image/png", Filename: "scan.png"}},
		{ID: 2, Media: &domain.Media{Kind: domain.MediaDocument, MimeType: "video/mp4", Filename: "clip.mp4", Video: true}},
		{ID: 3, Media: &domain.Media{Kind: domain.MediaDocument, MimeType: "application/pdf", Filename: "statement.pdf"}},
		{ID: 4, Media: &domain.Media{Kind: domain.MediaDocument, MimeType: "application/octet-stream"}},
	}}

	res := testSaver().SaveGroup(context.Background(), dl, group, "post", "/out")

	require.Len(t, res.Assets, 4)
	assert.Equal(t, "featured-post.png", res.Assets[0].Filename)
	assert.Equal(t, "clip-post.mp4", res.Assets[1].Filename)
	assert.Equal(t, "statement-post.pdf", res.Assets[2].Filename)
	assert.Equal(t, "document-4-post.bin", res.Assets[3].Filename)
	assert.Equal(t, "featured-post.png", res.Featured)
	assert.Equal(t, []string{"featured-post.png"}, res.Images())
}

func TestSaveGroupImageDocumentWithoutFilenameUsesMime(t *testing.T) {
	dl := &fakeDownloader{}
	group := domain.MessageGroup{Messages: []domain.Message{
		{ID: 1, Media: &domain.Media{Kind: domain.MediaDocument, MimeType: "image/webp"}},
	}}

	res := testSaver().SaveGroup(context.Background(), dl, group, "post", "/out")

	assert.Equal(t, "featured-post.webp", res.Featured)
}

func TestSaveGroupOtherKindRealizedExtension(t *testing.T) {
	dl := &fakeDownloader{realized: map[int]string{1: "/out/media-1-post.jpeg"}}
	group := domain.MessageGroup{Messages: []domain.Message{
		{ID: 1, Media: &domain.Media{Kind: domain.MediaOther}},
	}}

	res := testSaver().SaveGroup(context.Background(), dl, group, "post", "/out")

	require.Len(t, res.Assets, 1)
	assert.Equal(t, "media-1-post.jpeg", res.Assets[0].Filename)
	assert.True(t, res.Assets[0].Image)
	assert.Equal(t, "media-1-post.jpeg", res.Featured)
}

func TestSaveGroupSkipsMessagesWithoutMedia(t *testing.T) {
	dl := &fakeDownloader{}
	group := domain.MessageGroup{Messages: []domain.Message{
		{ID: 1, Text: "text only"},
		photo(2, 0),
	}}

	res := testSaver().SaveGroup(context.Background(), dl, group, "post", "/out")

	require.Len(t, res.Assets, 1)
	assert.Equal(t, 2, res.Assets[0].MessageID)
}

func TestSaveGroupWritesIntoDir(t *testing.T) {
	dl := &fakeDownloader{}
	group := domain.MessageGroup{Messages: []domain.Message{photo(1, 0)}}

	testSaver().SaveGroup(context.Background(), dl, group, "post", "/out/posts/post")

	require.Len(t, dl.paths, 1)
	assert.Equal(t, filepath.Join("/out/posts/post", "featured-post.jpg"), dl.paths[0])
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "2023-02-01-we-condemn", CleanName("2023-02-01-we-condemn"))
	assert.Equal(t, "hello-world", CleanName("Hello, World!"))
	assert.Equal(t, "a-b", CleanName("a   b"))
	assert.Equal(t, "post", CleanName("--post--"))
	assert.Equal(t, "", CleanName("!!!"))
}

func TestSaveGroupDuplicateDocumentNames(t *testing.T) {
	dl := &fakeDownloader{}
	group := domain.MessageGroup{Messages: []domain.Message{
		{ID: 2, Media: &domain.Media{Kind: domain.MediaDocument, MimeType: "video/mp4", Filename: "clip.mp4", Video: true}},
		{ID: 3, Media: &domain.Media{Kind: domain.MediaDocument, MimeType: "video/mp4", Filename: "clip.mp4", Video: true}},
	}}

	res := testSaver().SaveGroup(context.Background(), dl, group, "post", "/out")

	require.Len(t, res.Assets, 2)
	assert.Equal(t, "clip-post.mp4", res.Assets[0].Filename)
	assert.Equal(t, "clip-post-3.mp4", res.Assets[1].Filename)
}
