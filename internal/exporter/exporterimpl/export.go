package exporterimpl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/orgball2608/telegram-hugo-exporter/internal/domain"
	"github.com/orgball2608/telegram-hugo-exporter/internal/grouper"
	"github.com/orgball2608/telegram-hugo-exporter/internal/render"
	"github.com/orgball2608/telegram-hugo-exporter/internal/repositories/export"
	"github.com/orgball2608/telegram-hugo-exporter/internal/structure"
	"github.com/orgball2608/telegram-hugo-exporter/internal/telegram"
	pkgerrors "github.com/orgball2608/telegram-hugo-exporter/pkg/errors"
	"github.com/samber/lo"
)

// Run executes one interactive export: prompt for the channel, connect, walk
// the full history, write one Hugo page bundle per reconstructed post.
func (e *ExporterImpl) Run(ctx context.Context) error {
	identifier, err := e.promptChannel()
	if err != nil {
		return err
	}
	if identifier == "" {
		return pkgerrors.Wrap(pkgerrors.ErrInvalidInput, "no channel specified")
	}

	if err := os.MkdirAll(e.Config.Export.ContentDir, 0o755); err != nil {
		return fmt.Errorf("failed to create content dir: %w", err)
	}

	return e.Telegram.Run(ctx, func(ctx context.Context, sess telegram.Session) error {
		channel, err := sess.ResolveChannel(ctx, identifier)
		if err != nil {
			return err
		}
		e.Logger.Info("Exporting messages from channel", "title", channel.Title)

		messages, posts, err := e.exportChannel(ctx, sess, channel, 0)
		if err != nil {
			return err
		}

		summary := fmt.Sprintf("Export completed: %d messages, %d posts from %s, content in %s",
			messages, posts, channel.Title, e.Config.Export.ContentDir)
		fmt.Println(summary)
		e.Notifier.SendMessageToUser(summary)

		if e.Config.Export.WatchMinutes > 0 && e.promptYes("Keep watching for new messages?") {
			return e.watch(ctx, sess, channel)
		}
		return nil
	})
}

// exportChannel fetches messages newer than minID, groups them and writes one
// post per group. Returns the number of text messages seen and posts created.
// Transport failures abort; a failure inside a single post is logged and that
// post is skipped.
func (e *ExporterImpl) exportChannel(ctx context.Context, sess telegram.Session, channel *domain.Channel, minID int) (int, int, error) {
	messages, err := sess.History(ctx, channel, e.Config.Export.Limit, minID)
	if err != nil {
		return 0, 0, err
	}

	textCount := lo.CountBy(messages, func(m domain.Message) bool { return m.Text != "" })

	groups := grouper.Group(messages)
	e.Logger.Info("Grouped messages", "messages", textCount, "groups", len(groups))

	created := 0
	for i, group := range groups {
		if ctx.Err() != nil {
			e.Logger.Info("Export interrupted", "processed_groups", i)
			break
		}
		if err := e.createPost(ctx, sess, channel, group); err != nil {
			e.Logger.Error("Error creating post", "group", i+1, "error", err)
			continue
		}
		created++
		e.Logger.Info("Created post", "index", i+1, "total", len(groups))
	}

	return textCount, created, nil
}

// createPost builds a single page bundle: parse structure, derive the folder,
// download media, render and write index.md, record the export. A panic while
// building one post is contained here so the run continues with the next group.
func (e *ExporterImpl) createPost(ctx context.Context, sess telegram.Session, channel *domain.Channel, group domain.MessageGroup) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while building post: %v", r)
		}
	}()

	if len(group.Messages) == 0 {
		return nil
	}

	if exported, checkErr := e.ExportRepo.Exists(ctx, channel.Username, group.FirstID()); checkErr != nil {
		e.Logger.Warn("Failed to check export state, exporting anyway", "error", checkErr)
	} else if exported {
		e.Logger.Info("Post already exported, skipping", "first_message_id", group.FirstID())
		return nil
	}

	combined := structure.CombineText(group.Messages)
	post := structure.Parse(combined)

	folderName := render.FolderName(combined, post.Date)
	dir := filepath.Join(e.Config.Export.ContentDir, folderName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create post dir: %w", err)
	}

	videoIDs := lo.FilterMap(group.Messages, func(m domain.Message, _ int) (int, bool) {
		return m.ID, m.Media != nil && m.Media.Kind == domain.MediaDocument && m.Media.Video
	})

	var images []string
	if group.HasMedia() {
		result := e.Saver.SaveGroup(ctx, sess, group, folderName, dir)
		images = result.Images()
	}

	document := render.Document(post, videoIDs, images, render.Options{
		ChannelHandle: channel.Username,
		GalleryPolicy: e.Config.Export.GalleryPolicy,
	})

	if err := os.WriteFile(filepath.Join(dir, "index.md"), []byte(document), 0o644); err != nil {
		return fmt.Errorf("failed to write index.md: %w", err)
	}

	if err := e.ExportRepo.Create(ctx, domain.ExportedPost{
		Channel:        channel.Username,
		FirstMessageID: group.FirstID(),
		LastMessageID:  group.LastID(),
		FolderName:     folderName,
		MessageCount:   len(group.Messages),
	}); err != nil && !errors.Is(err, export.ErrAlreadyExists) {
		e.Logger.Warn("Failed to record exported post", "folder", folderName, "error", err)
	}

	e.Logger.Info("Created Hugo post", "folder", folderName)
	return nil
}
