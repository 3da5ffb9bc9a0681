package telegramimpl

import (
	"context"
	"fmt"
	"strings"

	"github.com/gotd/td/telegram/downloader"
	"github.com/gotd/td/telegram/query"
	"github.com/gotd/td/tg"
	"github.com/orgball2608/telegram-hugo-exporter/internal/domain"
	pkgerrors "github.com/orgball2608/telegram-hugo-exporter/pkg/errors"
	"github.com/orgball2608/telegram-hugo-exporter/pkg/logger"
)

type session struct {
	api    *tg.Client
	dl     *downloader.Downloader
	logger logger.Logger
	// media retains the wire media objects of listed messages so Download can
	// build file locations later without refetching.
	media map[int]tg.MessageMediaClass
}

func (s *session) ResolveChannel(ctx context.Context, identifier string) (*domain.Channel, error) {
	username := strings.TrimPrefix(strings.TrimSpace(identifier), "@")

	res, err := s.api.ContactsResolveUsername(ctx, &tg.ContactsResolveUsernameRequest{
		Username: username,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", identifier, err)
	}

	for _, chat := range res.Chats {
		if ch, ok := chat.(*tg.Channel); ok {
			s.logger.Info("Resolved channel", "title", ch.Title, "username", ch.Username)
			return &domain.Channel{
				ID:         ch.ID,
				AccessHash: ch.AccessHash,
				Title:      ch.Title,
				Username:   ch.Username,
			}, nil
		}
	}

	return nil, pkgerrors.Wrap(pkgerrors.ErrChannelNotFound, identifier)
}

// History collects the channel history newest-first and reverses it, so the
// returned slice is in chronological order as the grouper requires.
func (s *session) History(ctx context.Context, channel *domain.Channel, limit, minID int) ([]domain.Message, error) {
	peer := &tg.InputPeerChannel{
		ChannelID:  channel.ID,
		AccessHash: channel.AccessHash,
	}

	iter := query.Messages(s.api).GetHistory(peer).BatchSize(100).Iter()

	var collected []domain.Message
	for iter.Next(ctx) {
		msg, ok := iter.Value().Msg.(*tg.Message)
		if !ok {
			continue
		}
		if minID > 0 && msg.ID <= minID {
			break
		}

		collected = append(collected, s.convert(msg))
		if len(collected)%100 == 0 {
			s.logger.Info("Collected messages...", "count", len(collected))
		}
		if limit > 0 && len(collected) >= limit {
			break
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("history iteration failed: %w", err)
	}

	for i, j := 0, len(collected)-1; i < j; i, j = i+1, j-1 {
		collected[i], collected[j] = collected[j], collected[i]
	}

	s.logger.Info("Total messages collected", "count", len(collected))
	return collected, nil
}

func (s *session) convert(msg *tg.Message) domain.Message {
	dm := domain.Message{
		ID:   msg.ID,
		Text: msg.Message,
	}
	if gid, ok := msg.GetGroupedID(); ok {
		dm.GroupedID = gid
	}

	media, ok := msg.GetMedia()
	if !ok {
		return dm
	}
	s.media[msg.ID] = media

	switch m := media.(type) {
	case *tg.MessageMediaPhoto:
		dm.Media = &domain.Media{Kind: domain.MediaPhoto}

	case *tg.MessageMediaDocument:
		doc, ok := m.Document.AsNotEmpty()
		if !ok {
			dm.Media = &domain.Media{Kind: domain.MediaOther}
			break
		}
		md := &domain.Media{
			Kind:     domain.MediaDocument,
			MimeType: doc.MimeType,
		}
		for _, attr := range doc.Attributes {
			switch a := attr.(type) {
			case *tg.DocumentAttributeFilename:
				md.Filename = a.FileName
			case *tg.DocumentAttributeVideo:
				md.Video = true
			}
		}
		dm.Media = md

	default:
		dm.Media = &domain.Media{Kind: domain.MediaOther}
	}

	return dm
}

func (s *session) Download(ctx context.Context, messageID int, path string) (string, error) {
	media, ok := s.media[messageID]
	if !ok {
		return "", pkgerrors.Wrap(pkgerrors.ErrMediaDownload, fmt.Sprintf("no media known for message %d", messageID))
	}

	loc, err := fileLocation(media)
	if err != nil {
		return "", err
	}

	if _, err := s.dl.Download(s.api, loc).ToPath(ctx, path); err != nil {
		return "", fmt.Errorf("download to %s failed: %w", path, err)
	}
	return path, nil
}

func fileLocation(media tg.MessageMediaClass) (tg.InputFileLocationClass, error) {
	switch m := media.(type) {
	case *tg.MessageMediaPhoto:
		photo, ok := m.Photo.AsNotEmpty()
		if !ok {
			return nil, fmt.Errorf("photo is empty")
		}
		return &tg.InputPhotoFileLocation{
			ID:            photo.ID,
			AccessHash:    photo.AccessHash,
			FileReference: photo.FileReference,
			ThumbSize:     largestSizeType(photo.Sizes),
		}, nil

	case *tg.MessageMediaDocument:
		doc, ok := m.Document.AsNotEmpty()
		if !ok {
			return nil, fmt.Errorf("document is empty")
		}
		return &tg.InputDocumentFileLocation{
			ID:            doc.ID,
			AccessHash:    doc.AccessHash,
			FileReference: doc.FileReference,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported media type %T", media)
	}
}

// largestSizeType returns the type of the last (largest) photo size.
func largestSizeType(sizes []tg.PhotoSizeClass) string {
	if len(sizes) == 0 {
		return ""
	}
	return sizes[len(sizes)-1].GetType()
}
