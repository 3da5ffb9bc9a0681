package telegram

import (
	"context"

	"github.com/orgball2608/telegram-hugo-exporter/internal/domain"
)

// Session is an authenticated MTProto session. It is only valid inside the
// callback passed to Client.Run.
type Session interface {
	// ResolveChannel resolves a channel handle (with or without leading @)
	// to the channel entity.
	ResolveChannel(ctx context.Context, identifier string) (*domain.Channel, error)

	// History fetches channel messages in chronological order. limit caps the
	// number of collected messages (0 = all); minID skips messages with
	// ID <= minID.
	History(ctx context.Context, channel *domain.Channel, limit, minID int) ([]domain.Message, error)

	// Download fetches the media of a previously listed message to path and
	// returns the realized path.
	Download(ctx context.Context, messageID int, path string) (string, error)
}

// Client owns the Telegram connection lifecycle: connect, authenticate as a
// user, hand an authenticated Session to fn, disconnect when fn returns.
type Client interface {
	Run(ctx context.Context, fn func(ctx context.Context, session Session) error) error
}
