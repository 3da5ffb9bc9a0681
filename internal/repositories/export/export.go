package export

import (
	"context"
	"errors"

	"github.com/orgball2608/telegram-hugo-exporter/internal/domain"
)

var ErrNotFound = errors.New("exported post not found")
var ErrCannotCreate = errors.New("error create exported post")
var ErrAlreadyExists = errors.New("exported post already exists")

// Repository tracks which message groups have already been written out, so
// repeated and incremental runs can skip them.
type Repository interface {
	Create(ctx context.Context, post domain.ExportedPost) error
	Exists(ctx context.Context, channel string, firstMessageID int) (bool, error)
	GetMaxMessageID(ctx context.Context, channel string) (int, error)
}
