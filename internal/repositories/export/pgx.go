package export

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/telegram-hugo-exporter/internal/domain"
	"github.com/orgball2608/telegram-hugo-exporter/internal/repositories"
	"github.com/orgball2608/telegram-hugo-exporter/pkg/logger"

	sq "github.com/Masterminds/squirrel"
)

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("ExportRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

// Create records one exported post.
func (p *Pgx) Create(ctx context.Context, post domain.ExportedPost) error {
	query, args, err := repositories.SqBuilder.
		Insert("exported_posts").
		Columns("channel", "first_message_id", "last_message_id", "folder_name", "message_count", "created_at").
		Values(post.Channel, post.FirstMessageID, post.LastMessageID, post.FolderName, post.MessageCount, time.Now()).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = p.pg.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Exists checks whether a group starting at firstMessageID was already exported.
func (p *Pgx) Exists(ctx context.Context, channel string, firstMessageID int) (bool, error) {
	query, args, err := repositories.SqBuilder.
		Select("1").
		From("exported_posts").
		Where(sq.Eq{"channel": channel, "first_message_id": firstMessageID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, repositories.ErrBadQuery
	}

	var exists bool
	err = p.pg.QueryRow(ctx, query, args...).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// GetMaxMessageID returns the highest exported message ID for the channel,
// 0 when nothing has been exported yet.
func (p *Pgx) GetMaxMessageID(ctx context.Context, channel string) (int, error) {
	query, args, err := repositories.SqBuilder.
		Select("COALESCE(MAX(last_message_id), 0)").
		From("exported_posts").
		Where(sq.Eq{"channel": channel}).
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	var maxID int
	if err := p.pg.QueryRow(ctx, query, args...).Scan(&maxID); err != nil {
		return 0, err
	}
	return maxID, nil
}
