package exporterimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/orgball2608/telegram-hugo-exporter/internal/domain"
	"github.com/orgball2608/telegram-hugo-exporter/internal/telegram"
)

// watch keeps the session open and exports newly arrived messages on an
// interval until the context is cancelled. The job runs in singleton mode: a
// pass that outlasts the interval is never overlapped by the next one, the
// session and the export state are only ever touched by one pass at a time.
func (e *ExporterImpl) watch(ctx context.Context, sess telegram.Session, channel *domain.Channel) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create watch scheduler: %w", err)
	}

	interval := time.Duration(e.Config.Export.WatchMinutes) * time.Minute
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			e.watchPass(ctx, sess, channel)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule watch job: %w", err)
	}

	e.Logger.Info("Watching for new messages", "interval", interval.String())
	scheduler.Start()

	<-ctx.Done()
	e.Logger.Info("Stopping watch scheduler")
	if err := scheduler.Shutdown(); err != nil {
		e.Logger.Error("Failed to shut down watch scheduler", "error", err)
	}
	return nil
}

// watchPass exports everything newer than the last recorded message ID.
func (e *ExporterImpl) watchPass(ctx context.Context, sess telegram.Session, channel *domain.Channel) {
	if ctx.Err() != nil {
		return
	}

	minID, err := e.ExportRepo.GetMaxMessageID(ctx, channel.Username)
	if err != nil {
		e.Logger.Error("Failed to read export state for watch pass", "error", err)
		return
	}

	messages, posts, err := e.exportChannel(ctx, sess, channel, minID)
	if err != nil {
		e.Logger.Error("Watch pass failed", "error", err)
		e.Notifier.SendMessageToUser("Watch pass failed: " + err.Error())
		return
	}
	if posts > 0 {
		e.Logger.Info("Watch pass exported new posts", "messages", messages, "posts", posts)
		e.Notifier.SendMessageToUser(fmt.Sprintf("Exported %d new posts from %s", posts, channel.Title))
	}
}
