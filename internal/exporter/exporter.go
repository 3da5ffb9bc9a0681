package exporter

import "context"

// Client drives one interactive export run: prompt for a channel, export its
// messages as Hugo posts, optionally keep watching for new messages.
type Client interface {
	Run(ctx context.Context) error
}
