package notifier

// Client delivers operator-facing status messages. Implementations must be
// safe to call with no recipient configured.
type Client interface {
	SendMessageToUser(msg string)
}
