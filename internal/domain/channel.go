package domain

// Channel identifies a resolved Telegram channel.
type Channel struct {
	ID         int64
	AccessHash int64
	Title      string
	Username   string
}
