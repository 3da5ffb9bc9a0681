package domain

import "time"

// ExportedPost records one written post so repeated runs can skip it.
type ExportedPost struct {
	ID             int
	Channel        string
	FirstMessageID int
	LastMessageID  int
	FolderName     string
	MessageCount   int
	CreatedAt      time.Time
}
