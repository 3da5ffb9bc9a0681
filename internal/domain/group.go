package domain

// MessageGroup is an ordered sequence of messages forming one logical post.
// Order is chronological arrival order; media processing re-sorts a copy by
// message ID, never the group itself.
type MessageGroup struct {
	Messages []Message
}

// FirstID returns the ID of the first message, or 0 for an empty group.
func (g MessageGroup) FirstID() int {
	if len(g.Messages) == 0 {
		return 0
	}
	return g.Messages[0].ID
}

// LastID returns the highest message ID in the group, or 0 when empty.
func (g MessageGroup) LastID() int {
	max := 0
	for _, m := range g.Messages {
		if m.ID > max {
			max = m.ID
		}
	}
	return max
}

// HasMedia reports whether any message in the group carries an attachment.
func (g MessageGroup) HasMedia() bool {
	for _, m := range g.Messages {
		if m.HasMedia() {
			return true
		}
	}
	return false
}
