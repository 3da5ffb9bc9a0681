package domain

// MediaKind is the closed set of media variants a message can carry.
type MediaKind int

const (
	MediaPhoto MediaKind = iota
	MediaDocument
	MediaOther
)

func (k MediaKind) String() string {
	switch k {
	case MediaPhoto:
		return "photo"
	case MediaDocument:
		return "document"
	default:
		return "other"
	}
}

// Media describes the attachment of a single message.
type Media struct {
	Kind     MediaKind
	MimeType string
	// Filename is the original filename attribute, empty when the upload
	// carried none.
	Filename string
	// Video reports whether the document carries a video attribute. Used for
	// the rendered video-link block; naming decisions go by MimeType.
	Video bool
}

// Message is a read-only view of a channel message.
type Message struct {
	ID   int
	Text string
	// GroupedID correlates messages uploaded together as one album. Zero
	// means the message was not part of an album.
	GroupedID int64
	Media     *Media
}

// HasMedia reports whether the message carries an attachment.
func (m Message) HasMedia() bool {
	return m.Media != nil
}
