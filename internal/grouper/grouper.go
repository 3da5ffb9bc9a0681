package grouper

import (
	"github.com/orgball2608/telegram-hugo-exporter/internal/domain"
	"github.com/orgball2608/telegram-hugo-exporter/internal/marker"
)

// Grouper reconstructs logical posts from a chronological message stream by
// following `(n/total)` continuation markers. It is a streaming state machine:
// IDLE when no group is open, collecting when a series start has been seen and
// the next index is awaited.
type Grouper struct {
	current       []domain.Message
	expecting     bool
	expectedNext  int
	expectedTotal int
}

func New() *Grouper {
	return &Grouper{
		expectedNext:  1,
		expectedTotal: 1,
	}
}

// Feed consumes one message and returns the groups completed by it, in
// emission order. Messages without text are skipped entirely: they are never
// placed in a group and never influence the state machine.
func (g *Grouper) Feed(msg domain.Message) []domain.MessageGroup {
	if msg.Text == "" {
		return nil
	}

	mk, ok := marker.Detect(msg.Text)
	if !ok {
		// Plain message: an open series is cut short, the message stands alone.
		var emitted []domain.MessageGroup
		emitted = g.closeCurrent(emitted)
		emitted = append(emitted, domain.MessageGroup{Messages: []domain.Message{msg}})
		g.reset()
		return emitted
	}

	switch {
	case mk.Index == 1:
		var emitted []domain.MessageGroup
		emitted = g.closeCurrent(emitted)
		g.current = []domain.Message{msg}
		if mk.Total > 1 {
			g.expecting = true
			g.expectedNext = 2
			g.expectedTotal = mk.Total
		} else {
			// A 1/1 series is equivalent to an unmarked message.
			emitted = append(emitted, domain.MessageGroup{Messages: g.current})
			g.current = nil
			g.reset()
		}
		return emitted

	case g.expecting && mk.Index == g.expectedNext && mk.Total == g.expectedTotal:
		g.current = append(g.current, msg)
		g.expectedNext++
		if mk.Index == mk.Total {
			emitted := []domain.MessageGroup{{Messages: g.current}}
			g.current = nil
			g.reset()
			return emitted
		}
		return nil

	default:
		// Broken sequence: the open group is emitted incomplete and the
		// out-of-order message becomes a singleton.
		var emitted []domain.MessageGroup
		emitted = g.closeCurrent(emitted)
		emitted = append(emitted, domain.MessageGroup{Messages: []domain.Message{msg}})
		g.reset()
		return emitted
	}
}

// Flush emits the open group, if any. Call it once at end of stream; the
// emitted group may be an incomplete series.
func (g *Grouper) Flush() []domain.MessageGroup {
	var emitted []domain.MessageGroup
	emitted = g.closeCurrent(emitted)
	g.reset()
	return emitted
}

// Group runs a complete message slice through a fresh state machine and
// returns all emitted groups.
func Group(msgs []domain.Message) []domain.MessageGroup {
	g := New()
	var groups []domain.MessageGroup
	for _, msg := range msgs {
		groups = append(groups, g.Feed(msg)...)
	}
	return append(groups, g.Flush()...)
}

func (g *Grouper) closeCurrent(emitted []domain.MessageGroup) []domain.MessageGroup {
	if len(g.current) > 0 {
		emitted = append(emitted, domain.MessageGroup{Messages: g.current})
		g.current = nil
	}
	return emitted
}

func (g *Grouper) reset() {
	g.expecting = false
	g.expectedNext = 1
	g.expectedTotal = 1
}
