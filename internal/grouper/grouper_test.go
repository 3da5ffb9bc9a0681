package grouper

import (
	"testing"

	"github.com/orgball2608/telegram-hugo-exporter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msg(id int, text string) domain.Message {
	return domain.Message{ID: id, Text: text}
}

func texts(g domain.MessageGroup) []string {
	out := make([]string, 0, len(g.Messages))
	for _, m := range g.Messages {
		out = append(out, m.Text)
	}
	return out
}

func TestValidSeries(t *testing.T) {
	groups := Group([]domain.Message{
		msg(1, "Statement part one (1/3)"),
		msg(2, "part two (2/3)"),
		msg(3, "part three (3/3)"),
	})

	require.Len(t, groups, 1)
	assert.Equal(t, []string{
		"Statement part one (1/3)",
		"part two (2/3)",
		"part three (3/3)",
	}, texts(groups[0]))
}

func TestBrokenSequence(t *testing.T) {
	groups := Group([]domain.Message{
		msg(1, "part one (1/3)"),
		msg(2, "part three (3/3)"),
	})

	require.Len(t, groups, 2)
	assert.Equal(t, []string{"part one (1/3)"}, texts(groups[0]))
	assert.Equal(t, []string{"part three (3/3)"}, texts(groups[1]))
}

func TestMismatchedTotalBreaksSeries(t *testing.T) {
	groups := Group([]domain.Message{
		msg(1, "part one (1/3)"),
		msg(2, "part two (2/4)"),
		msg(3, "part three (3/3)"),
	})

	require.Len(t, groups, 3)
	assert.Equal(t, []string{"part one (1/3)"}, texts(groups[0]))
	assert.Equal(t, []string{"part two (2/4)"}, texts(groups[1]))
	assert.Equal(t, []string{"part three (3/3)"}, texts(groups[2]))
}

func TestSingletonEquivalence(t *testing.T) {
	plain := Group([]domain.Message{msg(1, "Standalone statement")})
	marked := Group([]domain.Message{msg(1, "Standalone statement (1/1)")})

	require.Len(t, plain, 1)
	require.Len(t, marked, 1)
	assert.Len(t, plain[0].Messages, 1)
	assert.Len(t, marked[0].Messages, 1)
}

func TestEndOfStreamFlush(t *testing.T) {
	groups := Group([]domain.Message{
		msg(1, "part one (1/2)"),
	})

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"part one (1/2)"}, texts(groups[0]))
}

func TestNewSeriesStartClosesOpenGroup(t *testing.T) {
	groups := Group([]domain.Message{
		msg(1, "first series (1/2)"),
		msg(2, "second series (1/2)"),
		msg(3, "second series end (2/2)"),
	})

	require.Len(t, groups, 2)
	assert.Equal(t, []string{"first series (1/2)"}, texts(groups[0]))
	assert.Equal(t, []string{"second series (1/2)", "second series end (2/2)"}, texts(groups[1]))
}

func TestPlainMessageClosesOpenGroup(t *testing.T) {
	groups := Group([]domain.Message{
		msg(1, "series (1/2)"),
		msg(2, "unrelated standalone"),
		msg(3, "late part (2/2)"),
	})

	require.Len(t, groups, 3)
	assert.Equal(t, []string{"series (1/2)"}, texts(groups[0]))
	assert.Equal(t, []string{"unrelated standalone"}, texts(groups[1]))
	// 2/2 after the series was cut is out of sequence, so it stands alone.
	assert.Equal(t, []string{"late part (2/2)"}, texts(groups[2]))
}

func TestEmptyTextSkipped(t *testing.T) {
	groups := Group([]domain.Message{
		msg(1, "series (1/2)"),
		msg(2, ""),
		msg(3, "series end (2/2)"),
	})

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"series (1/2)", "series end (2/2)"}, texts(groups[0]))
}

func TestEmissionOrderFollowsArrival(t *testing.T) {
	groups := Group([]domain.Message{
		msg(1, "first"),
		msg(2, "second (1/2)"),
		msg(3, "second continued (2/2)"),
		msg(4, "third"),
	})

	require.Len(t, groups, 3)
	assert.Equal(t, 1, groups[0].FirstID())
	assert.Equal(t, 2, groups[1].FirstID())
	assert.Equal(t, 4, groups[2].FirstID())
}

func TestStreamingFeedEmitsIncrementally(t *testing.T) {
	g := New()

	assert.Empty(t, g.Feed(msg(1, "part one (1/2)")))
	done := g.Feed(msg(2, "part two (2/2)"))
	require.Len(t, done, 1)
	assert.Len(t, done[0].Messages, 2)
	assert.Empty(t, g.Flush())
}
