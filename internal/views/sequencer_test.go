package views

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequencerOnlyLatestCommits(t *testing.T) {
	var s Sequencer
	first, firstCtx := s.Next(context.Background())
	second, _ := s.Next(context.Background())

	assert.False(t, first.Current())
	assert.True(t, second.Current())
	assert.ErrorIs(t, firstCtx.Err(), context.Canceled)

	committed := ""
	assert.False(t, first.Commit(func() { committed = "first" }))
	assert.True(t, second.Commit(func() { committed = "second" }))
	assert.Equal(t, "second", committed)
}

func TestTicketDoneReleasesContext(t *testing.T) {
	var s Sequencer
	ticket, ctx := s.Next(context.Background())
	ticket.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.True(t, ticket.Current())
}
