package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KennedyWusunanwa/gida-sub000/internal/entity"
)

func TestLatestPerConv(t *testing.T) {
	messages := []*entity.Message{
		// Concurrent sends can commit with id order inverted relative to
		// their server-assigned timestamps; sent_at must win.
		{Id: 10, ConversationId: "dm_alice:bob", SentAt: 2000, Body: "older id, newer time"},
		{Id: 11, ConversationId: "dm_alice:bob", SentAt: 1500, Body: "newer id, older time"},
		// Same millisecond: the id breaks the tie, matching history order.
		{Id: 20, ConversationId: "sp_alice", SentAt: 3000, Body: "first"},
		{Id: 21, ConversationId: "sp_alice", SentAt: 3000, Body: "second"},
	}

	latest := latestPerConv(messages)
	require.Len(t, latest, 2)

	assert.Equal(t, int64(10), latest["dm_alice:bob"].Id)
	assert.Equal(t, int64(2000), latest["dm_alice:bob"].SentAt)
	assert.Equal(t, int64(21), latest["sp_alice"].Id)
}

func TestLatestPerConv_Empty(t *testing.T) {
	assert.Empty(t, latestPerConv(nil))
}
