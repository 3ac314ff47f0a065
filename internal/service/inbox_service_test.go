package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KennedyWusunanwa/gida-sub000/internal/entity"
	"github.com/KennedyWusunanwa/gida-sub000/pkg/constant"
)

func int64Ptr(v int64) *int64 { return &v }

func TestComposeInbox(t *testing.T) {
	convs := []*entity.Conversation{
		{ConversationId: "lh_l1:alice:bob", Type: constant.ConvTypeUserHost, ListingId: "l1", CreatedAt: 300},
		{ConversationId: "dm_alice:carol", Type: constant.ConvTypeDirect, CreatedAt: 200},
		{ConversationId: "sp_alice", Type: constant.ConvTypeSupport, CreatedAt: 100},
	}
	participants := []*entity.Participant{
		{ConversationId: "lh_l1:alice:bob", UserId: "alice", LastReadAt: int64Ptr(1000)},
		{ConversationId: "lh_l1:alice:bob", UserId: "bob"},
		{ConversationId: "dm_alice:carol", UserId: "alice"},
		{ConversationId: "dm_alice:carol", UserId: "carol"},
		{ConversationId: "sp_alice", UserId: "alice", LastReadAt: int64Ptr(5000)},
		{ConversationId: "sp_alice", UserId: "support"},
	}
	latest := map[string]*entity.Message{
		"lh_l1:alice:bob": {Id: 1, ConversationId: "lh_l1:alice:bob", SenderId: "bob", Body: "is it available?", SentAt: 1500},
		"sp_alice":        {Id: 2, ConversationId: "sp_alice", SenderId: "support", Body: "how can we help?", SentAt: 4000},
	}
	listings := map[string]*entity.Listing{
		"l1": {Id: "l1", HostId: "bob", Title: "Sunny room near campus"},
	}
	profiles := map[string]*entity.Profile{
		"bob":   {Id: "bob", FullName: "Bob Host", AvatarUrl: "https://cdn/bob.png"},
		"carol": {Id: "carol", FullName: "Carol"},
	}

	infos := composeInbox("alice", "support", convs, participants, latest, listings, profiles)
	require.Len(t, infos, 3)

	// Order follows convs (created_at DESC comes from the query)
	listing := infos[0]
	assert.Equal(t, "lh_l1:alice:bob", listing.ConversationId)
	assert.Equal(t, "l1", listing.ListingId)
	assert.Equal(t, "Sunny room near campus", listing.ListingTitle)
	assert.Equal(t, "bob", listing.OtherUserId)
	assert.Equal(t, "Bob Host", listing.OtherName)
	assert.Equal(t, "https://cdn/bob.png", listing.OtherAvatarUrl)
	assert.Equal(t, "is it available?", listing.LastMessageBody)
	assert.Equal(t, int64(1500), listing.LastMessageAt)
	assert.True(t, listing.HasUnread, "message at 1500 is after read at 1000")

	direct := infos[1]
	assert.Equal(t, "carol", direct.OtherUserId)
	assert.Equal(t, "Carol", direct.OtherName)
	assert.False(t, direct.HasUnread, "no messages yet")
	assert.Zero(t, direct.LastMessageAt)

	support := infos[2]
	assert.Equal(t, "support", support.OtherUserId)
	assert.Equal(t, constant.SupportDisplayName, support.OtherName)
	assert.False(t, support.HasUnread, "read at 5000 covers message at 4000")
}

func TestComposeInbox_NeverReadConversationIsUnread(t *testing.T) {
	convs := []*entity.Conversation{
		{ConversationId: "dm_alice:bob", Type: constant.ConvTypeDirect, CreatedAt: 100},
	}
	participants := []*entity.Participant{
		{ConversationId: "dm_alice:bob", UserId: "alice"},
		{ConversationId: "dm_alice:bob", UserId: "bob"},
	}
	latest := map[string]*entity.Message{
		"dm_alice:bob": {Id: 1, ConversationId: "dm_alice:bob", SenderId: "bob", Body: "hi", SentAt: 50},
	}

	infos := composeInbox("alice", "support", convs, participants, latest, nil, nil)
	require.Len(t, infos, 1)
	assert.True(t, infos[0].HasUnread)
}

func TestComposeInbox_NoOtherPartyFallsBackToSupportLabel(t *testing.T) {
	convs := []*entity.Conversation{
		{ConversationId: "lh_l1:alice:bob", Type: constant.ConvTypeUserHost, ListingId: "l1", CreatedAt: 100},
	}
	// Anomalous row: only the viewer is left as a participant.
	participants := []*entity.Participant{
		{ConversationId: "lh_l1:alice:bob", UserId: "alice"},
	}

	infos := composeInbox("alice", "support", convs, participants, nil, nil, nil)
	require.Len(t, infos, 1)
	assert.Equal(t, "", infos[0].OtherUserId)
	assert.Equal(t, constant.SupportDisplayName, infos[0].OtherName)
}

func TestComposeInbox_MissingProfileFallsBackToEmptyName(t *testing.T) {
	convs := []*entity.Conversation{
		{ConversationId: "dm_alice:bob", Type: constant.ConvTypeDirect, CreatedAt: 100},
	}
	participants := []*entity.Participant{
		{ConversationId: "dm_alice:bob", UserId: "alice"},
		{ConversationId: "dm_alice:bob", UserId: "bob"},
	}

	infos := composeInbox("alice", "support", convs, participants, nil, nil, nil)
	require.Len(t, infos, 1)
	assert.Equal(t, "bob", infos[0].OtherUserId)
	assert.Equal(t, "", infos[0].OtherName)
}
