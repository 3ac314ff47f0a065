package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListingConversationKey(t *testing.T) {
	key := ListingConversationKey("listing1", "alice", "bob")

	assert.Equal(t, "lh_listing1:alice:bob", key)
	assert.True(t, IsListingConversation(key))
	assert.False(t, IsDirectConversation(key))
}

func TestListingConversationKey_OrderIndependent(t *testing.T) {
	k1 := ListingConversationKey("listing1", "alice", "bob")
	k2 := ListingConversationKey("listing1", "bob", "alice")

	assert.Equal(t, k1, k2)
}

func TestListingConversationKey_DistinctListings(t *testing.T) {
	k1 := ListingConversationKey("listing1", "alice", "bob")
	k2 := ListingConversationKey("listing2", "alice", "bob")

	assert.NotEqual(t, k1, k2)
}

func TestDirectConversationKey(t *testing.T) {
	k1 := DirectConversationKey("alice", "bob")
	k2 := DirectConversationKey("bob", "alice")

	assert.Equal(t, "dm_alice:bob", k1)
	assert.Equal(t, k1, k2)
	assert.True(t, IsDirectConversation(k1))
}

func TestDirectConversationKey_DistinctPairs(t *testing.T) {
	k1 := DirectConversationKey("alice", "bob")
	k2 := DirectConversationKey("alice", "carol")

	assert.NotEqual(t, k1, k2)
}

func TestSupportConversationKey(t *testing.T) {
	key := SupportConversationKey("alice")

	assert.Equal(t, "sp_alice", key)
	assert.True(t, IsSupportConversation(key))
	assert.False(t, IsListingConversation(key))
}
