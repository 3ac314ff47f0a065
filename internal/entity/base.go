package entity

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/KennedyWusunanwa/gida-sub000/pkg/constant"
)

// NowUnixMilli returns current unix timestamp in milliseconds
func NowUnixMilli() int64 {
	return time.Now().UnixMilli()
}

// ListingConversationKey derives the conversation key for a user_host
// conversation. The key is a pure function of the listing and the unordered
// identity pair, so concurrent first contacts between the same pair converge
// on one row under the unique index.
// Format: lh_{listingId}:{min(userA,userB)}:{max(userA,userB)}
// Uses ":" as separator to support ids containing "_".
func ListingConversationKey(listingId, userA, userB string) string {
	users := []string{userA, userB}
	sort.Strings(users)
	return fmt.Sprintf("%s%s:%s:%s", constant.ListingConversationPrefix, listingId, users[0], users[1])
}

// DirectConversationKey derives the conversation key for a 1:1 conversation,
// independent of any listing.
// Format: dm_{min(userA,userB)}:{max(userA,userB)}
func DirectConversationKey(userA, userB string) string {
	users := []string{userA, userB}
	sort.Strings(users)
	return fmt.Sprintf("%s%s:%s", constant.DirectConversationPrefix, users[0], users[1])
}

// SupportConversationKey derives the conversation key for a user's support
// conversation. One per user.
// Format: sp_{userId}
func SupportConversationKey(userId string) string {
	return fmt.Sprintf("%s%s", constant.SupportConversationPrefix, userId)
}

// IsListingConversation checks if a conversation key is listing-scoped
func IsListingConversation(conversationId string) bool {
	return strings.HasPrefix(conversationId, constant.ListingConversationPrefix)
}

// IsDirectConversation checks if a conversation key is a 1:1 conversation
func IsDirectConversation(conversationId string) bool {
	return strings.HasPrefix(conversationId, constant.DirectConversationPrefix)
}

// IsSupportConversation checks if a conversation key is a support conversation
func IsSupportConversation(conversationId string) bool {
	return strings.HasPrefix(conversationId, constant.SupportConversationPrefix)
}
