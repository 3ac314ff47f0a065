package entity

// Conversation represents a messaging thread. Rows are immutable once
// created and never deleted.
type Conversation struct {
	Id             int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ConversationId string `json:"conversation_id" gorm:"column:conversation_id;uniqueIndex"`
	Type           string `json:"type" gorm:"column:type"`
	ListingId      string `json:"listing_id,omitempty" gorm:"column:listing_id;index"`
	CreatedAt      int64  `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the table name for Conversation
func (Conversation) TableName() string {
	return "conversations"
}

// Participant links a conversation to an identity and carries that identity's
// read state. LastReadAt is nullable and only ever moves forward.
type Participant struct {
	Id             int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ConversationId string `json:"conversation_id" gorm:"column:conversation_id;uniqueIndex:uk_conv_user"`
	UserId         string `json:"user_id" gorm:"column:user_id;uniqueIndex:uk_conv_user;index"`
	LastReadAt     *int64 `json:"last_read_at" gorm:"column:last_read_at"`
	CreatedAt      int64  `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the table name for Participant
func (Participant) TableName() string {
	return "conversation_participants"
}

// HasUnread reports whether a participant with the given read state has
// unread messages. A missing last-read timestamp counts as never-read, so
// any message at all is unread.
func HasUnread(latestMessageAt int64, lastReadAt *int64) bool {
	if latestMessageAt == 0 {
		return false
	}
	if lastReadAt == nil {
		return true
	}
	return latestMessageAt > *lastReadAt
}

// ConversationInfo is one inbox entry: a conversation annotated with the
// other party's display attributes, recency and unread state.
type ConversationInfo struct {
	ConversationId  string `json:"conversation_id"`
	Type            string `json:"type"`
	ListingId       string `json:"listing_id,omitempty"`
	ListingTitle    string `json:"listing_title,omitempty"`
	OtherUserId     string `json:"other_user_id,omitempty"`
	OtherName       string `json:"other_name"`
	OtherAvatarUrl  string `json:"other_avatar_url,omitempty"`
	LastMessageAt   int64  `json:"last_message_at,omitempty"`
	LastMessageBody string `json:"last_message_body,omitempty"`
	HasUnread       bool   `json:"has_unread"`
	CreatedAt       int64  `json:"created_at"`
}
