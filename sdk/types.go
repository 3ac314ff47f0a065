package sdk

// Response is the API response envelope
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// EnsureListingRequest requests find-or-create of a listing conversation
type EnsureListingRequest struct {
	ListingId string `json:"listing_id"`
	HostId    string `json:"host_id"`
}

// EnsureDirectRequest requests find-or-create of a 1:1 conversation
type EnsureDirectRequest struct {
	OtherUserId string `json:"other_user_id"`
}

// EnsureResponse carries the resolved conversation id
type EnsureResponse struct {
	ConversationId string `json:"conversation_id"`
}

// SendMessageRequest requests appending a message
type SendMessageRequest struct {
	ConversationId string `json:"conversation_id"`
	ClientMsgId    string `json:"client_msg_id"`
	Body           string `json:"body"`
}

// SendMessageResponse carries the appended message's identity
type SendMessageResponse struct {
	ServerMsgId    int64  `json:"server_msg_id"`
	ConversationId string `json:"conversation_id"`
	ClientMsgId    string `json:"client_msg_id"`
	SentAt         int64  `json:"sent_at"`
}

// MessageInfo is one message with sender display attributes
type MessageInfo struct {
	Id              int64  `json:"id"`
	ConversationId  string `json:"conversation_id"`
	ClientMsgId     string `json:"client_msg_id,omitempty"`
	SenderId        string `json:"sender_id"`
	SenderName      string `json:"sender_name,omitempty"`
	SenderAvatarUrl string `json:"sender_avatar_url,omitempty"`
	Body            string `json:"body"`
	SentAt          int64  `json:"sent_at"`
}

// HistoryResponse carries a conversation's messages
type HistoryResponse struct {
	Messages []*MessageInfo `json:"messages"`
}

// ConversationInfo is one inbox entry
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

// MarkReadRequest requests advancing the caller's read state
type MarkReadRequest struct {
	ConversationId string `json:"conversation_id"`
}
