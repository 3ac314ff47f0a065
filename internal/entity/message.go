package entity

// Message represents one unit of communication. Append-only: never mutated
// or deleted once created. SentAt is server-assigned; (sent_at, id) is the
// total order within a conversation.
type Message struct {
	Id             int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ConversationId string `json:"conversation_id" gorm:"column:conversation_id;index:idx_conv_sent"`
	ClientMsgId    string `json:"client_msg_id" gorm:"column:client_msg_id"`
	SenderId       string `json:"sender_id" gorm:"column:sender_id"`
	Body           string `json:"body" gorm:"column:body;type:text"`
	SentAt         int64  `json:"sent_at" gorm:"column:sent_at;index:idx_conv_sent"`
	CreatedAt      int64  `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the table name for Message
func (Message) TableName() string {
	return "messages"
}

// MessageInfo represents message info for API responses and feed events,
// hydrated with the sender's display attributes.
type MessageInfo struct {
	Id              int64  `json:"id"`
	ConversationId  string `json:"conversation_id"`
	ClientMsgId     string `json:"client_msg_id"`
	SenderId        string `json:"sender_id"`
	SenderName      string `json:"sender_name,omitempty"`
	SenderAvatarUrl string `json:"sender_avatar_url,omitempty"`
	Body            string `json:"body"`
	SentAt          int64  `json:"sent_at"`
}

// ToMessageInfo converts Message to MessageInfo without sender hydration
func (m *Message) ToMessageInfo() *MessageInfo {
	return &MessageInfo{
		Id:             m.Id,
		ConversationId: m.ConversationId,
		ClientMsgId:    m.ClientMsgId,
		SenderId:       m.SenderId,
		Body:           m.Body,
		SentAt:         m.SentAt,
	}
}
