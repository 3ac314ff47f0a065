package gateway

import (
	"encoding/json"

	"github.com/KennedyWusunanwa/gida-sub000/internal/entity"
)

// WSRequest represents a WebSocket request message. Data holds the business
// payload as raw JSON so it travels inline, not base64-encoded.
type WSRequest struct {
	ReqIdentifier int32           `json:"req_identifier"` // Request type
	MsgIncr       string          `json:"msg_incr"`       // Client message counter/trace Id
	OperationId   string          `json:"operation_id"`   // Operation Id
	SendId        string          `json:"send_id"`        // Sender user Id
	Data          json.RawMessage `json:"data"`           // Business data
}

// WSResponse represents a WebSocket response message
type WSResponse struct {
	ReqIdentifier int32           `json:"req_identifier"` // Request type (echo back)
	MsgIncr       string          `json:"msg_incr"`       // Message counter (echo back)
	OperationId   string          `json:"operation_id"`   // Operation Id (echo back)
	ErrCode       int             `json:"err_code"`       // Error code, 0 = success
	ErrMsg        string          `json:"err_msg"`        // Error message
	Data          json.RawMessage `json:"data,omitempty"` // Response data
}

// SendMsgReq represents send message request data
type SendMsgReq struct {
	ConversationId string `json:"conversation_id"`
	ClientMsgId    string `json:"client_msg_id"`
	Body           string `json:"body"`
}

// SendMsgResp represents send message response data
type SendMsgResp struct {
	ServerMsgId    int64  `json:"server_msg_id"`
	ConversationId string `json:"conversation_id"`
	ClientMsgId    string `json:"client_msg_id"`
	SentAt         int64  `json:"sent_at"`
}

// PullHistoryReq represents pull history request data
type PullHistoryReq struct {
	ConversationId string `json:"conversation_id"`
	Limit          int    `json:"limit"`
}

// PullHistoryResp represents pull history response data
type PullHistoryResp struct {
	Messages []*entity.MessageInfo `json:"messages"`
}

// MarkReadReq represents mark read request data
type MarkReadReq struct {
	ConversationId string `json:"conversation_id"`
}

// WatchConvReq represents a request to watch or unwatch a conversation
type WatchConvReq struct {
	ConversationId string `json:"conversation_id"`
}

// PushMsgData represents a pushed message
type PushMsgData struct {
	ConversationId string              `json:"conversation_id"`
	Message        *entity.MessageInfo `json:"message"`
}
