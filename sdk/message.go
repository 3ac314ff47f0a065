package sdk

import (
	"context"
	"strconv"

	"github.com/google/uuid"
)

// SendMessage appends a message to a conversation
func (c *Client) SendMessage(ctx context.Context, req *SendMessageRequest) (*SendMessageResponse, error) {
	var result SendMessageResponse
	if err := c.post(ctx, "/msg/send", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SendText is a convenience method to send a text message. A fresh
// client_msg_id is generated so the server can deduplicate retries.
func (c *Client) SendText(ctx context.Context, conversationId, body string) (*SendMessageResponse, error) {
	return c.SendMessage(ctx, &SendMessageRequest{
		ConversationId: conversationId,
		ClientMsgId:    uuid.New().String(),
		Body:           body,
	})
}

// LoadHistory loads a conversation's messages oldest first
func (c *Client) LoadHistory(ctx context.Context, conversationId string, limit int) ([]*MessageInfo, error) {
	params := map[string]string{
		"conversation_id": conversationId,
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}

	var result HistoryResponse
	if err := c.get(ctx, "/msg/history", params, &result); err != nil {
		return nil, err
	}
	return result.Messages, nil
}
