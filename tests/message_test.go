package tests

import (
	"fmt"
	"testing"
)

// SendMessageResponse carries the appended message's identity
type SendMessageResponse struct {
	ServerMsgId    int64  `json:"server_msg_id"`
	ConversationId string `json:"conversation_id"`
	ClientMsgId    string `json:"client_msg_id"`
	SentAt         int64  `json:"sent_at"`
}

// MessageInfo is one message with sender display attributes
type MessageInfo struct {
	Id             int64  `json:"id"`
	ConversationId string `json:"conversation_id"`
	ClientMsgId    string `json:"client_msg_id"`
	SenderId       string `json:"sender_id"`
	Body           string `json:"body"`
	SentAt         int64  `json:"sent_at"`
}

// HistoryResponse carries a conversation's messages
type HistoryResponse struct {
	Messages []*MessageInfo `json:"messages"`
}

// ensureSupportConversation creates the caller's support conversation and
// returns its id. Support conversations need no pre-provisioned profiles,
// which makes them the natural fixture for message tests.
func ensureSupportConversation(t *testing.T, client *APIClient) string {
	t.Helper()
	resp, err := client.POST("/conversation/ensure_support", struct{}{})
	if err != nil {
		t.Fatalf("ensure support failed: %v", err)
	}
	AssertSuccess(t, resp, "ensure support should succeed")

	var ensure EnsureResponse
	if err := resp.ParseData(&ensure); err != nil {
		t.Fatalf("parse ensure response: %v", err)
	}
	return ensure.ConversationId
}

func TestMessage_SendAndHistory(t *testing.T) {
	userId := generateUserId("msg_user")
	client := NewAuthedClient(t, userId)
	convId := ensureSupportConversation(t, client)

	clientMsgId := generateClientMsgId()
	resp, err := client.POST("/msg/send", map[string]string{
		"conversation_id": convId,
		"client_msg_id":   clientMsgId,
		"body":            "hello support",
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	AssertSuccess(t, resp, "send should succeed")

	var sent SendMessageResponse
	if err := resp.ParseData(&sent); err != nil {
		t.Fatalf("parse send response: %v", err)
	}
	if sent.ServerMsgId == 0 || sent.SentAt == 0 {
		t.Errorf("expected server-assigned id and timestamp, got %+v", sent)
	}

	t.Run("history contains the message", func(t *testing.T) {
		resp, err := client.GET(fmt.Sprintf("/msg/history?conversation_id=%s", convId))
		if err != nil {
			t.Fatalf("history failed: %v", err)
		}
		AssertSuccess(t, resp, "history should succeed")

		var history HistoryResponse
		if err := resp.ParseData(&history); err != nil {
			t.Fatalf("parse history: %v", err)
		}

		found := false
		for _, msg := range history.Messages {
			if msg.Id == sent.ServerMsgId {
				found = true
				if msg.Body != "hello support" {
					t.Errorf("unexpected body: %s", msg.Body)
				}
				if msg.SenderId != userId {
					t.Errorf("unexpected sender: %s", msg.SenderId)
				}
			}
		}
		if !found {
			t.Error("sent message not found in history")
		}
	})

	t.Run("resend with same client_msg_id is deduplicated", func(t *testing.T) {
		resp, err := client.POST("/msg/send", map[string]string{
			"conversation_id": convId,
			"client_msg_id":   clientMsgId,
			"body":            "hello support",
		})
		if err != nil {
			t.Fatalf("resend failed: %v", err)
		}
		AssertSuccess(t, resp, "resend should succeed")

		var resent SendMessageResponse
		if err := resp.ParseData(&resent); err != nil {
			t.Fatalf("parse resend response: %v", err)
		}
		if resent.ServerMsgId != sent.ServerMsgId {
			t.Errorf("expected same server_msg_id %d, got %d", sent.ServerMsgId, resent.ServerMsgId)
		}
	})
}

func TestMessage_HistoryIsOrdered(t *testing.T) {
	userId := generateUserId("order_user")
	client := NewAuthedClient(t, userId)
	convId := ensureSupportConversation(t, client)

	for i := 0; i < 3; i++ {
		resp, err := client.POST("/msg/send", map[string]string{
			"conversation_id": convId,
			"client_msg_id":   generateClientMsgId(),
			"body":            fmt.Sprintf("message %d", i),
		})
		if err != nil {
			t.Fatalf("send %d failed: %v", i, err)
		}
		AssertSuccess(t, resp)
	}

	resp, err := client.GET(fmt.Sprintf("/msg/history?conversation_id=%s", convId))
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	AssertSuccess(t, resp)

	var history HistoryResponse
	if err := resp.ParseData(&history); err != nil {
		t.Fatalf("parse history: %v", err)
	}
	if len(history.Messages) < 3 {
		t.Fatalf("expected at least 3 messages, got %d", len(history.Messages))
	}

	for i := 1; i < len(history.Messages); i++ {
		prev, cur := history.Messages[i-1], history.Messages[i]
		if cur.SentAt < prev.SentAt || (cur.SentAt == prev.SentAt && cur.Id < prev.Id) {
			t.Errorf("history out of order at %d: (%d,%d) before (%d,%d)",
				i, prev.SentAt, prev.Id, cur.SentAt, cur.Id)
		}
	}
}

func TestMessage_RejectsEmptyBody(t *testing.T) {
	userId := generateUserId("empty_user")
	client := NewAuthedClient(t, userId)
	convId := ensureSupportConversation(t, client)

	resp, err := client.POST("/msg/send", map[string]string{
		"conversation_id": convId,
		"client_msg_id":   generateClientMsgId(),
		"body":            "   ",
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	AssertError(t, resp, CodeEmptyBody, "whitespace-only body should be rejected")
}

func TestMessage_NonParticipantCannotSendOrRead(t *testing.T) {
	owner := NewAuthedClient(t, generateUserId("owner"))
	convId := ensureSupportConversation(t, owner)

	intruder := NewAuthedClient(t, generateUserId("intruder"))

	resp, err := intruder.POST("/msg/send", map[string]string{
		"conversation_id": convId,
		"client_msg_id":   generateClientMsgId(),
		"body":            "let me in",
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	AssertError(t, resp, CodeNotParticipant, "non-participant send should be rejected")

	resp, err = intruder.GET(fmt.Sprintf("/msg/history?conversation_id=%s", convId))
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	AssertError(t, resp, CodeNotParticipant, "non-participant history should be rejected")
}
