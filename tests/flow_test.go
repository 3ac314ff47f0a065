package tests

import (
	"testing"
	"time"
)

// TestFlow_ReadStateLifecycle walks one conversation through the unread
// lifecycle: fresh message leaves it read for the sender, mark_read keeps
// it read, and history plus inbox stay consistent throughout.
func TestFlow_ReadStateLifecycle(t *testing.T) {
	userId := generateUserId("flow_user")
	client := NewAuthedClient(t, userId)
	convId := ensureSupportConversation(t, client)

	findConv := func(t *testing.T) *ConversationInfo {
		t.Helper()
		resp, err := client.GET("/conversation/list")
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		AssertSuccess(t, resp)

		var convs []ConversationInfo
		if err := resp.ParseData(&convs); err != nil {
			t.Fatalf("parse conversations: %v", err)
		}
		for i := range convs {
			if convs[i].ConversationId == convId {
				return &convs[i]
			}
		}
		t.Fatalf("conversation %s not in inbox", convId)
		return nil
	}

	// Empty conversation carries no unread flag
	if conv := findConv(t); conv.HasUnread {
		t.Error("empty conversation should not be unread")
	}

	// The sender's own message does not mark their inbox unread
	resp, err := client.POST("/msg/send", map[string]string{
		"conversation_id": convId,
		"client_msg_id":   generateClientMsgId(),
		"body":            "first message",
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	AssertSuccess(t, resp)

	conv := findConv(t)
	if conv.HasUnread {
		t.Error("own message should not show as unread to its sender")
	}
	if conv.LastMessageBody != "first message" {
		t.Errorf("unexpected last message: %s", conv.LastMessageBody)
	}

	// Mark read is idempotent and keeps the flag cleared
	time.Sleep(10 * time.Millisecond)
	for i := 0; i < 2; i++ {
		resp, err := client.POST("/conversation/mark_read", map[string]string{
			"conversation_id": convId,
		})
		if err != nil {
			t.Fatalf("mark read failed: %v", err)
		}
		AssertSuccess(t, resp)
	}

	if conv := findConv(t); conv.HasUnread {
		t.Error("conversation should stay read after mark_read")
	}
}
