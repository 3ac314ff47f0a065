package tests

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket protocol identifiers mirrored from the server
const (
	WSSendMsg      = 1001
	WSMarkRead     = 1003
	WSWatchConv    = 1004
	WSUnwatchConv  = 1005
	WSWatchInbox   = 1006
	WSUnwatchInbox = 1007

	WSPushMsg      = 2001
	WSInboxChanged = 2002
)

type wsEnvelope struct {
	ReqIdentifier int32           `json:"req_identifier"`
	MsgIncr       string          `json:"msg_incr"`
	OperationId   string          `json:"operation_id"`
	SendId        string          `json:"send_id,omitempty"`
	ErrCode       int             `json:"err_code,omitempty"`
	ErrMsg        string          `json:"err_msg,omitempty"`
	Data          json.RawMessage `json:"data,omitempty"`
}

type wsTestConn struct {
	conn   *websocket.Conn
	userId string
	t      *testing.T
}

func dialWS(t *testing.T, userId string) *wsTestConn {
	t.Helper()

	wsURL := strings.Replace(testConfig.BaseURL, "http", "ws", 1) + "/ws"
	u, err := url.Parse(wsURL)
	if err != nil {
		t.Fatalf("parse ws url: %v", err)
	}
	q := u.Query()
	q.Set("token", MintToken(t, userId))
	q.Set("send_id", userId)
	q.Set("sdk_type", "go")
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return &wsTestConn{conn: conn, userId: userId, t: t}
}

func (c *wsTestConn) call(reqIdentifier int32, payload interface{}) *wsEnvelope {
	c.t.Helper()

	data, err := json.Marshal(payload)
	if err != nil {
		c.t.Fatalf("marshal payload: %v", err)
	}

	msgIncr := fmt.Sprintf("incr_%d", time.Now().UnixNano())
	env := wsEnvelope{
		ReqIdentifier: reqIdentifier,
		MsgIncr:       msgIncr,
		OperationId:   msgIncr,
		SendId:        c.userId,
		Data:          data,
	}
	raw, err := json.Marshal(&env)
	if err != nil {
		c.t.Fatalf("marshal envelope: %v", err)
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		c.t.Fatalf("write: %v", err)
	}

	// Pushes may interleave with the reply; skip until the reply arrives
	deadline := time.Now().Add(5 * time.Second)
	for {
		c.conn.SetReadDeadline(deadline)
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.t.Fatalf("read: %v", err)
		}
		var reply wsEnvelope
		if err := json.Unmarshal(data, &reply); err != nil {
			c.t.Fatalf("unmarshal reply: %v", err)
		}
		if reply.MsgIncr == msgIncr {
			return &reply
		}
	}
}

// waitFor reads frames until one matches reqIdentifier or the timeout hits
func (c *wsTestConn) waitFor(reqIdentifier int32, timeout time.Duration) (*wsEnvelope, bool) {
	c.t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		c.conn.SetReadDeadline(deadline)
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, false
		}
		var env wsEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		if env.ReqIdentifier == reqIdentifier {
			return &env, true
		}
	}
	return nil, false
}

func TestWebSocket_RejectsBadToken(t *testing.T) {
	wsURL := strings.Replace(testConfig.BaseURL, "http", "ws", 1) + "/ws"
	u, _ := url.Parse(wsURL)
	q := u.Query()
	q.Set("token", "garbage")
	q.Set("send_id", "anyone")
	u.RawQuery = q.Encode()

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err == nil {
		conn.Close()
		t.Fatal("expected dial with bad token to fail")
	}
	if resp != nil && resp.StatusCode != 401 {
		t.Errorf("expected status 401, got %d", resp.StatusCode)
	}
}

func TestWebSocket_WatchDeliversSentMessages(t *testing.T) {
	userId := generateUserId("ws_user")
	httpClient := NewAuthedClient(t, userId)
	convId := ensureSupportConversation(t, httpClient)

	watcher := dialWS(t, userId)
	reply := watcher.call(WSWatchConv, map[string]string{"conversation_id": convId})
	if reply.ErrCode != 0 {
		t.Fatalf("watch failed: %s", reply.ErrMsg)
	}

	// Send over HTTP; the watcher must receive the push
	resp, err := httpClient.POST("/msg/send", map[string]string{
		"conversation_id": convId,
		"client_msg_id":   generateClientMsgId(),
		"body":            "ping over the wire",
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	AssertSuccess(t, resp)

	push, ok := watcher.waitFor(WSPushMsg, 5*time.Second)
	if !ok {
		t.Fatal("no push received for watched conversation")
	}

	var pushed struct {
		ConversationId string       `json:"conversation_id"`
		Message        *MessageInfo `json:"message"`
	}
	if err := json.Unmarshal(push.Data, &pushed); err != nil {
		t.Fatalf("unmarshal push: %v", err)
	}
	if pushed.ConversationId != convId {
		t.Errorf("push for wrong conversation: %s", pushed.ConversationId)
	}
	if pushed.Message == nil || pushed.Message.Body != "ping over the wire" {
		t.Errorf("unexpected pushed message: %+v", pushed.Message)
	}
}

func TestWebSocket_WatchRequiresMembership(t *testing.T) {
	owner := NewAuthedClient(t, generateUserId("ws_owner"))
	convId := ensureSupportConversation(t, owner)

	intruder := dialWS(t, generateUserId("ws_intruder"))
	reply := intruder.call(WSWatchConv, map[string]string{"conversation_id": convId})
	if reply.ErrCode == 0 {
		t.Fatal("expected watch by non-participant to fail")
	}
}

func TestWebSocket_InboxNudgeOnNewMessage(t *testing.T) {
	userId := generateUserId("ws_inbox_user")
	httpClient := NewAuthedClient(t, userId)
	convId := ensureSupportConversation(t, httpClient)

	watcher := dialWS(t, userId)
	reply := watcher.call(WSWatchInbox, struct{}{})
	if reply.ErrCode != 0 {
		t.Fatalf("watch inbox failed: %s", reply.ErrMsg)
	}

	resp, err := httpClient.POST("/msg/send", map[string]string{
		"conversation_id": convId,
		"client_msg_id":   generateClientMsgId(),
		"body":            "nudge me",
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	AssertSuccess(t, resp)

	if _, ok := watcher.waitFor(WSInboxChanged, 5*time.Second); !ok {
		t.Fatal("no inbox nudge received")
	}
}

func TestWebSocket_SendOverSocket(t *testing.T) {
	userId := generateUserId("ws_send_user")
	httpClient := NewAuthedClient(t, userId)
	convId := ensureSupportConversation(t, httpClient)

	conn := dialWS(t, userId)
	reply := conn.call(WSSendMsg, map[string]string{
		"conversation_id": convId,
		"client_msg_id":   generateClientMsgId(),
		"body":            "sent via websocket",
	})
	if reply.ErrCode != 0 {
		t.Fatalf("ws send failed: %s", reply.ErrMsg)
	}

	var sent SendMessageResponse
	if err := json.Unmarshal(reply.Data, &sent); err != nil {
		t.Fatalf("unmarshal send reply: %v", err)
	}
	if sent.ServerMsgId == 0 {
		t.Error("expected server-assigned message id")
	}
}
