package sdk

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// PushMessage is a server-pushed message for a watched conversation
type PushMessage struct {
	ConversationId string       `json:"conversation_id"`
	Message        *MessageInfo `json:"message"`
}

// WSClient is a live connection to the messaging gateway. Callbacks run on
// the read goroutine; handlers must not block.
type WSClient struct {
	conn    *websocket.Conn
	mu      sync.Mutex
	closed  bool
	pending sync.Map // msgIncr -> chan *wsEnvelope

	// OnMessage is invoked for each pushed message of a watched conversation
	OnMessage func(*PushMessage)
	// OnInboxChanged is invoked when the caller's inbox may have changed
	OnInboxChanged func()
	// OnClose is invoked once when the connection ends
	OnClose func(error)

	closeOnce sync.Once
	userId    string
}

type wsEnvelope struct {
	ReqIdentifier int32           `json:"req_identifier"`
	MsgIncr       string          `json:"msg_incr"`
	OperationId   string          `json:"operation_id"`
	SendId        string          `json:"send_id,omitempty"`
	ErrCode       int             `json:"err_code,omitempty"`
	ErrMsg        string          `json:"err_msg,omitempty"`
	Data          json.RawMessage `json:"data,omitempty"`
}

// DialWS connects to the gateway's websocket endpoint
func DialWS(baseWSURL, token, userId string) (*WSClient, error) {
	u, err := url.Parse(baseWSURL)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	q.Set("send_id", userId)
	q.Set("sdk_type", "go")
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial websocket: %w", err)
	}

	c := &WSClient{conn: conn, userId: userId}
	go c.readLoop()
	return c, nil
}

func (c *WSClient) readLoop() {
	var readErr error
	defer func() {
		c.closeOnce.Do(func() {
			c.mu.Lock()
			c.closed = true
			c.mu.Unlock()
			c.conn.Close()
			if c.OnClose != nil {
				c.OnClose(readErr)
			}
		})
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			readErr = err
			return
		}

		var env wsEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}

		switch env.ReqIdentifier {
		case WSPushMsg:
			if c.OnMessage != nil {
				var push PushMessage
				if err := json.Unmarshal(env.Data, &push); err == nil {
					c.OnMessage(&push)
				}
			}
		case WSInboxChanged:
			if c.OnInboxChanged != nil {
				c.OnInboxChanged()
			}
		case WSKickOnline:
			readErr = fmt.Errorf("kicked by server")
			return
		default:
			// Reply to an in-flight call
			if ch, ok := c.pending.LoadAndDelete(env.MsgIncr); ok {
				ch.(chan *wsEnvelope) <- &env
			}
		}
	}
}

// call sends a request and waits for its matching reply
func (c *WSClient) call(reqIdentifier int32, payload interface{}, result interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msgIncr := uuid.New().String()
	env := wsEnvelope{
		ReqIdentifier: reqIdentifier,
		MsgIncr:       msgIncr,
		OperationId:   uuid.New().String(),
		SendId:        c.userId,
		Data:          data,
	}

	raw, err := json.Marshal(&env)
	if err != nil {
		return err
	}

	ch := make(chan *wsEnvelope, 1)
	c.pending.Store(msgIncr, ch)
	defer c.pending.Delete(msgIncr)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("connection closed")
	}
	err = c.conn.WriteMessage(websocket.TextMessage, raw)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	select {
	case reply := <-ch:
		if reply.ErrCode != 0 {
			return NewError(reply.ErrCode, reply.ErrMsg)
		}
		if result != nil && len(reply.Data) > 0 {
			return json.Unmarshal(reply.Data, result)
		}
		return nil
	case <-time.After(30 * time.Second):
		return fmt.Errorf("request timed out")
	}
}

// WatchConversation starts receiving pushes for a conversation's messages
func (c *WSClient) WatchConversation(conversationId string) error {
	return c.call(WSWatchConv, map[string]string{"conversation_id": conversationId}, nil)
}

// UnwatchConversation stops receiving pushes for a conversation
func (c *WSClient) UnwatchConversation(conversationId string) error {
	return c.call(WSUnwatchConv, map[string]string{"conversation_id": conversationId}, nil)
}

// WatchInbox starts receiving inbox-changed nudges
func (c *WSClient) WatchInbox() error {
	return c.call(WSWatchInbox, struct{}{}, nil)
}

// UnwatchInbox stops receiving inbox-changed nudges
func (c *WSClient) UnwatchInbox() error {
	return c.call(WSUnwatchInbox, struct{}{}, nil)
}

// SendText sends a text message over the websocket connection
func (c *WSClient) SendText(conversationId, body string) (*SendMessageResponse, error) {
	var result SendMessageResponse
	err := c.call(WSSendMsg, &SendMessageRequest{
		ConversationId: conversationId,
		ClientMsgId:    uuid.New().String(),
		Body:           body,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// MarkRead advances the caller's read state over the websocket connection
func (c *WSClient) MarkRead(conversationId string) error {
	return c.call(WSMarkRead, map[string]string{"conversation_id": conversationId}, nil)
}

// Close closes the connection
func (c *WSClient) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return c.conn.Close()
}
