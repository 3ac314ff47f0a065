package gateway

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/mbeoliero/kit/log"

	"github.com/KennedyWusunanwa/gida-sub000/internal/feed"
)

// Client represents a connected WebSocket client. Each client owns its feed
// subscriptions: one per watched conversation plus at most one inbox watch.
// Every subscription has a forward goroutine pumping events into the write
// channel; closing the subscription closes its event channel and ends the
// goroutine, so teardown is a matter of closing everything exactly once.
type Client struct {
	mu        sync.Mutex
	conn      ClientConn
	UserId    string
	SDKType   string
	ConnId    string
	server    *WsServer
	closed    atomic.Bool
	closedErr error
	ctx       context.Context
	cancel    context.CancelFunc

	watchMu  sync.Mutex
	watches  map[string]*feed.Subscription // conversationId -> subscription
	inboxSub *feed.Subscription
}

// NewClient creates a new client
func NewClient(conn ClientConn, userId, sdkType, connId string, server *WsServer) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		conn:    conn,
		UserId:  userId,
		SDKType: sdkType,
		ConnId:  connId,
		server:  server,
		ctx:     ctx,
		cancel:  cancel,
		watches: make(map[string]*feed.Subscription),
	}
}

// Start starts the client message handling
func (c *Client) Start() {
	go c.readLoop()
}

// readLoop continuously reads messages from the connection
func (c *Client) readLoop() {
	defer func() {
		if r := recover(); r != nil {
			c.closedErr = ErrPanic
			log.CtxError(c.ctx, "client read loop panic: user_id=%s, error=%v", c.UserId, r)
		}
		c.close()
	}()

	for {
		message, err := c.conn.ReadMessage()
		if err != nil {
			log.CtxDebug(c.ctx, "read message error: user_id=%s, error=%v", c.UserId, err)
			c.closedErr = err
			return
		}

		if c.closed.Load() {
			c.closedErr = ErrConnClosed
			return
		}

		if err := c.handleMessage(message); err != nil {
			log.CtxWarn(c.ctx, "handle message error: user_id=%s, error=%v", c.UserId, err)
			c.closedErr = err
			return
		}

		// Inbound traffic refreshes the presence TTL
		c.server.userMap.RefreshOnlineStatus(c.ctx, c.UserId)
	}
}

// handleMessage handles a single incoming message
func (c *Client) handleMessage(message []byte) error {
	var req WSRequest
	if err := json.Unmarshal(message, &req); err != nil {
		return c.replyError(&req, ErrInvalidProtocol)
	}

	// Validate sender Id matches authenticated user
	if req.SendId != "" && req.SendId != c.UserId {
		return c.replyError(&req, ErrUserIdMismatch)
	}

	log.CtxDebug(c.ctx, "received message: req_identifier=%d, user_id=%s", req.ReqIdentifier, c.UserId)

	var resp []byte
	var err error

	switch req.ReqIdentifier {
	case WSSendMsg:
		resp, err = c.server.HandleSendMsg(c.ctx, c, &req)
	case WSPullHistory:
		resp, err = c.server.HandlePullHistory(c.ctx, c, &req)
	case WSMarkRead:
		resp, err = c.server.HandleMarkRead(c.ctx, c, &req)
	case WSWatchConv:
		resp, err = c.server.HandleWatchConv(c.ctx, c, &req)
	case WSUnwatchConv:
		resp, err = c.server.HandleUnwatchConv(c.ctx, c, &req)
	case WSWatchInbox:
		resp, err = c.server.HandleWatchInbox(c.ctx, c, &req)
	case WSUnwatchInbox:
		resp, err = c.server.HandleUnwatchInbox(c.ctx, c, &req)
	default:
		return c.replyError(&req, ErrInvalidProtocol)
	}

	return c.reply(&req, err, resp)
}

// reply sends a response to the client
func (c *Client) reply(req *WSRequest, err error, data []byte) error {
	resp := WSResponse{
		ReqIdentifier: req.ReqIdentifier,
		MsgIncr:       req.MsgIncr,
		OperationId:   req.OperationId,
		Data:          data,
	}

	if err != nil {
		resp.ErrCode = 1
		resp.ErrMsg = err.Error()
	}

	return c.writeResponse(resp)
}

// replyError sends an error response
func (c *Client) replyError(req *WSRequest, err error) error {
	resp := WSResponse{
		ReqIdentifier: req.ReqIdentifier,
		MsgIncr:       req.MsgIncr,
		OperationId:   req.OperationId,
		ErrCode:       1,
		ErrMsg:        err.Error(),
	}
	return c.writeResponse(resp)
}

// writeResponse writes a response to the connection
func (c *Client) writeResponse(resp WSResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return nil
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	return c.conn.WriteMessage(data)
}

// WatchConversation subscribes this connection to a conversation's feed.
// Watching an already watched conversation is a no-op, so a retried watch
// never causes duplicate delivery.
func (c *Client) WatchConversation(conversationId string) {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()

	// A watch racing Close must not register a subscription nothing will
	// release. Close sets closed before draining under watchMu, so either
	// the drain sees this entry or this check sees closed.
	if c.closed.Load() {
		return
	}
	if _, ok := c.watches[conversationId]; ok {
		return
	}

	sub := c.server.hub.Subscribe(conversationId)
	c.watches[conversationId] = sub
	go c.forwardMessages(sub)
}

// UnwatchConversation releases the conversation's subscription if present
func (c *Client) UnwatchConversation(conversationId string) {
	c.watchMu.Lock()
	sub, ok := c.watches[conversationId]
	if ok {
		delete(c.watches, conversationId)
	}
	c.watchMu.Unlock()

	if ok {
		sub.Close()
	}
}

// WatchInbox subscribes this connection to system-wide message inserts and
// forwards a coarse inbox-changed nudge for each. No-op when already watching.
func (c *Client) WatchInbox() {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()

	if c.closed.Load() {
		return
	}
	if c.inboxSub != nil {
		return
	}

	sub := c.server.hub.SubscribeAll()
	c.inboxSub = sub
	go c.forwardInboxChanges(sub)
}

// UnwatchInbox releases the inbox subscription if present
func (c *Client) UnwatchInbox() {
	c.watchMu.Lock()
	sub := c.inboxSub
	c.inboxSub = nil
	c.watchMu.Unlock()

	if sub != nil {
		sub.Close()
	}
}

// forwardMessages pumps conversation events to the peer until the
// subscription's channel is closed
func (c *Client) forwardMessages(sub *feed.Subscription) {
	for ev := range sub.Events() {
		if ev.Type != feed.EventMessageInsert || ev.Message == nil {
			continue
		}
		if err := c.PushMessage(ev.Message.ConversationId, ev); err != nil {
			log.CtxDebug(c.ctx, "push to client failed: user_id=%s, conn_id=%s, error=%v",
				c.UserId, c.ConnId, err)
		}
	}
}

// forwardInboxChanges pumps inbox-changed nudges to the peer. The nudge
// carries no payload; the peer refetches its inbox over the request path.
func (c *Client) forwardInboxChanges(sub *feed.Subscription) {
	for ev := range sub.Events() {
		if ev.Type != feed.EventMessageInsert {
			continue
		}
		resp := WSResponse{ReqIdentifier: WSInboxChanged}
		if err := c.writeResponse(resp); err != nil {
			log.CtxDebug(c.ctx, "inbox nudge failed: user_id=%s, conn_id=%s, error=%v",
				c.UserId, c.ConnId, err)
		}
	}
}

// PushMessage pushes a new message event to the client
func (c *Client) PushMessage(conversationId string, ev *feed.Event) error {
	if c.closed.Load() {
		return ErrConnClosed
	}

	data, err := json.Marshal(&PushMsgData{
		ConversationId: conversationId,
		Message:        ev.Message,
	})
	if err != nil {
		return err
	}

	return c.writeResponse(WSResponse{
		ReqIdentifier: WSPushMsg,
		Data:          data,
	})
}

// KickOnline sends kick message and closes connection
func (c *Client) KickOnline() error {
	resp := WSResponse{
		ReqIdentifier: WSKickOnline,
	}
	c.writeResponse(resp)
	return c.Close()
}

// Close closes the client connection and releases all feed subscriptions
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed.Load() {
		c.mu.Unlock()
		return nil
	}
	c.closed.Store(true)
	c.cancel()
	err := c.conn.Close()
	c.mu.Unlock()

	c.watchMu.Lock()
	watches := c.watches
	c.watches = make(map[string]*feed.Subscription)
	inboxSub := c.inboxSub
	c.inboxSub = nil
	c.watchMu.Unlock()

	for _, sub := range watches {
		sub.Close()
	}
	if inboxSub != nil {
		inboxSub.Close()
	}

	return err
}

// close handles cleanup when connection is closed
func (c *Client) close() {
	c.Close()
	c.server.UnregisterClient(c)
}
