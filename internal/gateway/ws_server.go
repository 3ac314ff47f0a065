package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mbeoliero/kit/log"
	"github.com/redis/go-redis/v9"

	"github.com/KennedyWusunanwa/gida-sub000/internal/config"
	"github.com/KennedyWusunanwa/gida-sub000/internal/feed"
	"github.com/KennedyWusunanwa/gida-sub000/internal/observability"
	"github.com/KennedyWusunanwa/gida-sub000/internal/service"
	"github.com/KennedyWusunanwa/gida-sub000/pkg/errcode"
)

// WsServer is the WebSocket server. Delivery to peers goes through the feed
// hub: each client registers subscriptions for the conversations it watches
// and the hub fans appended messages out to them.
type WsServer struct {
	upgrader          *websocket.Upgrader
	cfg               *config.Config
	hub               *feed.Hub
	userMap           *UserMap
	registerChan      chan *Client
	unregisterChan    chan *Client
	msgService        *service.MessageService
	membershipService *service.MembershipService
	onlineUserNum     atomic.Int64
	onlineConnNum     atomic.Int64
	maxConnNum        int64
	maxConnPerUser    int
}

// NewWsServer creates a new WebSocket server
func NewWsServer(cfg *config.Config, rdb *redis.Client, hub *feed.Hub, msgService *service.MessageService, membershipService *service.MembershipService) *WsServer {
	eventChanSize := cfg.WebSocket.EventChannelSize
	if eventChanSize <= 0 {
		eventChanSize = 256
	}

	upgrader := &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	return &WsServer{
		upgrader:          upgrader,
		cfg:               cfg,
		hub:               hub,
		userMap:           NewUserMap(rdb),
		registerChan:      make(chan *Client, eventChanSize),
		unregisterChan:    make(chan *Client, eventChanSize),
		msgService:        msgService,
		membershipService: membershipService,
		maxConnNum:        cfg.WebSocket.MaxConnNum,
		maxConnPerUser:    cfg.WebSocket.MaxConnPerUser,
	}
}

// Run starts the WebSocket server
func (s *WsServer) Run(ctx context.Context) {
	go s.eventLoop(ctx)
}

// eventLoop handles client registration and unregistration
func (s *WsServer) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-s.registerChan:
			s.registerClient(ctx, client)
		case client := <-s.unregisterChan:
			s.unregisterClient(ctx, client)
		}
	}
}

// registerClient registers a client
func (s *WsServer) registerClient(ctx context.Context, client *Client) {
	existingClients, exists := s.userMap.GetAll(client.UserId)
	if !exists {
		s.onlineUserNum.Add(1)
	} else if s.maxConnPerUser > 0 && len(existingClients) >= s.maxConnPerUser {
		// The oldest connection gives way; its read loop unregisters it.
		oldest := existingClients[0]
		log.CtxWarn(ctx, "per-user connection cap reached, kicking: user_id=%s, conn_id=%s",
			client.UserId, oldest.ConnId)
		_ = oldest.KickOnline()
	}

	s.userMap.Register(ctx, client)
	s.onlineConnNum.Add(1)
	observability.IncWSActive()

	log.CtxInfo(ctx, "client registered: user_id=%s, conn_id=%s, existing_conns=%d, online_users=%d, online_conns=%d",
		client.UserId, client.ConnId, len(existingClients), s.onlineUserNum.Load(), s.onlineConnNum.Load())
}

// unregisterClient unregisters a client
func (s *WsServer) unregisterClient(ctx context.Context, client *Client) {
	isUserOffline := s.userMap.Unregister(ctx, client)
	s.onlineConnNum.Add(-1)
	observability.DecWSActive()

	if isUserOffline {
		s.onlineUserNum.Add(-1)
	}

	log.CtxInfo(ctx, "client unregistered: user_id=%s, conn_id=%s, user_offline=%v, online_users=%d, online_conns=%d",
		client.UserId, client.ConnId, isUserOffline, s.onlineUserNum.Load(), s.onlineConnNum.Load())
}

// UnregisterClient queues client for unregistration
func (s *WsServer) UnregisterClient(client *Client) {
	select {
	case s.unregisterChan <- client:
	default:
		log.Warn("unregister channel full: user_id=%s", client.UserId)
	}
}

// HandleConnection handles a WebSocket connection over net/http. Used when
// the gateway runs behind a plain http mux instead of Hertz.
func (s *WsServer) HandleConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if s.onlineConnNum.Load() >= s.maxConnNum {
		http.Error(w, "connection limit exceeded", http.StatusServiceUnavailable)
		return
	}

	token := r.URL.Query().Get(QueryToken)
	sendId := r.URL.Query().Get(QuerySendId)
	sdkType := r.URL.Query().Get(QuerySDKType)

	if token == "" || sendId == "" {
		http.Error(w, "missing required parameters", http.StatusBadRequest)
		return
	}

	userId, err := s.authenticate(token, sendId)
	if err != nil {
		log.CtxDebug(ctx, "token validation failed: send_id=%s, error=%v", sendId, err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.CtxWarn(ctx, "websocket upgrade failed: %v", err)
		return
	}

	connId := uuid.New().String()
	wsConn := NewWebSocketClientConn(conn,
		s.cfg.WebSocket.MaxMessageSize,
		s.cfg.WebSocket.WriteChannelSize,
		s.cfg.WebSocket.PongWait,
		s.cfg.WebSocket.PingPeriod)
	client := NewClient(wsConn, userId, sdkType, connId, s)

	s.registerChan <- client
	client.Start()
}

// GetOnlineUserCount returns online user count
func (s *WsServer) GetOnlineUserCount() int64 {
	return s.onlineUserNum.Load()
}

// GetOnlineConnCount returns online connection count
func (s *WsServer) GetOnlineConnCount() int64 {
	return s.onlineConnNum.Load()
}

// ========== Message Handlers ==========

// HandleSendMsg handles send message request
func (s *WsServer) HandleSendMsg(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	var sendReq SendMsgReq
	if err := json.Unmarshal(req.Data, &sendReq); err != nil {
		return nil, errcode.ErrInvalidParam
	}

	msg, err := s.msgService.Send(ctx, client.UserId, &service.SendMessageRequest{
		ConversationId: sendReq.ConversationId,
		ClientMsgId:    sendReq.ClientMsgId,
		Body:           sendReq.Body,
	})
	if err != nil {
		return nil, err
	}

	resp := SendMsgResp{
		ServerMsgId:    msg.Id,
		ConversationId: msg.ConversationId,
		ClientMsgId:    msg.ClientMsgId,
		SentAt:         msg.SentAt,
	}

	return json.Marshal(resp)
}

// HandlePullHistory handles pull history request
func (s *WsServer) HandlePullHistory(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	var pullReq PullHistoryReq
	if err := json.Unmarshal(req.Data, &pullReq); err != nil {
		return nil, errcode.ErrInvalidParam
	}

	messages, err := s.msgService.LoadHistory(ctx, client.UserId, pullReq.ConversationId, pullReq.Limit)
	if err != nil {
		return nil, err
	}

	resp := PullHistoryResp{Messages: messages}
	return json.Marshal(resp)
}

// HandleMarkRead handles mark read request
func (s *WsServer) HandleMarkRead(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	var markReq MarkReadReq
	if err := json.Unmarshal(req.Data, &markReq); err != nil {
		return nil, errcode.ErrInvalidParam
	}

	if err := s.membershipService.MarkRead(ctx, markReq.ConversationId, client.UserId); err != nil {
		return nil, err
	}

	return nil, nil
}

// HandleWatchConv handles a watch conversation request. Membership is checked
// before subscribing so a non-participant can never observe a feed.
func (s *WsServer) HandleWatchConv(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	var watchReq WatchConvReq
	if err := json.Unmarshal(req.Data, &watchReq); err != nil {
		return nil, errcode.ErrInvalidParam
	}
	if watchReq.ConversationId == "" {
		return nil, errcode.ErrInvalidParam
	}

	if err := s.membershipService.RequireMember(ctx, watchReq.ConversationId, client.UserId); err != nil {
		return nil, err
	}

	client.WatchConversation(watchReq.ConversationId)
	return nil, nil
}

// HandleUnwatchConv handles an unwatch conversation request
func (s *WsServer) HandleUnwatchConv(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	var watchReq WatchConvReq
	if err := json.Unmarshal(req.Data, &watchReq); err != nil {
		return nil, errcode.ErrInvalidParam
	}
	if watchReq.ConversationId == "" {
		return nil, errcode.ErrInvalidParam
	}

	client.UnwatchConversation(watchReq.ConversationId)
	return nil, nil
}

// HandleWatchInbox handles a watch inbox request
func (s *WsServer) HandleWatchInbox(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	client.WatchInbox()
	return nil, nil
}

// HandleUnwatchInbox handles an unwatch inbox request
func (s *WsServer) HandleUnwatchInbox(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	client.UnwatchInbox()
	return nil, nil
}
