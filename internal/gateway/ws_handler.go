package gateway

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"
	"github.com/hertz-contrib/websocket"
	"github.com/mbeoliero/kit/log"

	"github.com/KennedyWusunanwa/gida-sub000/pkg/jwt"
)

// HandleHertzConnection handles a WebSocket connection from Hertz using hertz-contrib/websocket
func (s *WsServer) HandleHertzConnection(ctx context.Context, c *app.RequestContext, upgrader *websocket.HertzUpgrader) {
	// Check connection limit
	if s.onlineConnNum.Load() >= s.maxConnNum {
		c.String(503, "connection limit exceeded")
		return
	}

	// Parse query parameters
	token := string(c.Query(QueryToken))
	sendId := string(c.Query(QuerySendId))
	sdkType := string(c.Query(QuerySDKType))

	if token == "" || sendId == "" {
		c.String(400, "missing required parameters")
		return
	}

	// Validate token. Service-issued tokens first, then raw identity-provider
	// tokens so browser clients can connect with the token they already hold.
	userId, err := s.authenticate(token, sendId)
	if err != nil {
		log.CtxDebug(ctx, "token validation failed: send_id=%s, error=%v", sendId, err)
		c.String(401, "unauthorized")
		return
	}

	// Upgrade connection using hertz-contrib/websocket
	err = upgrader.Upgrade(c, func(conn *websocket.Conn) {
		connId := uuid.New().String()
		wsConn := NewHertzWebSocketClientConn(conn,
			s.cfg.WebSocket.MaxMessageSize,
			s.cfg.WebSocket.WriteChannelSize,
			s.cfg.WebSocket.PongWait,
			s.cfg.WebSocket.PingPeriod)
		client := NewClient(wsConn, userId, sdkType, connId, s)

		// Register client
		s.registerChan <- client

		// Blocking message loop; returning tears the connection down
		client.readLoop()
	})

	if err != nil {
		log.CtxWarn(ctx, "websocket upgrade failed: %v", err)
		return
	}
}

func (s *WsServer) authenticate(token, sendId string) (string, error) {
	claims, err := jwt.ParseToken(token, s.cfg.Auth.Secret)
	if err != nil {
		claims, err = jwt.ParseIdentityToken(token, s.cfg.Auth.Secret, s.cfg.Auth.DefaultRole)
		if err != nil {
			return "", err
		}
	}

	if claims.UserId != sendId {
		return "", ErrUserIdMismatch
	}
	return claims.UserId, nil
}
