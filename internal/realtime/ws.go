package realtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"travelapi/internal/auth"
	"travelapi/internal/service"
)

const identityLocalKey = "chat_identity"

// TokenVerifier validates the optional ?token= of an upgrade request.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Options tune the socket endpoint. Zero values take defaults.
type Options struct {
	SendBuffer   int
	ReadLimit    int64
	WriteTimeout time.Duration
	PongWait     time.Duration
	PingInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.SendBuffer <= 0 {
		o.SendBuffer = 64
	}
	if o.ReadLimit <= 0 {
		o.ReadLimit = 16 << 10
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	if o.PingInterval <= 0 || o.PingInterval >= o.PongWait {
		o.PingInterval = o.PongWait * 9 / 10
	}
	return o
}

// Server is the chat WebSocket endpoint.
type Server struct {
	hub     *Hub
	channel *Channel
	tokens  TokenVerifier
	metrics *Metrics
	log     *slog.Logger
	opts    Options
}

func NewServer(chat service.ChatService, tokens TokenVerifier, metrics *Metrics, log *slog.Logger, opts Options) *Server {
	hub := NewHub(metrics)
	return &Server{
		hub:     hub,
		channel: NewChannel(chat, hub, metrics),
		tokens:  tokens,
		metrics: metrics,
		log:     log,
		opts:    opts.withDefaults(),
	}
}

// Hub exposes group membership, mainly for probes and tests.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Register mounts the endpoint on r at path.
func (s *Server) Register(r fiber.Router, path string) {
	r.Get(path, s.Upgrade(), s.Handler())
}

// Upgrade admits only WebSocket handshakes. A ?token= must verify; its claims become the sender identity.
func (s *Server) Upgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if token := c.Query("token"); token != "" {
			claims, err := s.tokens.Verify(token)
			if err != nil {
				s.log.Warn("chat upgrade rejected", "error", err)
				return fiber.NewError(fiber.StatusForbidden, "invalid token")
			}
			c.Locals(identityLocalKey, &Identity{UserID: claims.UserID, Username: claims.Username})
		}
		return c.Next()
	}
}

// Handler serves an upgraded connection until either side closes it.
func (s *Server) Handler() fiber.Handler {
	return websocket.New(s.serve)
}

func (s *Server) serve(conn *websocket.Conn) {
	identity, _ := conn.Locals(identityLocalKey).(*Identity)
	c := newClient(s.opts.SendBuffer)
	sess := newSession(c, s.hub, s.channel, identity, s.metrics, s.log)

	s.metrics.connections.Inc()
	defer s.metrics.connections.Dec()
	sess.log.Debug("chat socket opened")

	writerDone := make(chan struct{})
	go s.writeLoop(conn, c, writerDone)

	conn.SetReadLimit(s.opts.ReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(s.opts.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.opts.PongWait))
	})

	ctx := context.Background()
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				sess.log.Debug("chat socket read failed", "error", err)
			}
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(s.opts.PongWait))

		if mt != websocket.TextMessage {
			sess.drop(DropBinaryFrame)
			continue
		}
		sess.Handle(ctx, data)
	}

	sess.Close()
	<-writerDone
	sess.log.Debug("chat socket closed")
}

// writeLoop is the only goroutine that writes to conn.
func (s *Server) writeLoop(conn *websocket.Conn, c *client, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case payload := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.close()
				_ = conn.Close()
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.opts.WriteTimeout)); err != nil {
				c.close()
				_ = conn.Close()
				return
			}
		case <-c.done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(s.opts.WriteTimeout))
			_ = conn.Close()
			return
		}
	}
}
