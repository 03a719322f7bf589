package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"travelapi/internal/service"
)

// State is where a connection is in its lifecycle.
type State int

const (
	StateConnected State = iota
	StateJoined
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateJoined:
		return "joined"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Identity is the sender bound to a socket by a verified token.
type Identity struct {
	UserID   string
	Username string
}

// Session runs the protocol for one connection. It is driven by a single reader goroutine.
type Session struct {
	client   *client
	hub      *Hub
	channel  *Channel
	identity *Identity
	metrics  *Metrics
	log      *slog.Logger
	state    State
}

func newSession(c *client, hub *Hub, channel *Channel, identity *Identity, metrics *Metrics, log *slog.Logger) *Session {
	return &Session{
		client:   c,
		hub:      hub,
		channel:  channel,
		identity: identity,
		metrics:  metrics,
		log:      log.With("client_id", c.id),
		state:    StateConnected,
	}
}

func (s *Session) State() State {
	return s.state
}

// Handle processes one inbound text frame. Frames that cannot be acted on are dropped and the socket stays open.
func (s *Session) Handle(ctx context.Context, raw []byte) {
	if s.state == StateClosed {
		return
	}

	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil || f.Event == "" {
		s.drop(DropMalformed, "event", f.Event)
		return
	}

	switch f.Event {
	case EventJoin:
		s.join()
	case EventSendMessage:
		s.sendMessage(ctx, f.Data)
	default:
		s.drop(DropUnknownEvent, "event", f.Event)
	}
}

func (s *Session) join() {
	if s.state == StateConnected {
		s.hub.join(GroupGeneral, s.client)
		s.state = StateJoined
	}

	payload, err := encodeFrame(EventConnected, connectedData{Message: "Joined general chat"})
	if err != nil {
		s.log.Error("encode connected frame", "error", err)
		return
	}
	if !s.client.enqueue(payload) {
		s.metrics.drop(DropSlowConsumer)
		s.client.close()
	}
}

func (s *Session) sendMessage(ctx context.Context, data json.RawMessage) {
	if s.state != StateJoined {
		s.drop(DropNotJoined, "event", EventSendMessage)
		return
	}

	var in sendMessageData
	if len(data) == 0 || json.Unmarshal(data, &in) != nil {
		s.drop(DropMalformed, "event", EventSendMessage)
		return
	}
	if s.identity != nil {
		in.UserID = s.identity.UserID
		in.Username = s.identity.Username
	}

	_, err := s.channel.Publish(ctx, service.SendInput{UserID: in.UserID, Username: in.Username, Message: in.Message})
	switch {
	case err == nil:
	case errors.Is(err, service.ErrValidation):
		s.drop(DropInvalidMessage, "error", err.Error())
	default:
		s.log.Error("publish chat message", "error", err)
	}
}

// Close leaves every group and stops the writer.
func (s *Session) Close() {
	if s.state == StateClosed {
		return
	}
	s.hub.leave(s.client)
	s.client.close()
	s.state = StateClosed
}

func (s *Session) drop(reason string, attrs ...any) {
	s.metrics.drop(reason)
	s.log.Warn("chat event dropped", append([]any{"reason", reason, "state", s.state.String()}, attrs...)...)
}
