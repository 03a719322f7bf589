package realtime

import (
	"context"
	"fmt"
	"sync"

	"travelapi/internal/model"
	"travelapi/internal/service"
)

// Channel persists chat messages and broadcasts them to the general group.
// Stamping, storing and queueing happen under one lock, so every member sees messages in store order.
type Channel struct {
	mu      sync.Mutex
	chat    service.ChatService
	hub     *Hub
	metrics *Metrics
}

func NewChannel(chat service.ChatService, hub *Hub, metrics *Metrics) *Channel {
	return &Channel{chat: chat, hub: hub, metrics: metrics}
}

// Publish stores the message and queues a newMessage frame for every joined connection.
func (ch *Channel) Publish(ctx context.Context, in service.SendInput) (*model.ChatMessage, error) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	msg, err := ch.chat.Send(ctx, in)
	if err != nil {
		return nil, err
	}

	payload, err := encodeFrame(EventNewMessage, msg)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	ch.hub.broadcast(GroupGeneral, payload)
	ch.metrics.messages.Inc()
	return msg, nil
}
