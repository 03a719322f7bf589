package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// client is the hub's view of one connection: an outbound queue and a done signal.
type client struct {
	id   string
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newClient(buffer int) *client {
	return &client{
		id:   uuid.NewString(),
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

// close signals the writer to stop. Safe to call more than once.
func (c *client) close() {
	c.once.Do(func() { close(c.done) })
}

func (c *client) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// enqueue queues payload without blocking. It reports false when the queue is full or the client is closed.
func (c *client) enqueue(payload []byte) bool {
	if c.closed() {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// Hub tracks group membership and fans frames out to members.
type Hub struct {
	mu      sync.RWMutex
	groups  map[string]map[*client]struct{}
	metrics *Metrics
}

func NewHub(metrics *Metrics) *Hub {
	return &Hub{groups: make(map[string]map[*client]struct{}), metrics: metrics}
}

func (h *Hub) join(group string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[group]
	if !ok {
		members = make(map[*client]struct{})
		h.groups[group] = members
	}
	members[c] = struct{}{}
}

// leave removes c from every group.
func (h *Hub) leave(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for name, members := range h.groups {
		delete(members, c)
		if len(members) == 0 {
			delete(h.groups, name)
		}
	}
}

// broadcast queues payload for every member of group. Members whose queue is full are disconnected.
func (h *Hub) broadcast(group string, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.groups[group] {
		if c.enqueue(payload) {
			delivered++
			continue
		}
		if !c.closed() {
			h.metrics.drop(DropSlowConsumer)
			c.close()
		}
	}
	return delivered
}

// Size returns the number of members in group.
func (h *Hub) Size(group string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[group])
}
