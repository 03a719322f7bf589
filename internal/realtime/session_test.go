package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelapi/internal/logging"
	"travelapi/internal/model"
	"travelapi/internal/repository/memory"
	"travelapi/internal/service"
)

type fixture struct {
	hub     *Hub
	channel *Channel
	metrics *Metrics
	repo    *memory.Messages
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	repo := memory.NewMessages()
	hub := NewHub(m)
	return &fixture{hub: hub, channel: NewChannel(service.NewChatService(repo), hub, m), metrics: m, repo: repo}
}

func (f *fixture) session(buffer int, identity *Identity) (*Session, *client) {
	c := newClient(buffer)
	return newSession(c, f.hub, f.channel, identity, f.metrics, logging.Discard()), c
}

func nextFrame(t *testing.T, c *client) Frame {
	t.Helper()
	select {
	case raw := <-c.send:
		var f Frame
		require.NoError(t, json.Unmarshal(raw, &f))
		return f
	case <-time.After(time.Second):
		t.Fatal("no frame queued")
		return Frame{}
	}
}

func assertNoFrame(t *testing.T, c *client) {
	t.Helper()
	select {
	case raw := <-c.send:
		t.Fatalf("unexpected frame %s", raw)
	default:
	}
}

func sendFrame(text string) []byte {
	return []byte(fmt.Sprintf(`{"event":"sendMessage","data":{"userId":"u1","username":"alice","message":%q}}`, text))
}

func TestSession_JoinThenSend(t *testing.T) {
	f := newFixture(t)
	sess, c := f.session(8, nil)
	ctx := context.Background()

	assert.Equal(t, StateConnected, sess.State())
	sess.Handle(ctx, []byte(`{"event":"join","data":{}}`))
	assert.Equal(t, StateJoined, sess.State())
	assert.Equal(t, 1, f.hub.Size(GroupGeneral))

	connected := nextFrame(t, c)
	assert.Equal(t, EventConnected, connected.Event)
	assert.JSONEq(t, `{"message":"Joined general chat"}`, string(connected.Data))

	sess.Handle(ctx, sendFrame("hi"))
	got := nextFrame(t, c)
	assert.Equal(t, EventNewMessage, got.Event)

	var msg model.ChatMessage
	require.NoError(t, json.Unmarshal(got.Data, &msg))
	assert.Equal(t, "hi", msg.Message)
	assert.Equal(t, "u1", msg.UserID)
	assert.Equal(t, "alice", msg.Username)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.messages))

	sess.Close()
	assert.Equal(t, StateClosed, sess.State())
	assert.Equal(t, 0, f.hub.Size(GroupGeneral))
	assert.True(t, c.closed())
}

func TestSession_JoinIsIdempotent(t *testing.T) {
	f := newFixture(t)
	sess, c := f.session(8, nil)

	sess.Handle(context.Background(), []byte(`{"event":"join"}`))
	sess.Handle(context.Background(), []byte(`{"event":"join"}`))

	assert.Equal(t, EventConnected, nextFrame(t, c).Event)
	assert.Equal(t, EventConnected, nextFrame(t, c).Event)
	assert.Equal(t, 1, f.hub.Size(GroupGeneral))
}

func TestSession_DroppedEvents(t *testing.T) {
	tests := []struct {
		name   string
		join   bool
		frame  string
		reason string
	}{
		{"not json", true, `hello`, DropMalformed},
		{"missing event", true, `{"data":{}}`, DropMalformed},
		{"unknown event", true, `{"event":"leave"}`, DropUnknownEvent},
		{"send before join", false, string(sendFrame("hi")), DropNotJoined},
		{"send without data", true, `{"event":"sendMessage"}`, DropMalformed},
		{"send with wrong data shape", true, `{"event":"sendMessage","data":"hi"}`, DropMalformed},
		{"empty message", true, string(sendFrame("   ")), DropInvalidMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			sess, c := f.session(8, nil)
			if tt.join {
				sess.Handle(context.Background(), []byte(`{"event":"join"}`))
				nextFrame(t, c)
			}
			before := sess.State()

			sess.Handle(context.Background(), []byte(tt.frame))

			assert.Equal(t, before, sess.State())
			assertNoFrame(t, c)
			assert.False(t, c.closed())
			assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.dropped.WithLabelValues(tt.reason)))

			recent, err := f.repo.Recent(context.Background(), 50)
			require.NoError(t, err)
			assert.Empty(t, recent)
		})
	}
}

func TestSession_TokenIdentityWins(t *testing.T) {
	f := newFixture(t)
	sess, c := f.session(8, &Identity{UserID: "real-id", Username: "bob"})

	sess.Handle(context.Background(), []byte(`{"event":"join"}`))
	nextFrame(t, c)
	sess.Handle(context.Background(), sendFrame("hello"))

	var msg model.ChatMessage
	require.NoError(t, json.Unmarshal(nextFrame(t, c).Data, &msg))
	assert.Equal(t, "real-id", msg.UserID)
	assert.Equal(t, "bob", msg.Username)
}

func TestSession_ClosedIgnoresFrames(t *testing.T) {
	f := newFixture(t)
	sess, c := f.session(8, nil)
	sess.Close()
	sess.Close()

	sess.Handle(context.Background(), []byte(`{"event":"join"}`))
	assert.Equal(t, StateClosed, sess.State())
	assertNoFrame(t, c)
}

func TestChannel_EveryMemberSeesStoreOrder(t *testing.T) {
	f := newFixture(t)
	const senders = 20

	var sessions []*Session
	var clients []*client
	for i := 0; i < 3; i++ {
		s, c := f.session(senders+1, nil)
		s.Handle(context.Background(), []byte(`{"event":"join"}`))
		nextFrame(t, c)
		sessions = append(sessions, s)
		clients = append(clients, c)
	}

	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.channel.Publish(context.Background(), service.SendInput{UserID: "u", Message: fmt.Sprintf("m%d", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stored, err := f.repo.Recent(context.Background(), senders)
	require.NoError(t, err)
	require.Len(t, stored, senders)

	for _, c := range clients {
		for i := 0; i < senders; i++ {
			var msg model.ChatMessage
			require.NoError(t, json.Unmarshal(nextFrame(t, c).Data, &msg))
			assert.Equal(t, stored[i].ID, msg.ID)
			if i > 0 {
				assert.False(t, stored[i].Timestamp.Before(stored[i-1].Timestamp))
			}
		}
	}
}

func TestHub_SlowConsumerIsDisconnected(t *testing.T) {
	f := newFixture(t)
	slow, slowClient := f.session(1, nil)
	fast, fastClient := f.session(8, nil)

	slow.Handle(context.Background(), []byte(`{"event":"join"}`))
	fast.Handle(context.Background(), []byte(`{"event":"join"}`))
	nextFrame(t, fastClient)

	// The slow client's only slot still holds its connected frame.
	_, err := f.channel.Publish(context.Background(), service.SendInput{UserID: "u", Message: "one"})
	require.NoError(t, err)

	assert.True(t, slowClient.closed())
	assert.False(t, fastClient.closed())
	assert.Equal(t, EventNewMessage, nextFrame(t, fastClient).Event)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.dropped.WithLabelValues(DropSlowConsumer)))

	slow.Close()
	assert.Equal(t, 1, f.hub.Size(GroupGeneral))
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)
	_, err = NewMetrics(reg)
	assert.Error(t, err)
}
