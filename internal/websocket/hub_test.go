package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"support-chat-be/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil, nopLogger{})
	go hub.Run()
	return hub
}

func connect(t *testing.T, hub *Hub, role string) *Client {
	t.Helper()
	client := newClient(hub, nil, uuid.New(), role)
	hub.register <- client
	return client
}

func receive(t *testing.T, client *Client) frame {
	t.Helper()
	select {
	case raw := <-client.Send:
		var f frame
		require.NoError(t, json.Unmarshal(raw, &f))
		return f
	case <-time.After(time.Second):
		t.Fatal("no frame received")
		return frame{}
	}
}

func assertSilent(t *testing.T, client *Client) {
	t.Helper()
	select {
	case raw := <-client.Send:
		t.Fatalf("unexpected frame: %s", raw)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_NotifyAgentsReachesOnlyAgents(t *testing.T) {
	hub := startHub(t)
	agent := connect(t, hub, "agent")
	user := connect(t, hub, "user")

	session := &dto.ChatSessionResponse{Id: uuid.New(), Status: "Active"}

	// The agents group is joined asynchronously on register.
	require.Eventually(t, func() bool {
		hub.NotifyAgents(session)
		select {
		case <-agent.Send:
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	assertSilent(t, user)
}

func TestHub_SessionGroupBroadcast(t *testing.T) {
	hub := startHub(t)
	member := connect(t, hub, "user")
	outsider := connect(t, hub, "user")

	sessionID := uuid.New()
	hub.JoinGroup(member, SessionGroup(sessionID))

	message := &dto.MessageResponse{
		Id:            uuid.New(),
		ChatSessionId: sessionID,
		Content:       "hello",
	}
	hub.BroadcastMessage(message)

	received := receive(t, member)
	assert.Equal(t, EventReceiveMessage, received.Type)
	var payload dto.MessageResponse
	require.NoError(t, json.Unmarshal(received.Data, &payload))
	assert.Equal(t, "hello", payload.Content)

	assertSilent(t, outsider)
}

func TestHub_ChatEndedReachesWholeGroup(t *testing.T) {
	hub := startHub(t)
	user := connect(t, hub, "user")
	agent := connect(t, hub, "agent")

	sessionID := uuid.New()
	hub.JoinGroup(user, SessionGroup(sessionID))
	hub.JoinGroup(agent, SessionGroup(sessionID))

	hub.BroadcastChatEnded(&dto.ChatSessionResponse{Id: sessionID, Status: "Ended"})

	assert.Equal(t, EventChatEnded, receive(t, user).Type)
	assert.Equal(t, EventChatEnded, receive(t, agent).Type)
}

func TestHub_ChatEndedDissolvesGroup(t *testing.T) {
	hub := startHub(t)
	user := connect(t, hub, "user")
	agent := connect(t, hub, "agent")

	sessionID := uuid.New()
	hub.JoinGroup(user, SessionGroup(sessionID))
	hub.JoinGroup(agent, SessionGroup(sessionID))

	hub.BroadcastChatEnded(&dto.ChatSessionResponse{Id: sessionID, Status: "Ended"})

	assert.Equal(t, EventChatEnded, receive(t, user).Type)
	assert.Equal(t, EventChatEnded, receive(t, agent).Type)

	hub.mu.RLock()
	_, exists := hub.groups[SessionGroup(sessionID)]
	hub.mu.RUnlock()
	assert.False(t, exists)

	// Late traffic for the ended session reaches nobody.
	hub.BroadcastMessage(&dto.MessageResponse{Id: uuid.New(), ChatSessionId: sessionID, Content: "late"})
	assertSilent(t, user)
	assertSilent(t, agent)
}

func TestHub_UnregisterLeavesGroups(t *testing.T) {
	hub := startHub(t)
	client := connect(t, hub, "user")

	sessionID := uuid.New()
	hub.JoinGroup(client, SessionGroup(sessionID))

	hub.unregister <- client

	// The closed send channel marks the disconnect.
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-client.Send:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	// Broadcasting to the departed group reaches nobody and does not panic.
	hub.BroadcastMessage(&dto.MessageResponse{Id: uuid.New(), ChatSessionId: sessionID, Content: "gone"})

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	assert.Empty(t, hub.groups)
	assert.Empty(t, hub.clients)
}

func TestHub_JoiningTwiceDeliversOnce(t *testing.T) {
	hub := startHub(t)
	client := connect(t, hub, "user")

	sessionID := uuid.New()
	hub.JoinGroup(client, SessionGroup(sessionID))
	hub.JoinGroup(client, SessionGroup(sessionID))

	hub.BroadcastMessage(&dto.MessageResponse{Id: uuid.New(), ChatSessionId: sessionID, Content: "once"})

	receive(t, client)
	assertSilent(t, client)
}
