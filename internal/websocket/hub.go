package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// AgentsGroup is the implicit group every connected agent belongs to. Session
// start notifications fan out here.
const AgentsGroup = "agents"

// SessionGroup names the group carrying one chat session's traffic.
func SessionGroup(sessionID uuid.UUID) string {
	return "session:" + sessionID.String()
}

// Events pushed to clients.
const (
	EventReceiveNotification = "ReceiveNotification"
	EventReceiveMessage      = "ReceiveMessage"
	EventChatEnded           = "ChatEnded"
)

// ChatGateway is the slice of the chat workflow the socket layer needs.
// Messages are persisted through here before they are broadcast, so a crashed
// broadcast never loses history.
type ChatGateway interface {
	SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	EndChat(ctx context.Context, sessionID uuid.UUID) (*dto.ChatSessionResponse, error)
}

// Hub owns all connection state: who is online and which groups each
// connection joined. All maps live behind one lock rather than in package
// globals so tests can run hubs side by side.
type Hub struct {
	// UserID -> connections (multi-device).
	clients map[uuid.UUID][]*Client

	// Group name -> member set.
	groups map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	gateway ChatGateway
	logger  logger.ILogger
}

func NewHub(gateway ChatGateway, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID][]*Client),
		groups:     make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		gateway:    gateway,
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			if client.Role == "agent" {
				h.joinLocked(client, AgentsGroup)
			}
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{
				"user_id": client.UserID.String(),
				"role":    client.Role,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			h.dropLocked(client)
			h.mu.Unlock()
		}
	}
}

// JoinGroup adds the connection to a group. Joining twice is a no-op.
func (h *Hub) JoinGroup(client *Client, group string) {
	h.mu.Lock()
	h.joinLocked(client, group)
	h.mu.Unlock()
	h.logger.Debug("Hub", "Client joined group", map[string]interface{}{
		"user_id": client.UserID.String(),
		"group":   group,
	})
}

// NotifyAgents pushes a session start notification to every connected agent.
func (h *Hub) NotifyAgents(session *dto.ChatSessionResponse) {
	h.broadcast(AgentsGroup, EventReceiveNotification, session)
}

// BroadcastMessage pushes a persisted message to the session's group.
func (h *Hub) BroadcastMessage(message *dto.MessageResponse) {
	h.broadcast(SessionGroup(message.ChatSessionId), EventReceiveMessage, message)
}

// BroadcastChatEnded tells the session's group the conversation is over and
// dissolves the group. Members stay connected but receive no further traffic
// for the ended session.
func (h *Hub) BroadcastChatEnded(session *dto.ChatSessionResponse) {
	group := SessionGroup(session.Id)
	h.broadcast(group, EventChatEnded, session)
	h.dropGroup(group)
}

func (h *Hub) dropGroup(group string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.groups[group] {
		delete(client.groups, group)
	}
	delete(h.groups, group)
}

func (h *Hub) broadcast(group, event string, data interface{}) {
	payload, err := json.Marshal(map[string]interface{}{
		"type": event,
		"data": data,
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal broadcast", map[string]interface{}{"event": event, "error": err.Error()})
		return
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.groups[group]))
	for client := range h.groups[group] {
		members = append(members, client)
	}
	h.mu.RUnlock()

	for _, client := range members {
		select {
		case client.Send <- payload:
		default:
			// Slow consumer. Drop the connection rather than block the hub.
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{
				"user_id": client.UserID.String(),
			})
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

// joinLocked requires h.mu held for writing.
func (h *Hub) joinLocked(client *Client, group string) {
	members, ok := h.groups[group]
	if !ok {
		members = make(map[*Client]struct{})
		h.groups[group] = members
	}
	members[client] = struct{}{}
	client.groups[group] = struct{}{}
}

// dropLocked removes the connection from the client map and every group it
// joined. Requires h.mu held for writing.
func (h *Hub) dropLocked(client *Client) {
	clients, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.UserID]) == 0 {
		delete(h.clients, client.UserID)
	}

	for group := range client.groups {
		if members, ok := h.groups[group]; ok {
			delete(members, client)
			if len(members) == 0 {
				delete(h.groups, group)
			}
		}
	}

	h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"user_id": client.UserID.String()})
}
