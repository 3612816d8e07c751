package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/service"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client actions. The payload shape is shared: action plus the fields the
// action reads.
const (
	ActionJoinChatGroup      = "JoinChatGroup"
	ActionSendMessageToGroup = "SendMessageToGroup"
	ActionEndChat            = "EndChat"
)

type invocation struct {
	Action        string    `json:"action"`
	ChatSessionId uuid.UUID `json:"chatSessionId"`
	Content       string    `json:"content"`
}

type errorPayload struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}

// Client is one websocket connection. A user with several tabs open holds
// several clients.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	UserID uuid.UUID
	Role   string

	// Buffered channel of outbound frames.
	Send chan []byte

	// Groups this connection joined, maintained by the hub under its lock.
	groups map[string]struct{}
}

func newClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, role string) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		UserID: userID,
		Role:   role,
		Send:   make(chan []byte, 256),
		groups: make(map[string]struct{}),
	}
}

// readPump pumps inbound frames into invocations until the peer disconnects.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Hub", "Unexpected close", map[string]interface{}{
					"user_id": c.UserID.String(),
					"error":   err.Error(),
				})
			}
			break
		}

		var inv invocation
		if err := json.Unmarshal(raw, &inv); err != nil {
			c.sendError("", "malformed payload")
			continue
		}
		c.handleInvocation(&inv)
	}
}

func (c *Client) handleInvocation(inv *invocation) {
	ctx := context.Background()

	switch inv.Action {
	case ActionJoinChatGroup:
		c.Hub.JoinGroup(c, SessionGroup(inv.ChatSessionId))

	case ActionSendMessageToGroup:
		// Persist first. Only a stored message is broadcast.
		message, err := c.Hub.gateway.SendMessage(ctx, &dto.SendMessageRequest{
			ChatSessionId: inv.ChatSessionId,
			SenderId:      c.UserID,
			Content:       inv.Content,
		})
		if err != nil {
			c.sendError(inv.Action, sendMessageErrorText(err))
			return
		}
		c.Hub.BroadcastMessage(message)

	case ActionEndChat:
		session, err := c.Hub.gateway.EndChat(ctx, inv.ChatSessionId)
		if err != nil {
			c.sendError(inv.Action, "failed to end chat")
			return
		}
		if session != nil {
			c.Hub.BroadcastChatEnded(session)
		}

	default:
		c.sendError(inv.Action, "unknown action")
	}
}

func sendMessageErrorText(err error) string {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return "chat session not found"
	case errors.Is(err, service.ErrEmptyContent):
		return "message content is empty"
	default:
		return "failed to send message"
	}
}

func (c *Client) sendError(action, message string) {
	payload, _ := json.Marshal(map[string]interface{}{
		"type": "Error",
		"data": errorPayload{Action: action, Message: message},
	})
	select {
	case c.Send <- payload:
	default:
	}
}

// writePump drains the send buffer to the connection and keeps it alive with
// pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
