package websocket

import (
	"support-chat-be/internal/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// UpgradeMiddleware rejects plain HTTP requests on the socket endpoint.
func UpgradeMiddleware(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler authenticates the connection and hands it to the hub. Browsers
// cannot set headers on websocket requests, so the access token rides in the
// token query parameter.
func Handler(hub *Hub, issuer *token.Issuer) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, role, err := issuer.ParseAccessToken(conn.Query("token"))
		if err != nil {
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "invalid token"))
			conn.Close()
			return
		}
		ServeWs(hub, conn, userID, role)
	})
}

// ServeWs registers the connection and runs its pumps. Blocks until the peer
// disconnects.
func ServeWs(hub *Hub, conn *websocket.Conn, userID uuid.UUID, role string) {
	client := newClient(hub, conn, userID, role)
	hub.register <- client

	go client.writePump()
	client.readPump()
}
