package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"stayhub/config"
	"stayhub/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// UpgradeNotifyWS upgrades a connection onto the notification hub so the
// client receives booking status pushes in real time.
func UpgradeNotifyWS(cfg *config.JWTConfig, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		token := c.Query("token")
		if token == "" {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"token required"}`))
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
			return
		}
		client := &Client{
			UserID: claims.UserID,
			Role:   claims.Role,
			Send:   make(chan []byte, 256),
		}
		client.conn = &wsConn{conn: conn}
		hub.Register(client)
		defer client.Close()
		go writePump(client, conn)
		readPump(conn)
	}
}

// ChatMessageIn is what a chat client sends over the socket.
type ChatMessageIn struct {
	Body string `json:"body"`
}

// ChatPersister stores an inbound chat message and returns the stored form.
type ChatPersister interface {
	SaveChatMessage(bookingID, senderID uint, body string) (interface{}, error)
}

// UpgradeChatWS joins a booking chat room after verifying membership.
func UpgradeChatWS(cfg *config.JWTConfig, room *ChatRoom, persister ChatPersister) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		token := c.Query("token")
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
			return
		}
		if !room.Member(claims.UserID) {
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"not a participant"}`))
			return
		}
		client := &Client{
			UserID: claims.UserID,
			Role:   claims.Role,
			Send:   make(chan []byte, 256),
		}
		client.conn = &wsConn{conn: conn}
		room.Join(client)
		defer func() {
			room.Leave(client)
			client.Close()
		}()
		go writePump(client, conn)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var in ChatMessageIn
			if err := json.Unmarshal(data, &in); err != nil || in.Body == "" {
				continue
			}
			stored, err := persister.SaveChatMessage(room.BookingID, claims.UserID, in.Body)
			if err != nil {
				continue
			}
			room.Broadcast(client, map[string]interface{}{"type": "message", "message": stored})
		}
	}
}

// writePump copies messages from client.Send to the connection.
func writePump(c *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func readPump(conn *websocket.Conn) {
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}

type wsConn struct {
	conn *websocket.Conn
}

func (w *wsConn) SendMessage(data []byte) error {
	return w.conn.WriteMessage(websocket.TextMessage, data)
}
