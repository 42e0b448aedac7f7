package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"messagely/internal/auth"
	"messagely/internal/metrics"
	"messagely/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

type Client struct {
	hub      *Hub
	inbox    *Inbox
	conn     *websocket.Conn
	send     chan []byte
	db       *gorm.DB
	username string
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type InboundFrame struct {
	Type       string `json:"type"`
	ToUsername string `json:"to_username"`
	Body       string `json:"body"`
	IsTyping   bool   `json:"is_typing"`
}

// Serve 建立 websocket 连接并把它注册到已认证用户自己的 Inbox 下。
// 浏览器端无法在握手时自定义请求头，所以也接受 token 查询参数。
func Serve(h *Hub, db *gorm.DB, tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		token := c.Query("token")
		if token == "" && len(authz) > 7 && (authz[:7] == "Bearer " || authz[:7] == "bearer ") {
			token = authz[7:]
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		username, err := tokens.Parse(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		var user models.User
		if err := db.Where("username = ?", username).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		in := h.getInbox(username)
		client := &Client{hub: h, inbox: in, conn: conn, send: make(chan []byte, 256), db: db, username: username}
		in.register <- client

		go client.writePump()
		client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.inbox.unregister <- c
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(1 << 20) // 1MB
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		var in InboundFrame
		if err := json.Unmarshal(data, &in); err != nil || in.ToUsername == "" {
			continue
		}
		// typing 信号只转发，不持久化
		if in.Type == "typing" {
			if b, err := json.Marshal(TypingEvent{Type: "typing", FromUsername: c.username, IsTyping: in.IsTyping}); err == nil {
				c.hub.Deliver(in.ToUsername, b)
			}
			continue
		}
		if in.Body == "" {
			continue
		}
		var recipient models.User
		if err := c.db.Select("username").Where("username = ?", in.ToUsername).First(&recipient).Error; err != nil {
			continue
		}
		msg := models.Message{FromUsername: c.username, ToUsername: in.ToUsername, Body: in.Body, SentAt: time.Now()}
		if err := c.db.Create(&msg).Error; err != nil {
			continue
		}
		metrics.MessagesSentTotal.Inc()
		b, _ := json.Marshal(MessageEvent{
			Type:         "message",
			ID:           msg.ID,
			FromUsername: msg.FromUsername,
			ToUsername:   msg.ToUsername,
			Body:         msg.Body,
			SentAt:       msg.SentAt,
		})
		c.hub.Deliver(msg.ToUsername, b)
		// 回显给发件人自己的连接
		select {
		case c.send <- b:
		default:
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(payload)
			_ = w.Close()
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
