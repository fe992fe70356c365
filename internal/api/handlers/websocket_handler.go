// server/internal/api/handlers/websocket_handler.go
package handlers

import (
	"net/http"

	"recycle-connect-api-server/internal/auth"
	"recycle-connect-api-server/internal/socket"

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

type WebSocketHandler struct {
	Hub       *socket.Hub
	JWTSecret []byte
}

// ServeWs xử lý các yêu cầu kết nối WebSocket. Token đi qua query vì
// browser không gửi được Authorization header khi mở WebSocket.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Token is required"})
		return
	}

	claims, err := auth.ParseJWT(h.JWTSecret, tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
		return
	}
	userID := claims.UserID

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade đã tự trả lỗi HTTP cho client.
		return
	}

	h.Hub.Register(userID, conn)

	// Server chỉ push; đọc để phát hiện client đóng kết nối.
	go func() {
		defer func() {
			h.Hub.Unregister(userID)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
