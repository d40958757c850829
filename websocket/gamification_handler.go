package websocket

import (
	"net/http"
	"time"

	"galaxymath/structs"
	"galaxymath/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// NewUpgrader accepts same-origin requests and any origin in allowed; "*" allows all
func NewUpgrader(allowed []string) *websocket.Upgrader {
	origins := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		origins[o] = true
	}
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origins["*"] || origins[origin]
		},
	}
}

// ProgressHandler authenticates the pilot from the Authorization header or ?token= and
// streams their progression events until the socket closes
func ProgressHandler(hub *Hub, upgrader *websocket.Upgrader) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := utils.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			return
		}

		claims, err := utils.ParseJWTToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			hub.logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		client := NewGamificationClient(conn, claims.UserID)
		hub.Register(client)
		defer hub.Unregister(client)
		go client.writePump()

		hub.Send(client, structs.Message{
			Type:      structs.MessageConnected,
			Data:      gin.H{"userId": claims.UserID, "username": claims.Username},
			Timestamp: time.Now(),
		})

		for {
			var msg structs.ClientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					hub.logger.Debug("progress socket closed", zap.String("userId", client.UserID), zap.Error(err))
				}
				return
			}
			if msg.Type == "ping" {
				if !hub.Send(client, structs.Message{Type: structs.MessagePong, Timestamp: time.Now()}) {
					return
				}
			}
		}
	}
}
