package handlers

import (
	"context"
	"log"
	"net/http"

	"rental-portal/internal/auth"
	"rental-portal/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// NotificationHandler serves the caller's notification inbox and the live
// websocket feed.
type NotificationHandler struct {
	notifier *notify.Service
	redis    *redis.Client
}

func NewNotificationHandler(notifier *notify.Service, rdb *redis.Client) *NotificationHandler {
	return &NotificationHandler{notifier: notifier, redis: rdb}
}

// ListNotifications returns the caller's notifications, newest first.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID := c.GetString(auth.CtxUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Auth required"})
		return
	}

	notes, err := h.notifier.ListForUser(c.Request.Context(), userID)
	if err != nil {
		log.Printf("List Notifications Error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": notes})
}

// StreamNotifications upgrades to a websocket and relays the caller's feed
// channel until the client disconnects.
func (h *NotificationHandler) StreamNotifications(c *gin.Context) {
	if h.redis == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Live feed is not configured"})
		return
	}

	userID := c.GetString(auth.CtxUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Auth required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}
	defer conn.Close()

	sub := h.redis.Subscribe(context.Background(), notify.ChannelFor(userID))
	defer sub.Close()

	// Drain client frames so we notice the disconnect.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				sub.Close()
				return
			}
		}
	}()

	for msg := range sub.Channel() {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
			log.Printf("Notification feed write failed for %s: %v", userID, err)
			return
		}
	}
}
