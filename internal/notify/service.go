// Package notify persists user notifications and fans them out to the live
// feed and the ops alert channel.
package notify

import (
	"context"
	"encoding/json"
	"log"

	"rental-portal/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Service writes notifications to the database and, when Redis is
// configured, publishes them on the recipient's feed channel. Delivery to
// the feed is best effort; the database row is the source of truth.
type Service struct {
	db    *gorm.DB
	redis *redis.Client
	bot   *AlertBot
}

func NewService(db *gorm.DB, rdb *redis.Client, bot *AlertBot) *Service {
	return &Service{db: db, redis: rdb, bot: bot}
}

// ChannelFor returns the Redis pub/sub channel carrying a user's live feed.
func ChannelFor(userID string) string {
	return "notifications:" + userID
}

// Notify stores a notification for recipientID and pushes it to the live feed.
func (s *Service) Notify(ctx context.Context, recipientID, notifType, message string) (*models.Notification, error) {
	note := &models.Notification{
		RecipientID: recipientID,
		Type:        notifType,
		Message:     message,
	}
	if err := s.db.WithContext(ctx).Create(note).Error; err != nil {
		return nil, err
	}

	if s.redis != nil {
		payload, err := json.Marshal(note)
		if err == nil {
			if err := s.redis.Publish(ctx, ChannelFor(recipientID), payload).Err(); err != nil {
				log.Printf("notify: publish to feed failed for %s: %v", recipientID, err)
			}
		}
	}

	return note, nil
}

// Alert forwards an operational event to the Telegram alert channel when one
// is configured. Never fails the caller.
func (s *Service) Alert(text string) {
	if s.bot == nil {
		return
	}
	s.bot.Send(text)
}

// ListForUser returns a user's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var notes []models.Notification
	err := s.db.WithContext(ctx).
		Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Find(&notes).Error
	return notes, err
}
