package handlers_test

import (
	"net/http"
	"testing"

	"rental-portal/internal/auth"
	"rental-portal/internal/handlers"
	"rental-portal/internal/models"
	"rental-portal/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// notificationRouter injects a fixed caller identity in place of the JWT
// middleware.
func notificationRouter(db *gorm.DB, userID string) *gin.Engine {
	h := handlers.NewNotificationHandler(notify.NewService(db, nil, nil), nil)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(auth.CtxUserID, userID)
		c.Next()
	})
	r.GET("/api/notifications", h.ListNotifications)
	return r
}

func TestListNotificationsOnlyForCaller(t *testing.T) {
	db := setupTestDB(t)
	me := &models.User{LoginID: "KO-0001", Role: models.RoleOwner}
	other := &models.User{LoginID: "KO-0002", Role: models.RoleOwner}
	require.NoError(t, db.Create(me).Error)
	require.NoError(t, db.Create(other).Error)

	require.NoError(t, db.Create(&models.Notification{RecipientID: me.ID, Type: "kyc_update", Message: "first"}).Error)
	require.NoError(t, db.Create(&models.Notification{RecipientID: me.ID, Type: "kyc_update", Message: "second"}).Error)
	require.NoError(t, db.Create(&models.Notification{RecipientID: other.ID, Type: "kyc_update", Message: "not mine"}).Error)

	r := notificationRouter(db, me.ID)
	w := performRequest(r, http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)

	notes := decodeBody(t, w)["notifications"].([]interface{})
	require.Len(t, notes, 2)
	for _, raw := range notes {
		note := raw.(map[string]interface{})
		assert.Equal(t, me.ID, note["recipient"])
	}
}

func TestListNotificationsRequiresIdentity(t *testing.T) {
	db := setupTestDB(t)
	r := notificationRouter(db, "")

	w := performRequest(r, http.MethodGet, "/api/notifications", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
