package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"rental-portal/internal/handlers"
	"rental-portal/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func propertyRouter(db *gorm.DB) *gin.Engine {
	h := handlers.NewPropertyHandler(db, nil)
	r := gin.New()
	r.GET("/api/properties", h.GetProperties)
	r.POST("/api/properties/:id/publish", h.PublishProperty)
	r.GET("/api/rooms/search", h.BrowseRooms)
	return r
}

func TestPublishPropertyIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	property := &models.Property{Title: "Lake View PG", Status: models.PropertyStatusInactive}
	require.NoError(t, db.Create(property).Error)
	r := propertyRouter(db)

	for i := 0; i < 2; i++ {
		w := performRequest(r, http.MethodPost, "/api/properties/"+property.ID+"/publish", nil)
		require.Equal(t, http.StatusOK, w.Code, "publish attempt %d", i+1)
	}

	var reloaded models.Property
	require.NoError(t, db.First(&reloaded, "id = ?", property.ID).Error)
	assert.Equal(t, models.PropertyStatusActive, reloaded.Status)
	assert.True(t, reloaded.IsPublished)
}

// failingIndexer rejects every call, standing in for an unreachable search
// backend.
type failingIndexer struct{}

func (failingIndexer) IndexProperty(*models.Property) error { return errors.New("search is down") }
func (failingIndexer) IndexProperties([]models.Property) error {
	return errors.New("search is down")
}
func (failingIndexer) Search(string, string, int64) ([]models.Property, error) {
	return nil, errors.New("search is down")
}

func TestPublishPropertySurvivesIndexerFailure(t *testing.T) {
	db := setupTestDB(t)
	property := &models.Property{Title: "Lake View PG", Status: models.PropertyStatusInactive}
	require.NoError(t, db.Create(property).Error)

	h := handlers.NewPropertyHandler(db, failingIndexer{})
	r := gin.New()
	r.POST("/api/properties/:id/publish", h.PublishProperty)

	w := performRequest(r, http.MethodPost, "/api/properties/"+property.ID+"/publish", nil)
	require.Equal(t, http.StatusOK, w.Code, "indexing failures must not fail the publish")

	var reloaded models.Property
	require.NoError(t, db.First(&reloaded, "id = ?", property.ID).Error)
	assert.True(t, reloaded.IsPublished)
}

func TestPublishPropertyNotFound(t *testing.T) {
	db := setupTestDB(t)
	r := propertyRouter(db)

	w := performRequest(r, http.MethodPost, "/api/properties/no-such-id/publish", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetPropertiesIncludesOwnerDetails(t *testing.T) {
	db := setupTestDB(t)
	user := &models.User{LoginID: "KO-0001", Name: "Asha", Phone: "9998887777", Role: models.RoleOwner}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.Property{
		Title:        "Lake View PG",
		OwnerID:      &user.ID,
		OwnerLoginID: user.LoginID,
	}).Error)
	r := propertyRouter(db)

	w := performRequest(r, http.MethodGet, "/api/properties", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	properties := body["properties"].([]interface{})
	require.Len(t, properties, 1)
	ownerDetails := properties[0].(map[string]interface{})["ownerDetails"].(map[string]interface{})
	assert.Equal(t, "Asha", ownerDetails["name"])
	assert.Equal(t, "9998887777", ownerDetails["phone"])
}

func TestBrowseRoomsWithoutSearchBackend(t *testing.T) {
	db := setupTestDB(t)
	r := propertyRouter(db)

	w := performRequest(r, http.MethodGet, "/api/rooms/search?q=lake", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
