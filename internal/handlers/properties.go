package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"rental-portal/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PropertyIndexer is the search backend behind publishing and tenant
// browsing. *search.Client implements it.
type PropertyIndexer interface {
	IndexProperty(property *models.Property) error
	IndexProperties(properties []models.Property) error
	Search(query, locationCode string, limit int64) ([]models.Property, error)
}

// PropertyHandler handles property listing, publishing and tenant browsing.
type PropertyHandler struct {
	db     *gorm.DB
	search PropertyIndexer
}

// NewPropertyHandler creates a property handler. search may be nil; the
// browse endpoint reports the feature as unavailable.
func NewPropertyHandler(db *gorm.DB, sc PropertyIndexer) *PropertyHandler {
	return &PropertyHandler{db: db, search: sc}
}

// GetProperties returns all properties with owner contact details, newest
// first.
func (h *PropertyHandler) GetProperties(c *gin.Context) {
	var properties []models.Property
	err := h.db.Preload("Owner").Order("created_at DESC").Find(&properties).Error
	if err != nil {
		log.Printf("Get Properties Error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "properties": properties})
}

// PublishProperty marks a property active and published. Publishing an
// already-published property yields the same end state. The listing is also
// pushed to the search index; index failures are logged, not surfaced.
func (h *PropertyHandler) PublishProperty(c *gin.Context) {
	var property models.Property
	err := h.db.First(&property, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Property not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	property.Publish()
	if err := h.db.Save(&property).Error; err != nil {
		log.Printf("Publish Property Error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	if h.search != nil {
		if err := h.search.IndexProperty(&property); err != nil {
			log.Printf("Publish: search indexing failed for property %s: %v", property.ID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "property": property})
}

// BrowseRooms is the public tenant-facing search over published listings.
// It answers with the matching properties and the rooms inside them.
func (h *PropertyHandler) BrowseRooms(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Search is not configured"})
		return
	}

	var limit int64 = 20
	if limitStr := c.Query("limit"); limitStr != "" {
		if n, err := strconv.ParseInt(limitStr, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	properties, err := h.search.Search(c.Query("q"), c.Query("locationCode"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	propertyIDs := make([]string, 0, len(properties))
	for _, p := range properties {
		propertyIDs = append(propertyIDs, p.ID)
	}

	var rooms []models.Room
	if len(propertyIDs) > 0 {
		if err := h.db.Where("property_id IN ?", propertyIDs).Find(&rooms).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "properties": properties, "rooms": rooms})
}
