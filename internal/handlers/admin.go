package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"rental-portal/internal/config"
	"rental-portal/internal/models"
	"rental-portal/internal/scheduler"
	"rental-portal/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// AdminHandler handles admin-related requests
type AdminHandler struct {
	db        *gorm.DB
	workflow  *workflow.Service
	scheduler *scheduler.Scheduler
	search    PropertyIndexer
	redis     *redis.Client
	statsCfg  config.StatsConfig
}

// NewAdminHandler creates a new admin handler. scheduler, search and redis
// may be nil; the corresponding endpoints degrade gracefully.
func NewAdminHandler(db *gorm.DB, wf *workflow.Service, sched *scheduler.Scheduler, sc PropertyIndexer, rdb *redis.Client, statsCfg config.StatsConfig) *AdminHandler {
	return &AdminHandler{
		db:        db,
		workflow:  wf,
		scheduler: sched,
		search:    sc,
		redis:     rdb,
		statsCfg:  statsCfg,
	}
}

// ApproveVisit runs the visit approval workflow and returns the one-time
// credentials.
func (h *AdminHandler) ApproveVisit(c *gin.Context) {
	visitID := c.Param("id")

	result, err := h.workflow.Approve(c.Request.Context(), visitID)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrVisitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Visit report not found"})
		case errors.Is(err, workflow.ErrVisitAlreadyDecided):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Already approved"})
		default:
			log.Printf("Admin: Approval of visit %s failed: %v", visitID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Approved",
		"loginId":      result.LoginID,
		"tempPassword": result.TempPassword,
	})
}

// RejectVisit marks a visit report rejected.
func (h *AdminHandler) RejectVisit(c *gin.Context) {
	visitID := c.Param("id")

	if _, err := h.workflow.Reject(c.Request.Context(), visitID); err != nil {
		switch {
		case errors.Is(err, workflow.ErrVisitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Not found"})
		case errors.Is(err, workflow.ErrVisitAlreadyDecided):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Already approved"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Rejected"})
}

// GetVisits lists visit reports, optionally filtered by status.
func (h *AdminHandler) GetVisits(c *gin.Context) {
	q := h.db.Model(&models.VisitReport{}).Preload("AreaManager")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var visits []models.VisitReport
	if err := q.Order("created_at DESC").Find(&visits).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, visits)
}

type locationStat struct {
	LocationCode string `json:"locationCode"`
	Count        int64  `json:"count"`
}

// GetStats returns dashboard counts, optionally scoped to an area-code
// prefix. Each count is an independent point-in-time read. Results are
// cached briefly in Redis when available.
func (h *AdminHandler) GetStats(c *gin.Context) {
	areaCode := strings.ToLower(c.Query("areaCode"))

	cacheKey := "admin:stats:" + areaCode
	if h.statsCacheEnabled() {
		if cached, err := h.redis.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			return
		}
	}

	areaPrefix := escapeLike(areaCode) + "%"
	scoped := func(q *gorm.DB) *gorm.DB {
		if areaCode != "" {
			return q.Where(`LOWER(location_code) LIKE ? ESCAPE '\'`, areaPrefix)
		}
		return q
	}
	scopedVisits := func(q *gorm.DB) *gorm.DB {
		if areaCode != "" {
			return q.Where(`LOWER(info_location_code) LIKE ? ESCAPE '\'`, areaPrefix)
		}
		return q
	}

	stats := make(map[string]interface{})

	var totalProperties int64
	scoped(h.db.Model(&models.Property{})).Count(&totalProperties)
	stats["totalProperties"] = totalProperties

	var pendingVisits, totalVisits int64
	scopedVisits(h.db.Model(&models.VisitReport{})).Where("status = ?", models.VisitStatusSubmitted).Count(&pendingVisits)
	scopedVisits(h.db.Model(&models.VisitReport{})).Count(&totalVisits)
	stats["pendingVisits"] = pendingVisits
	stats["totalVisits"] = totalVisits

	var pendingOwners, activeOwners int64
	scoped(h.db.Model(&models.Owner{})).Where("kyc_status = ?", models.KYCStatusPending).Count(&pendingOwners)
	scoped(h.db.Model(&models.Owner{})).Where("kyc_status = ?", models.KYCStatusVerified).Count(&activeOwners)
	stats["owners"] = map[string]interface{}{
		"pending": pendingOwners,
		"active":  activeOwners,
	}

	var activeTenants int64
	scoped(h.db.Model(&models.Tenant{})).Where("status = ?", models.TenantStatusActive).Count(&activeTenants)
	stats["activeTenants"] = activeTenants

	var breakdown []locationStat
	if err := scoped(h.db.Model(&models.Property{})).
		Select("location_code AS location_code, count(*) AS count").
		Where("location_code IS NOT NULL AND location_code != ''").
		Group("location_code").
		Order("count DESC").
		Scan(&breakdown).Error; err != nil {
		log.Printf("Admin: Location breakdown query failed: %v", err)
	}
	stats["locationBreakdown"] = breakdown

	if h.statsCacheEnabled() {
		if payload, err := json.Marshal(stats); err == nil {
			if err := h.redis.Set(c.Request.Context(), cacheKey, payload, h.statsCfg.CacheTTL()).Err(); err != nil {
				log.Printf("Admin: Stats cache write failed: %v", err)
			}
		}
	}

	c.JSON(http.StatusOK, stats)
}

// statsCacheEnabled reports whether stats responses may be cached. A
// non-positive TTL disables caching; a zero TTL would otherwise make the
// redis entry permanent.
func (h *AdminHandler) statsCacheEnabled() bool {
	return h.redis != nil && h.statsCfg.CacheTTL() > 0
}

// ReindexProperties pushes all published properties into the search index.
func (h *AdminHandler) ReindexProperties(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Search is not configured"})
		return
	}

	var properties []models.Property
	if err := h.db.Where("is_published = ?", true).Find(&properties).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := h.search.IndexProperties(properties); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	log.Printf("Admin: Reindexed %d published properties", len(properties))
	c.JSON(http.StatusOK, gin.H{"success": true, "indexed": len(properties)})
}

// RunEscalations manually triggers the stale-visit sweep.
func (h *AdminHandler) RunEscalations(c *gin.Context) {
	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Scheduler not available"})
		return
	}

	log.Println("Admin: Manual escalation sweep requested")

	// Run in goroutine to avoid blocking
	go func() {
		if err := h.scheduler.RunNow(); err != nil {
			log.Printf("Admin: Manual escalation sweep failed: %v", err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"success": true, "message": "Escalation sweep started"})
}
