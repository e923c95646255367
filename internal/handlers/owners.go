package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"rental-portal/internal/models"
	"rental-portal/internal/notify"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// OwnerHandler handles owner listing, lookup, KYC decisions and profile
// updates.
type OwnerHandler struct {
	db       *gorm.DB
	notifier *notify.Service
}

func NewOwnerHandler(db *gorm.DB, notifier *notify.Service) *OwnerHandler {
	return &OwnerHandler{db: db, notifier: notifier}
}

// escapeLike neutralizes LIKE wildcards in user input so filter values match
// literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

type ownerCreateRequest struct {
	LoginID      string `json:"loginId" binding:"required"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	LocationCode string `json:"locationCode"`
	Credentials  *struct {
		Password  string `json:"password"`
		FirstTime bool   `json:"firstTime"`
	} `json:"credentials"`
}

// CreateOwner creates an owner record directly, outside the approval
// workflow. Posting the same loginId again returns the existing owner so the
// call is idempotent.
func (h *OwnerHandler) CreateOwner(c *gin.Context) {
	var req ownerCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	owner := models.Owner{
		LoginID:      req.LoginID,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		LocationCode: req.LocationCode,
		KYC:          models.KYC{Status: models.KYCStatusPending},
	}
	if req.Credentials != nil && req.Credentials.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Credentials.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		owner.Credentials = models.Credentials{Password: string(hash), FirstTime: req.Credentials.FirstTime}
		owner.PasswordSet = true
	}

	err := h.db.Create(&owner).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		var existing models.Owner
		if findErr := h.db.Where("login_id = ?", req.LoginID).First(&existing).Error; findErr == nil {
			log.Printf("Owner POST duplicate for %s, returning existing record", req.LoginID)
			c.JSON(http.StatusOK, existing)
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": "Owner ID already exists"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, owner)
}

// GetOwners lists owners with optional area, KYC-status and free-text
// filters. Filters combine with AND; the search alternatives with OR.
func (h *OwnerHandler) GetOwners(c *gin.Context) {
	q := h.db.Model(&models.Owner{})

	if locationCode := c.Query("locationCode"); locationCode != "" {
		q = q.Where(`LOWER(location_code) LIKE ? ESCAPE '\'`, escapeLike(strings.ToLower(locationCode))+"%")
	}

	kycStatus := c.Query("kycStatus")
	if kycStatus == "" {
		kycStatus = c.Query("kyc")
	}
	if kycStatus != "" {
		q = q.Where("kyc_status = ?", kycStatus)
	}

	if search := c.Query("search"); search != "" {
		term := "%" + escapeLike(strings.ToLower(search)) + "%"
		q = q.Where(
			`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(login_id) LIKE ? ESCAPE '\' OR LOWER(phone) LIKE ? ESCAPE '\' OR LOWER(profile_name) LIKE ? ESCAPE '\'`,
			term, term, term, term,
		)
	}

	var owners []models.Owner
	if err := q.Order("created_at DESC").Find(&owners).Error; err != nil {
		log.Printf("Get Owners Error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "owners": owners})
}

// GetOwner returns a single owner by loginId.
func (h *OwnerHandler) GetOwner(c *gin.Context) {
	var owner models.Owner
	err := h.db.Where("login_id = ?", c.Param("loginId")).First(&owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Owner not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, owner)
}

type kycUpdateRequest struct {
	Status          models.KYCStatus `json:"status" binding:"required"`
	RejectionReason string           `json:"rejectionReason"`
}

// UpdateKYC applies a superadmin KYC decision. The path parameter may be the
// owner's record id or loginId. verified activates the owner; rejected
// deactivates.
func (h *OwnerHandler) UpdateKYC(c *gin.Context) {
	var req kycUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
		return
	}
	if !models.ValidKYCDecision(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
		return
	}

	id := c.Param("loginId")
	var owner models.Owner
	err := h.db.Where("id = ? OR login_id = ?", id, id).First(&owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Owner not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	owner.KYC.Status = req.Status
	if req.Status == models.KYCStatusVerified {
		now := time.Now()
		owner.KYC.VerifiedAt = &now
		owner.IsActive = true
	} else {
		owner.KYC.VerifiedAt = nil
		owner.IsActive = false
	}

	if err := h.db.Save(&owner).Error; err != nil {
		log.Printf("KYC Update Error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	if h.notifier != nil {
		h.notifyKYC(c, &owner, req.Status)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Owner KYC %s", req.Status),
		"owner":   owner,
	})
}

func (h *OwnerHandler) notifyKYC(c *gin.Context, owner *models.Owner, status models.KYCStatus) {
	var user models.User
	if err := h.db.Where("login_id = ?", owner.LoginID).First(&user).Error; err != nil {
		log.Printf("KYC notification skipped, no user for %s: %v", owner.LoginID, err)
		return
	}
	msg := fmt.Sprintf("Your KYC has been %s.", status)
	if _, err := h.notifier.Notify(c.Request.Context(), user.ID, models.NotificationTypeKYCUpdate, msg); err != nil {
		log.Printf("KYC notification failed for %s: %v", owner.LoginID, err)
	}
	h.notifier.Alert(fmt.Sprintf("KYC %s for owner %s", status, owner.LoginID))
}

type ownerPatchRequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	LocationCode *string `json:"locationCode"`
	Profile      *struct {
		Name *string `json:"name"`
	} `json:"profile"`
	Credentials *struct {
		Password string `json:"password"`
	} `json:"credentials"`
}

// PatchOwner upserts an owner by loginId. A supplied credentials.password is
// stored as a bcrypt hash, clears the firstTime flag and is mirrored onto
// the user account so both copies of the credential change together.
func (h *OwnerHandler) PatchOwner(c *gin.Context) {
	loginID := c.Param("loginId")

	var req ownerPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var owner models.Owner
	err := h.db.Where("login_id = ?", loginID).First(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		owner = models.Owner{LoginID: loginID}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		owner.Name = *req.Name
	}
	if req.Email != nil {
		owner.Email = *req.Email
	}
	if req.Phone != nil {
		owner.Phone = *req.Phone
	}
	if req.Address != nil {
		owner.Address = *req.Address
	}
	if req.LocationCode != nil {
		owner.LocationCode = *req.LocationCode
	}
	if req.Profile != nil && req.Profile.Name != nil {
		owner.Profile.Name = *req.Profile.Name
	}

	var passwordHash string
	if req.Credentials != nil && req.Credentials.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Credentials.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		passwordHash = string(hash)
		owner.Credentials.Password = passwordHash
		owner.Credentials.FirstTime = false
		owner.PasswordSet = true
	}

	if err := h.db.Save(&owner).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Keep the user account's copy in sync with the rotated password.
	if passwordHash != "" {
		if err := h.db.Model(&models.User{}).
			Where("login_id = ?", loginID).
			Update("password", passwordHash).Error; err != nil {
			log.Printf("Owner PATCH: user password sync failed for %s: %v", loginID, err)
		}
	}

	c.JSON(http.StatusOK, owner)
}

// GetOwnerRooms lists an owner's properties and the rooms inside them,
// looked up through the denormalized ownerLoginId.
func (h *OwnerHandler) GetOwnerRooms(c *gin.Context) {
	loginID := c.Param("loginId")

	var properties []models.Property
	if err := h.db.Where("owner_login_id = ?", loginID).Find(&properties).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	propertyIDs := make([]string, 0, len(properties))
	for _, p := range properties {
		propertyIDs = append(propertyIDs, p.ID)
	}

	var rooms []models.Room
	if len(propertyIDs) > 0 {
		if err := h.db.Where("property_id IN ?", propertyIDs).
			Preload("Property").
			Find(&rooms).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"properties": properties, "rooms": rooms})
}
