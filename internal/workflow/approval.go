// Package workflow turns submitted visit reports into live owner, user and
// property records.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"

	"rental-portal/internal/config"
	"rental-portal/internal/credentials"
	"rental-portal/internal/models"
	"rental-portal/internal/notify"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrVisitNotFound means no visit report exists for the given id.
	ErrVisitNotFound = errors.New("visit report not found")
	// ErrVisitAlreadyDecided means the report has already left the
	// submitted state, so no further transition is allowed.
	ErrVisitAlreadyDecided = errors.New("visit report already decided")
)

// LoginIDSource yields loginIds for new owner accounts. The database unique
// index stays authoritative; Approve retries when a generated id loses the
// race.
type LoginIDSource interface {
	NextLoginID(locationCode string) (string, error)
}

// Service runs the approval and rejection workflows. All record creation for
// a single approval happens inside one transaction: either the report is
// claimed and the full user/owner/property triple exists, or nothing does.
type Service struct {
	db       *gorm.DB
	gen      LoginIDSource
	defaults config.WorkflowConfig
	notifier *notify.Service
}

// ApprovalResult carries the one-time credentials back to the caller. The
// plaintext temp password exists only here; at rest it is bcrypt-hashed.
type ApprovalResult struct {
	LoginID      string              `json:"loginId"`
	TempPassword string              `json:"tempPassword"`
	Visit        *models.VisitReport `json:"visit"`
}

func NewService(db *gorm.DB, defaults config.WorkflowConfig, notifier *notify.Service) *Service {
	return &Service{
		db:       db,
		gen:      credentials.NewGenerator(db, defaults.FallbackLocationCode, defaults.MaxLoginIDAttempts),
		defaults: defaults,
		notifier: notifier,
	}
}

// Approve converts a submitted visit report into an active user account, an
// owner profile pending KYC, and an inactive property. A report that has
// already been decided is left untouched and reported as a conflict.
func (s *Service) Approve(ctx context.Context, visitID string) (*ApprovalResult, error) {
	var visit models.VisitReport
	if err := s.db.WithContext(ctx).First(&visit, "id = ?", visitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitNotFound
		}
		return nil, err
	}
	if visit.Status != models.VisitStatusSubmitted {
		return nil, ErrVisitAlreadyDecided
	}

	attempts := s.defaults.MaxLoginIDAttempts
	if attempts <= 0 {
		attempts = 5
	}

	var result *ApprovalResult
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err = s.approveOnce(ctx, &visit)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Another approval raced us to this loginId. The unique index
			// rolled everything back; try again with a fresh id.
			log.Printf("Workflow: loginId collision on visit %s (attempt %d), retrying", visit.ID, attempt)
			continue
		}
		return result, err
	}
	return nil, fmt.Errorf("approve visit %s: %w", visit.ID, err)
}

func (s *Service) approveOnce(ctx context.Context, visit *models.VisitReport) (*ApprovalResult, error) {
	info := visit.PropertyInfo

	loginID, err := s.gen.NextLoginID(info.LocationCode)
	if err != nil {
		return nil, err
	}
	tempPassword, err := credentials.TempPassword(s.defaults.TempPasswordLength)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	ownerName := info.OwnerName
	if ownerName == "" {
		ownerName = s.defaults.FallbackOwnerName
	}
	phone := info.ContactPhone
	if phone == "" {
		phone = s.defaults.FallbackPhone
	}

	user := models.User{
		Name:         ownerName,
		Phone:        phone,
		Password:     string(hash),
		Role:         models.RoleOwner,
		LoginID:      loginID,
		LocationCode: info.LocationCode,
		Status:       models.UserStatusActive,
	}
	owner := models.Owner{
		LoginID:      loginID,
		Name:         info.OwnerName,
		Phone:        info.ContactPhone,
		Address:      info.Address,
		LocationCode: info.LocationCode,
		Credentials:  models.Credentials{Password: string(hash), FirstTime: true},
		KYC:          models.KYC{Status: models.KYCStatusPending},
	}
	property := models.Property{
		Title:        info.Name,
		Address:      info.Address,
		LocationCode: info.LocationCode,
		Status:       models.PropertyStatusInactive,
		OwnerLoginID: loginID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Atomically claim the report. A concurrent approval that got here
		// first leaves RowsAffected at zero.
		claim := tx.Model(&models.VisitReport{}).
			Where("id = ? AND status = ?", visit.ID, models.VisitStatusSubmitted).
			Update("status", models.VisitStatusApproved)
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return ErrVisitAlreadyDecided
		}

		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		owner.Credentials.FirstTime = true
		if err := tx.Create(&owner).Error; err != nil {
			return err
		}

		// Reference and denormalized loginId are written together.
		property.OwnerID = &user.ID
		property.OwnerLoginID = loginID
		if err := tx.Create(&property).Error; err != nil {
			return err
		}

		return tx.Model(&models.VisitReport{}).
			Where("id = ?", visit.ID).
			Updates(map[string]interface{}{
				"cred_login_id":      loginID,
				"cred_temp_password": string(hash),
				"property_id":        property.ID,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	visit.Status = models.VisitStatusApproved
	visit.GeneratedCredentials = models.GeneratedCredentials{LoginID: loginID, TempPassword: string(hash)}
	visit.PropertyID = &property.ID

	if s.notifier != nil {
		if _, err := s.notifier.Notify(ctx, user.ID, models.NotificationTypeOwnerOnboarded,
			fmt.Sprintf("Welcome! Your owner account %s is ready. Complete KYC to activate listings.", loginID)); err != nil {
			log.Printf("Workflow: onboarding notification failed for %s: %v", loginID, err)
		}
		s.notifier.Alert(fmt.Sprintf("Visit %s approved: owner %s, property %q (%s)",
			visit.ID, loginID, property.Title, info.LocationCode))
	}

	return &ApprovalResult{LoginID: loginID, TempPassword: tempPassword, Visit: visit}, nil
}

// Reject marks a report rejected. Re-rejecting is a no-op success; rejecting
// an approved report is a conflict since approval already produced records.
func (s *Service) Reject(ctx context.Context, visitID string) (*models.VisitReport, error) {
	var visit models.VisitReport
	if err := s.db.WithContext(ctx).First(&visit, "id = ?", visitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitNotFound
		}
		return nil, err
	}
	if visit.Status == models.VisitStatusApproved {
		return nil, ErrVisitAlreadyDecided
	}

	res := s.db.WithContext(ctx).Model(&models.VisitReport{}).
		Where("id = ? AND status <> ?", visit.ID, models.VisitStatusApproved).
		Update("status", models.VisitStatusRejected)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Approved between our read and the update.
		return nil, ErrVisitAlreadyDecided
	}

	visit.Status = models.VisitStatusRejected
	return &visit, nil
}
