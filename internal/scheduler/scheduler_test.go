package scheduler

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"rental-portal/internal/config"
	"rental-portal/internal/models"
	"rental-portal/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.VisitReport{},
		&models.Notification{},
	))
	return db
}

func newTestScheduler(db *gorm.DB, staleAfterDays int) *Scheduler {
	cfg := &config.SchedulerConfig{
		Enabled:        true,
		DailyRunTime:   "02:00",
		StaleAfterDays: staleAfterDays,
	}
	return NewScheduler(db, notify.NewService(db, nil, nil), cfg)
}

func seedVisitAge(t *testing.T, db *gorm.DB, age time.Duration) *models.VisitReport {
	t.Helper()
	visit := &models.VisitReport{
		PropertyInfo: models.PropertyInfo{
			OwnerName:    "Asha",
			ContactPhone: "9998887777",
		},
		Status: models.VisitStatusSubmitted,
	}
	require.NoError(t, db.Create(visit).Error)
	// AutoMigrate timestamps default to now; push them back explicitly.
	require.NoError(t, db.Model(visit).Update("created_at", time.Now().Add(-age)).Error)
	return visit
}

func TestRunNowEscalatesStaleVisits(t *testing.T) {
	db := setupTestDB(t)
	s := newTestScheduler(db, 3)

	admin := &models.User{LoginID: "ADM-0001", Name: "Admin", Role: models.RoleAdmin, Status: models.UserStatusActive}
	super := &models.User{LoginID: "SUP-0001", Name: "Super", Role: models.RoleSuperAdmin, Status: models.UserStatusActive}
	tenant := &models.User{LoginID: "TEN-0001", Name: "Tenant", Role: models.RoleTenant, Status: models.UserStatusActive}
	require.NoError(t, db.Create(admin).Error)
	require.NoError(t, db.Create(super).Error)
	require.NoError(t, db.Create(tenant).Error)

	seedVisitAge(t, db, 5*24*time.Hour)
	seedVisitAge(t, db, 4*24*time.Hour)
	// Fresh report stays out of the sweep.
	seedVisitAge(t, db, 2*time.Hour)

	require.NoError(t, s.RunNow())

	var notifications []models.Notification
	require.NoError(t, db.Order("recipient_id").Find(&notifications).Error)
	require.Len(t, notifications, 2)
	for _, n := range notifications {
		assert.Equal(t, models.NotificationTypeVisitEscalation, n.Type)
		assert.Contains(t, n.Message, "2 visit report(s)")
	}

	recipients := []string{notifications[0].RecipientID, notifications[1].RecipientID}
	assert.Contains(t, recipients, admin.ID)
	assert.Contains(t, recipients, super.ID)
	assert.NotContains(t, recipients, tenant.ID)
}

func TestRunNowSkipsDecidedReports(t *testing.T) {
	db := setupTestDB(t)
	s := newTestScheduler(db, 3)

	admin := &models.User{LoginID: "ADM-0001", Name: "Admin", Role: models.RoleAdmin, Status: models.UserStatusActive}
	require.NoError(t, db.Create(admin).Error)

	old := seedVisitAge(t, db, 10*24*time.Hour)
	require.NoError(t, db.Model(old).Update("status", models.VisitStatusApproved).Error)

	require.NoError(t, s.RunNow())

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRunNowNoStaleIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	s := newTestScheduler(db, 3)

	seedVisitAge(t, db, time.Hour)
	require.NoError(t, s.RunNow())

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestParseDailyRunTime(t *testing.T) {
	s := newTestScheduler(setupTestDB(t), 3)

	assert.Equal(t, "0 2 * * *", s.parseDailyRunTime("02:00"))
	assert.Equal(t, "30 14 * * *", s.parseDailyRunTime("14:30"))
	assert.Equal(t, "0 2 * * *", s.parseDailyRunTime("not-a-time"))
}
