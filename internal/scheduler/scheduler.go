package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"rental-portal/internal/config"
	"rental-portal/internal/models"
	"rental-portal/internal/notify"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Scheduler runs the daily stale-visit sweep: reports still submitted after
// the configured threshold are escalated to every admin account.
type Scheduler struct {
	cron      *cron.Cron
	db        *gorm.DB
	notifier  *notify.Service
	config    *config.SchedulerConfig
	isRunning bool
}

// NewScheduler creates a new scheduler
func NewScheduler(db *gorm.DB, notifier *notify.Service, cfg *config.SchedulerConfig) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		db:       db,
		notifier: notifier,
		config:   cfg,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	if !s.config.Enabled {
		log.Println("Scheduler: Daily sweep is disabled in configuration")
		return nil
	}

	cronSpec := s.parseDailyRunTime(s.config.DailyRunTime)

	_, err := s.cron.AddFunc(cronSpec, func() {
		log.Println("Scheduler: Starting stale-visit sweep...")
		if err := s.RunNow(); err != nil {
			log.Printf("Scheduler: Stale-visit sweep failed: %v", err)
		} else {
			log.Println("Scheduler: Stale-visit sweep completed successfully")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Scheduler: Started with daily run at %s (cron: %s)", s.config.DailyRunTime, cronSpec)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("Scheduler: Stopped")
	}
}

// RunNow executes the sweep immediately (also used by the manual trigger
// endpoint).
func (s *Scheduler) RunNow() error {
	ctx := context.Background()
	cutoff := time.Now().Add(-s.config.StaleAfter())

	var stale []models.VisitReport
	if err := s.db.
		Where("status = ? AND created_at < ?", models.VisitStatusSubmitted, cutoff).
		Find(&stale).Error; err != nil {
		return err
	}
	if len(stale) == 0 {
		log.Println("Scheduler: No stale visit reports found")
		return nil
	}

	var admins []models.User
	if err := s.db.
		Where("role IN ?", []models.Role{models.RoleAdmin, models.RoleSuperAdmin}).
		Find(&admins).Error; err != nil {
		return err
	}

	log.Printf("Scheduler: Found %d stale visit reports, notifying %d admins", len(stale), len(admins))

	message := fmt.Sprintf("%d visit report(s) have been awaiting review for more than %d days.",
		len(stale), s.config.StaleAfterDays)

	notified := 0
	for _, admin := range admins {
		if _, err := s.notifier.Notify(ctx, admin.ID, models.NotificationTypeVisitEscalation, message); err != nil {
			log.Printf("Scheduler: Failed to notify admin %s: %v", admin.LoginID, err)
			continue
		}
		notified++
	}

	log.Printf("Scheduler: Sweep completed. Stale: %d, Notified: %d", len(stale), notified)
	return nil
}

// parseDailyRunTime converts HH:MM format to cron specification
// Example: "02:00" -> "0 2 * * *" (run at 2:00 AM every day)
func (s *Scheduler) parseDailyRunTime(timeStr string) string {
	var hour, minute int
	n, _ := fmt.Sscanf(timeStr, "%d:%d", &hour, &minute)
	if n == 2 {
		return fmt.Sprintf("%d %d * * *", minute, hour)
	}

	// Default to 2:00 AM if parsing fails
	log.Printf("Scheduler: Failed to parse time '%s', using default 02:00", timeStr)
	return "0 2 * * *"
}
