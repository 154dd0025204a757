package services

import (
	"log"
	"sync"
	"time"

	"feveo/taskmanager/database"
	"feveo/taskmanager/models"

	"github.com/robfig/cron/v3"
)

type RetentionServiceInterface interface {
	Start() error
	Stop()
	PurgeDispatchedEvents(before time.Time) (int64, error)
}

// RetentionService periodically deletes outbox events that were dispatched
// longer ago than the retention window.
type RetentionService struct {
	db        *database.Database
	retention time.Duration
	schedule  string

	mu   sync.Mutex
	cron *cron.Cron
}

func NewRetentionService(db *database.Database, retention time.Duration, schedule string) *RetentionService {
	if schedule == "" {
		schedule = "@hourly"
	}
	return &RetentionService{
		db:        db,
		retention: retention,
		schedule:  schedule,
	}
}

// Start registers the purge job. A retention of zero or less disables it.
func (s *RetentionService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil || s.retention <= 0 {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(s.schedule, s.runPurge); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	log.Printf("Event retention job scheduled (%s, keep %s)", s.schedule, s.retention)
	return nil
}

func (s *RetentionService) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

func (s *RetentionService) runPurge() {
	purged, err := s.PurgeDispatchedEvents(time.Now().Add(-s.retention))
	if err != nil {
		log.Printf("Error purging dispatched events: %v", err)
		return
	}
	if purged > 0 {
		log.Printf("Purged %d dispatched events", purged)
	}
}

// PurgeDispatchedEvents deletes dispatched events older than before.
// Pending events are never removed.
func (s *RetentionService) PurgeDispatchedEvents(before time.Time) (int64, error) {
	result := s.db.DB.Where("dispatched = ? AND dispatched_at < ?", true, before).Delete(&models.Event{})
	return result.RowsAffected, result.Error
}

var _ RetentionServiceInterface = (*RetentionService)(nil)
