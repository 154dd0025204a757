package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"feveo/taskmanager/broker"
	"feveo/taskmanager/database"
	"feveo/taskmanager/models"

	"gorm.io/gorm/clause"
)

const eventBatchSize = 100

type EventHandlerServiceInterface interface {
	Start()
	Stop()
	ProcessPendingEvents() (int, error)
}

// EventHandlerService drains the events outbox into a broker.Producer.
type EventHandlerService struct {
	db       *database.Database
	producer broker.Producer
	interval time.Duration

	mu        sync.Mutex
	isRunning bool
	stopChan  chan struct{}
	done      chan struct{}
}

func NewEventHandlerService(db *database.Database, producer broker.Producer, interval time.Duration) *EventHandlerService {
	if interval <= 0 {
		interval = time.Second
	}
	return &EventHandlerService{
		db:       db,
		producer: producer,
		interval: interval,
	}
}

func (s *EventHandlerService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stopChan, s.done)
}

func (s *EventHandlerService) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()

	<-done
}

func (s *EventHandlerService) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if _, err := s.ProcessPendingEvents(); err != nil {
				log.Printf("Error processing pending events: %v", err)
			}
		}
	}
}

// ProcessPendingEvents publishes one batch of undispatched events in order
// and returns how many were dispatched. Events that fail to publish stay
// pending and are retried on the next pass.
func (s *EventHandlerService) ProcessPendingEvents() (int, error) {
	var events []models.Event
	if err := s.db.DB.Where("dispatched = ?", false).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}}).
		Limit(eventBatchSize).
		Find(&events).Error; err != nil {
		return 0, err
	}

	dispatched := 0
	for _, event := range events {
		if err := s.dispatchEvent(event); err != nil {
			log.Printf("Error dispatching event %s: %v", event.ID, err)
			// Keep per-actor ordering: later events wait for this one.
			break
		}
		dispatched++
	}

	if dispatched > 0 {
		log.Printf("Dispatched %d of %d pending events", dispatched, len(events))
	}
	return dispatched, nil
}

func (s *EventHandlerService) dispatchEvent(event models.Event) error {
	envelope := broker.EventEnvelope{
		EventID:   event.ID.String(),
		Event:     event.Event,
		Entity:    event.Entity,
		Operation: event.Operation,
		ActorID:   event.ActorID,
		Timestamp: event.Timestamp,
		Data:      event.Data,
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	if err := s.producer.Publish(broker.SubjectFor(event.Event), payload); err != nil {
		return err
	}

	now := time.Now()
	return s.db.DB.Model(&models.Event{}).Where("id = ?", event.ID).Updates(map[string]interface{}{
		"dispatched":    true,
		"dispatched_at": now,
		"status":        "completed",
	}).Error
}

var _ EventHandlerServiceInterface = (*EventHandlerService)(nil)
