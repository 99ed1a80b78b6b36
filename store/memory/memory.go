// Package memory is a process-local store used when no database is configured and by tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"spa-backend/models"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	clients      map[uuid.UUID]models.Client
	staff        map[uuid.UUID]models.StaffMember
	services     map[uuid.UUID]models.Service
	reservations map[uuid.UUID]models.Reservation
	order        []uuid.UUID
	reminderLogs []models.ReminderLog
	events       []models.OutboxEvent

	saveErr error
	now     func() time.Time
}

func New() *Store {
	return &Store{
		clients:      make(map[uuid.UUID]models.Client),
		staff:        make(map[uuid.UUID]models.StaffMember),
		services:     make(map[uuid.UUID]models.Service),
		reservations: make(map[uuid.UUID]models.Reservation),
		now:          time.Now,
	}
}

// FailSaves makes every following SaveReservation return err. A nil err restores normal saves.
func (s *Store) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

func (s *Store) AddClient(c models.Client) models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt, c.UpdatedAt = s.now(), s.now()
	s.clients[c.ID] = c
	return c
}

func (s *Store) AddStaff(m models.StaffMember) models.StaffMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt, m.UpdatedAt = s.now(), s.now()
	s.staff[m.ID] = m
	return m
}

// AddService stores service, replacing any entry with the same name.
func (s *Store) AddService(service models.Service) models.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.services {
		if existing.Name == service.Name {
			delete(s.services, id)
		}
	}
	if service.ID == uuid.Nil {
		service.ID = uuid.New()
	}
	s.services[service.ID] = service
	return service
}

func (s *Store) FindClientByID(_ context.Context, id uuid.UUID) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *Store) FindStaffByID(_ context.Context, id uuid.UUID) (*models.StaffMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.staff[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *Store) ListStaff(_ context.Context) ([]models.StaffMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	staff := make([]models.StaffMember, 0, len(s.staff))
	for _, m := range s.staff {
		staff = append(staff, m)
	}
	sort.Slice(staff, func(i, j int) bool {
		if staff[i].LastName != staff[j].LastName {
			return staff[i].LastName < staff[j].LastName
		}
		return staff[i].FirstName < staff[j].FirstName
	})
	return staff, nil
}

func (s *Store) SaveReminderLog(_ context.Context, log *models.ReminderLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.CreatedAt = s.now()
	s.reminderLogs = append(s.reminderLogs, *log)
	return nil
}

func (s *Store) ReminderLogs() []models.ReminderLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ReminderLog(nil), s.reminderLogs...)
}

// Events returns the outbox events recorded so far, oldest first.
func (s *Store) Events() []models.OutboxEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.OutboxEvent(nil), s.events...)
}

func (s *Store) recordEvent(eventType string, id uuid.UUID) {
	s.events = append(s.events, models.OutboxEvent{
		ID:            uuid.New(),
		AggregateType: models.AggregateReservation,
		AggregateID:   id,
		EventType:     eventType,
		CreatedAt:     s.now(),
	})
}
