package memory

import (
	"context"
	"sort"
	"time"

	"spa-backend/models"

	"github.com/google/uuid"
)

// SaveReservation stores a copy of r, replacing its children, and fills in the generated ids.
func (s *Store) SaveReservation(_ context.Context, r *models.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}

	now := s.now()
	eventType := models.EventReservationUpdated
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
		r.CreatedAt = now
		eventType = models.EventReservationCreated
	}
	r.UpdatedAt = now

	for i := range r.Services {
		r.Services[i].ID = uuid.New()
		r.Services[i].ReservationID = r.ID
	}
	for i := range r.Payments {
		r.Payments[i].ID = uuid.New()
		r.Payments[i].ReservationID = r.ID
	}

	if _, exists := s.reservations[r.ID]; !exists {
		s.order = append(s.order, r.ID)
	}
	s.reservations[r.ID] = detach(r)
	s.recordEvent(eventType, r.ID)
	return nil
}

func (s *Store) FindReservationByID(_ context.Context, id uuid.UUID) (*models.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reservations[id]
	if !ok {
		return nil, nil
	}
	hydrated := s.hydrate(r)
	return &hydrated, nil
}

func (s *Store) FindReservations(_ context.Context) ([]models.Reservation, error) {
	return s.filter(func(models.Reservation) bool { return true }), nil
}

func (s *Store) FindReservationsByClientID(_ context.Context, clientID uuid.UUID) ([]models.Reservation, error) {
	return s.filter(func(r models.Reservation) bool { return r.ClientID == clientID }), nil
}

func (s *Store) FindReservationsByStaffIDAndDateRange(_ context.Context, staffID uuid.UUID, from, to time.Time) ([]models.Reservation, error) {
	return s.filter(func(r models.Reservation) bool {
		return r.StaffID == staffID && within(r.RequestedAt, from, to)
	}), nil
}

func (s *Store) FindReservationsWithServicesBetween(_ context.Context, from, to time.Time) ([]models.Reservation, error) {
	return s.filter(func(r models.Reservation) bool {
		for _, item := range r.Services {
			if within(item.ScheduledAt, from, to) {
				return true
			}
		}
		return false
	}), nil
}

func (s *Store) DeleteReservationByID(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reservations[id]; !ok {
		return false, nil
	}
	delete(s.reservations, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.recordEvent(models.EventReservationDeleted, id)
	return true, nil
}

func (s *Store) FindPaymentsBetween(_ context.Context, from, to time.Time) ([]models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var payments []models.Payment
	for _, id := range s.order {
		for _, p := range s.reservations[id].Payments {
			if within(p.PaymentDate, from, to) {
				payments = append(payments, p)
			}
		}
	}
	sort.SliceStable(payments, func(i, j int) bool { return payments[i].PaymentDate.Before(payments[j].PaymentDate) })
	return payments, nil
}

func (s *Store) filter(keep func(models.Reservation) bool) []models.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var reservations []models.Reservation
	for _, id := range s.order {
		r := s.reservations[id]
		if keep(r) {
			reservations = append(reservations, s.hydrate(r))
		}
	}
	sort.SliceStable(reservations, func(i, j int) bool {
		return reservations[i].RequestedAt.Before(reservations[j].RequestedAt)
	})
	return reservations
}

// hydrate returns a copy of r with its client, staff member and catalog entries attached, the way
// the database store preloads them.
func (s *Store) hydrate(r models.Reservation) models.Reservation {
	out := r
	if c, ok := s.clients[r.ClientID]; ok {
		out.Client = &c
	}
	if m, ok := s.staff[r.StaffID]; ok {
		out.Staff = &m
	}
	out.Services = make([]models.ReservationService, len(r.Services))
	for i, item := range r.Services {
		if service, ok := s.services[item.ServiceID]; ok {
			item.Service = &service
		}
		out.Services[i] = item
	}
	out.Payments = append([]models.Payment(nil), r.Payments...)
	if r.DiscountPercentage != nil {
		pct := *r.DiscountPercentage
		out.DiscountPercentage = &pct
	}
	return out
}

// detach copies r without its associations so later changes by the caller do not leak in.
func detach(r *models.Reservation) models.Reservation {
	out := *r
	out.Client, out.Staff = nil, nil
	out.Services = make([]models.ReservationService, len(r.Services))
	for i, item := range r.Services {
		item.Service = nil
		out.Services[i] = item
	}
	out.Payments = append([]models.Payment(nil), r.Payments...)
	if r.DiscountPercentage != nil {
		pct := *r.DiscountPercentage
		out.DiscountPercentage = &pct
	}
	return out
}

func within(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
