package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"spa-backend/models"
	"spa-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationEvent is the payload of the reservation outbox events.
type ReservationEvent struct {
	ReservationID uuid.UUID                `json:"reservationId"`
	ClientID      uuid.UUID                `json:"clientId,omitempty"`
	StaffID       uuid.UUID                `json:"staffId,omitempty"`
	Status        models.ReservationStatus `json:"status,omitempty"`
	PaymentMethod models.PaymentMethod     `json:"paymentMethod,omitempty"`
	Total         decimal.Decimal          `json:"total"`
	Dates         []string                 `json:"dates,omitempty"`
	OccurredAt    time.Time                `json:"occurredAt"`
}

func reservationEvent(eventType string, r *models.Reservation, now time.Time) (*models.OutboxEvent, error) {
	payload := ReservationEvent{
		ReservationID: r.ID,
		ClientID:      r.ClientID,
		StaffID:       r.StaffID,
		Status:        r.Status,
		PaymentMethod: r.PaymentMethod,
		Total:         r.Total(),
		OccurredAt:    now,
	}
	for _, p := range r.Payments {
		payload.Dates = append(payload.Dates, p.PaymentDate.Format(utils.DateLayout))
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &models.OutboxEvent{
		AggregateType: models.AggregateReservation,
		AggregateID:   r.ID,
		EventType:     eventType,
		Payload:       body,
	}, nil
}

func (s *Store) reservations(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Client").
		Preload("Staff").
		Preload("Services", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Services.Service").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date ASC")
		})
}

// SaveReservation inserts or updates r and replaces its line items and payments, writing the
// matching outbox event in the same transaction.
func (s *Store) SaveReservation(ctx context.Context, r *models.Reservation) error {
	created := r.ID == uuid.Nil
	eventType := models.EventReservationUpdated
	if created {
		eventType = models.EventReservationCreated
	}

	err := retryExec(ctx, s.retry, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if created {
				if err := tx.Omit(clause.Associations).Create(r).Error; err != nil {
					return err
				}
			} else {
				if err := tx.Omit(clause.Associations).Save(r).Error; err != nil {
					return err
				}
				if err := tx.Where("reservation_id = ?", r.ID).Delete(&models.ReservationService{}).Error; err != nil {
					return err
				}
				if err := tx.Where("reservation_id = ?", r.ID).Delete(&models.Payment{}).Error; err != nil {
					return err
				}
			}

			for i := range r.Services {
				r.Services[i].ReservationID = r.ID
				r.Services[i].ID = uuid.Nil
			}
			for i := range r.Payments {
				r.Payments[i].ReservationID = r.ID
				r.Payments[i].ID = uuid.Nil
			}
			if len(r.Services) > 0 {
				if err := tx.Omit(clause.Associations).Create(&r.Services).Error; err != nil {
					return err
				}
			}
			if len(r.Payments) > 0 {
				if err := tx.Create(&r.Payments).Error; err != nil {
					return err
				}
			}

			event, err := reservationEvent(eventType, r, time.Now().UTC())
			if err != nil {
				return err
			}
			return tx.Create(event).Error
		})
	})
	if err != nil && created {
		// A rolled back insert must not leave the caller with an id that was never stored.
		r.ID = uuid.Nil
	}
	return err
}

// FindReservationByID returns nil without error when no reservation has that id.
func (s *Store) FindReservationByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	return retry(ctx, s.retry, func() (*models.Reservation, error) {
		var r models.Reservation
		err := s.reservations(ctx).First(&r, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &r, nil
	})
}

func (s *Store) FindReservations(ctx context.Context) ([]models.Reservation, error) {
	return s.findReservations(ctx, func(db *gorm.DB) *gorm.DB { return db })
}

func (s *Store) FindReservationsByClientID(ctx context.Context, clientID uuid.UUID) ([]models.Reservation, error) {
	return s.findReservations(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("client_id = ?", clientID)
	})
}

func (s *Store) FindReservationsByStaffIDAndDateRange(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]models.Reservation, error) {
	return s.findReservations(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("staff_id = ? AND requested_at BETWEEN ? AND ?", staffID, from, to)
	})
}

func (s *Store) FindReservationsWithServicesBetween(ctx context.Context, from, to time.Time) ([]models.Reservation, error) {
	return s.findReservations(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN (?)", s.scheduledReservationIDs(ctx, from, to))
	})
}

// scheduledReservationIDs selects the reservations with a line item scheduled in [from, to].
func (s *Store) scheduledReservationIDs(ctx context.Context, from, to time.Time) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.ReservationService{}).
		Select("reservation_id").
		Where("scheduled_at BETWEEN ? AND ?", from, to)
}

func (s *Store) findReservations(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]models.Reservation, error) {
	return retry(ctx, s.retry, func() ([]models.Reservation, error) {
		var reservations []models.Reservation
		err := s.reservations(ctx).Scopes(scope).Order("requested_at ASC").Find(&reservations).Error
		return reservations, err
	})
}

// DeleteReservationByID removes the reservation and its children. It reports false when no
// reservation had that id.
func (s *Store) DeleteReservationByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return retry(ctx, s.retry, func() (bool, error) {
		deleted := false
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var r models.Reservation
			err := tx.Preload("Payments").First(&r, "id = ?", id).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			if err != nil {
				return err
			}

			if err := tx.Where("reservation_id = ?", id).Delete(&models.ReservationService{}).Error; err != nil {
				return err
			}
			if err := tx.Where("reservation_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Reservation{}, "id = ?", id).Error; err != nil {
				return err
			}

			event, err := reservationEvent(models.EventReservationDeleted, &r, time.Now().UTC())
			if err != nil {
				return err
			}
			if err := tx.Create(event).Error; err != nil {
				return err
			}
			deleted = true
			return nil
		})
		if err != nil {
			return false, err
		}
		if deleted {
			s.logger.Debug("reservation removed", zap.String("reservation_id", id.String()))
		}
		return deleted, nil
	})
}

func (s *Store) FindPaymentsBetween(ctx context.Context, from, to time.Time) ([]models.Payment, error) {
	return retry(ctx, s.retry, func() ([]models.Payment, error) {
		var payments []models.Payment
		err := s.db.WithContext(ctx).
			Where("payment_date BETWEEN ? AND ?", from, to).
			Order("payment_date ASC").
			Find(&payments).Error
		return payments, err
	})
}
