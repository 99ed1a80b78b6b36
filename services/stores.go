package services

import (
	"context"
	"time"

	"spa-backend/models"

	"github.com/google/uuid"
)

// Finders return (nil, nil) when the record does not exist.

type ClientFinder interface {
	FindClientByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
}

type StaffFinder interface {
	FindStaffByID(ctx context.Context, id uuid.UUID) (*models.StaffMember, error)
	ListStaff(ctx context.Context) ([]models.StaffMember, error)
}

type CatalogFinder interface {
	FindServiceByName(ctx context.Context, name string) (*models.Service, error)
}

// ReservationStore persists reservations together with their line items and payments.
// SaveReservation is an upsert: the stored children are replaced by r.Services and r.Payments
// in the same transaction as the parent row.
type ReservationStore interface {
	SaveReservation(ctx context.Context, r *models.Reservation) error
	FindReservationByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	FindReservations(ctx context.Context) ([]models.Reservation, error)
	FindReservationsByClientID(ctx context.Context, clientID uuid.UUID) ([]models.Reservation, error)
	FindReservationsByStaffIDAndDateRange(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]models.Reservation, error)
	// FindReservationsWithServicesBetween returns reservations having at least one line item
	// scheduled in [from, to], with Client and Services loaded.
	FindReservationsWithServicesBetween(ctx context.Context, from, to time.Time) ([]models.Reservation, error)
	// DeleteReservationByID reports false when no reservation had that id.
	DeleteReservationByID(ctx context.Context, id uuid.UUID) (bool, error)
}

type PaymentFinder interface {
	FindPaymentsBetween(ctx context.Context, from, to time.Time) ([]models.Payment, error)
}

type ReminderLogStore interface {
	SaveReminderLog(ctx context.Context, log *models.ReminderLog) error
}
