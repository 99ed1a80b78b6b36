package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"spa-backend/models"
	"spa-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingRequest is the input of a create or update. Status is only read by Update.
type BookingRequest struct {
	ClientID      uuid.UUID
	StaffID       uuid.UUID
	PaymentMethod models.PaymentMethod
	DiscountHint  *int
	RequestedAt   time.Time
	History       string
	Status        models.ReservationStatus
	Services      []RequestedService
}

type BookingConfig struct {
	MinLeadTime time.Duration
	Discount    DiscountPolicy
	// Now defaults to time.Now.
	Now func() time.Time
}

// BookingService turns booking requests into persisted reservations with per-day payments.
type BookingService struct {
	clients      ClientFinder
	staff        StaffFinder
	reservations ReservationStore
	payments     *PaymentSynthesizer
	leadTime     LeadTimeValidator
	discount     DiscountPolicy
	now          func() time.Time
	messenger    Messenger
	logger       *zap.Logger
}

func NewBookingService(clients ClientFinder, staff StaffFinder, catalog CatalogFinder, reservations ReservationStore, cfg BookingConfig, logger *zap.Logger) *BookingService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		clients:      clients,
		staff:        staff,
		reservations: reservations,
		payments:     NewPaymentSynthesizer(NewCatalog(catalog)),
		leadTime:     LeadTimeValidator{Minimum: cfg.MinLeadTime},
		discount:     cfg.Discount,
		now:          now,
		logger:       logger,
	}
}

// WithMessenger enables booking confirmations sent to the client after a successful create.
func (s *BookingService) WithMessenger(m Messenger) *BookingService {
	s.messenger = m
	return s
}

func (s *BookingService) Create(ctx context.Context, req BookingRequest) (*models.Reservation, error) {
	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}

	client, staff, err := s.resolveParties(ctx, req.ClientID, req.StaffID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.leadTime.CheckAll(now, req.Services); err != nil {
		return nil, err
	}

	pct, err := s.discount.Percentage(req.PaymentMethod, req.DiscountHint)
	if err != nil {
		return nil, err
	}

	charges, err := s.payments.Build(ctx, client.ID, req.PaymentMethod, pct, req.Services)
	if err != nil {
		return nil, err
	}

	requestedAt := req.RequestedAt
	if requestedAt.IsZero() {
		requestedAt = now
	}

	reservation := &models.Reservation{
		ClientID:           client.ID,
		Client:             client,
		StaffID:            staff.ID,
		Staff:              staff,
		RequestedAt:        requestedAt,
		Status:             models.StatusPending,
		PaymentMethod:      req.PaymentMethod,
		DiscountPercentage: discountField(pct),
		History:            req.History,
		Services:           charges.Items,
		Payments:           charges.Payments,
	}

	if err := s.reservations.SaveReservation(ctx, reservation); err != nil {
		return nil, persistence("save reservation", err)
	}

	s.logger.Info("reservation created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("client_id", client.ID.String()),
		zap.Int("services", len(reservation.Services)),
		zap.Int("payments", len(reservation.Payments)),
		zap.String("total", reservation.Total().StringFixed(2)))

	s.sendConfirmation(ctx, reservation)
	return reservation, nil
}

// Update replaces the scalar fields of a reservation verbatim, status included, and rebuilds its
// line items and payments from req.Services. The replacement is saved atomically.
// An empty status is rejected rather than defaulted: the stored status is overwritten with
// req.Status, so accepting "" would persist a reservation with no valid status.
func (s *BookingService) Update(ctx context.Context, id uuid.UUID, req BookingRequest) (*models.Reservation, error) {
	reservation, err := s.reservations.FindReservationByID(ctx, id)
	if err != nil {
		return nil, persistence("find reservation", err)
	}
	if reservation == nil {
		return nil, notFound("reservation", id.String())
	}

	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}
	if req.Status == "" {
		return nil, invalid("status", "is required")
	}
	if _, err := models.ParseReservationStatus(string(req.Status)); err != nil {
		return nil, invalid("status", err.Error())
	}

	client, staff, err := s.resolveParties(ctx, req.ClientID, req.StaffID)
	if err != nil {
		return nil, err
	}

	pct, err := s.discount.Percentage(req.PaymentMethod, req.DiscountHint)
	if err != nil {
		return nil, err
	}

	charges, err := s.payments.Build(ctx, client.ID, req.PaymentMethod, pct, req.Services)
	if err != nil {
		return nil, err
	}

	reservation.ClientID = client.ID
	reservation.Client = client
	reservation.StaffID = staff.ID
	reservation.Staff = staff
	if !req.RequestedAt.IsZero() {
		reservation.RequestedAt = req.RequestedAt
	}
	reservation.Status = req.Status
	reservation.PaymentMethod = req.PaymentMethod
	reservation.DiscountPercentage = discountField(pct)
	reservation.History = req.History
	reservation.Services = charges.Items
	reservation.Payments = charges.Payments

	if err := s.reservations.SaveReservation(ctx, reservation); err != nil {
		return nil, persistence("save reservation", err)
	}

	s.logger.Info("reservation updated",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("status", string(reservation.Status)),
		zap.Int("payments", len(reservation.Payments)))
	return reservation, nil
}

func (s *BookingService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.reservations.DeleteReservationByID(ctx, id)
	if err != nil {
		return persistence("delete reservation", err)
	}
	if !deleted {
		return notFound("reservation", id.String())
	}
	s.logger.Info("reservation deleted", zap.String("reservation_id", id.String()))
	return nil
}

func (s *BookingService) List(ctx context.Context) ([]models.Reservation, error) {
	reservations, err := s.reservations.FindReservations(ctx)
	if err != nil {
		return nil, persistence("list reservations", err)
	}
	return reservations, nil
}

// Get returns nil without error when the reservation does not exist.
func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	reservation, err := s.reservations.FindReservationByID(ctx, id)
	if err != nil {
		return nil, persistence("find reservation", err)
	}
	return reservation, nil
}

func (s *BookingService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Reservation, error) {
	reservations, err := s.reservations.FindReservationsByClientID(ctx, clientID)
	if err != nil {
		return nil, persistence("list reservations by client", err)
	}
	return reservations, nil
}

// ListByStaffOnDay returns the staff member's reservations requested between 00:00:00.000 and
// 23:59:59.999 of day, in day's location.
func (s *BookingService) ListByStaffOnDay(ctx context.Context, staffID uuid.UUID, day time.Time) ([]models.Reservation, error) {
	from, to := utils.BeginningOfDay(day), utils.EndOfDay(day)
	reservations, err := s.reservations.FindReservationsByStaffIDAndDateRange(ctx, staffID, from, to)
	if err != nil {
		return nil, persistence("list reservations by staff", err)
	}
	return reservations, nil
}

// Today is the current date according to the service clock.
func (s *BookingService) Today() time.Time {
	return s.now()
}

func (s *BookingService) resolveParties(ctx context.Context, clientID, staffID uuid.UUID) (*models.Client, *models.StaffMember, error) {
	client, err := s.clients.FindClientByID(ctx, clientID)
	if err != nil {
		return nil, nil, persistence("find client", err)
	}
	if client == nil {
		return nil, nil, notFound("client", clientID.String())
	}

	staff, err := s.staff.FindStaffByID(ctx, staffID)
	if err != nil {
		return nil, nil, persistence("find staff", err)
	}
	if staff == nil {
		return nil, nil, notFound("staff member", staffID.String())
	}
	if staff.Role == "" {
		return nil, nil, invalid("staffId", "staff member "+staffID.String()+" has no assigned role")
	}
	if !staff.Role.Bookable() {
		return nil, nil, invalid("staffId", fmt.Sprintf("role %s cannot take reservations", staff.Role))
	}
	return client, staff, nil
}

func (s *BookingService) sendConfirmation(ctx context.Context, r *models.Reservation) {
	if s.messenger == nil || r.Client == nil || !utils.ValidatePhone(r.Client.Phone) {
		return
	}

	var days []string
	for _, p := range r.Payments {
		days = append(days, p.PaymentDate.Format(utils.DateLayout))
	}
	body := fmt.Sprintf("Hi %s, your spa reservation for %s is registered and pending confirmation. Total: $%s (%s).",
		r.Client.FirstName, strings.Join(days, ", "), r.Total().StringFixed(2), r.PaymentMethod.Label())

	channel, err := s.messenger.Send(ctx, utils.NormalizePhone(r.Client.Phone), body)
	if err != nil {
		s.logger.Warn("reservation confirmation not sent",
			zap.String("reservation_id", r.ID.String()),
			zap.Error(err))
		return
	}
	s.logger.Debug("reservation confirmation sent",
		zap.String("reservation_id", r.ID.String()),
		zap.String("channel", channel))
}

func validateBookingRequest(req BookingRequest) error {
	if req.PaymentMethod == "" {
		return invalid("paymentMethod", "is required")
	}
	if !req.PaymentMethod.Valid() {
		return invalid("paymentMethod", fmt.Sprintf("unknown payment method %q", req.PaymentMethod))
	}
	if len(req.Services) == 0 {
		return invalid("services", "at least one service is required")
	}
	for i, s := range req.Services {
		if strings.TrimSpace(s.Name) == "" {
			return invalid(fmt.Sprintf("services[%d].service", i), "is required")
		}
		if s.ScheduledAt.IsZero() {
			return invalid(fmt.Sprintf("services[%d].scheduledAt", i), "is required")
		}
	}
	return nil
}

func discountField(pct int) *int {
	if pct == 0 {
		return nil
	}
	return &pct
}
