package services

import (
	"context"
	"time"

	"spa-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// NetAmount applies pct to gross, rounded half away from zero to cents.
func NetAmount(gross decimal.Decimal, pct int) decimal.Decimal {
	return gross.Mul(decimal.NewFromInt(int64(100 - pct))).Div(hundred).Round(2)
}

// Charges are the line items and per-day payments derived from one booking request.
type Charges struct {
	Items    []models.ReservationService
	Payments []models.Payment
}

// PaymentSynthesizer prices requested services day by day.
type PaymentSynthesizer struct {
	catalog *Catalog
}

func NewPaymentSynthesizer(catalog *Catalog) *PaymentSynthesizer {
	return &PaymentSynthesizer{catalog: catalog}
}

// Build resolves every requested service, emits one payment per calendar date and, in the same
// pass, one line item per requested service. Line items keep request order; payments are sorted
// by date. Nothing is persisted.
func (s *PaymentSynthesizer) Build(ctx context.Context, clientID uuid.UUID, method models.PaymentMethod, pct int, requested []RequestedService) (Charges, error) {
	resolved := make(map[string]*models.Service)
	lookup := func(name string) (*models.Service, error) {
		if svc, ok := resolved[name]; ok {
			return svc, nil
		}
		svc, err := s.catalog.Lookup(ctx, name)
		if err != nil {
			return nil, err
		}
		resolved[name] = svc
		return svc, nil
	}

	items := make([]models.ReservationService, len(requested))
	groups := GroupByDay(requested)
	payments := make([]models.Payment, 0, len(groups))

	for _, group := range groups {
		gross := decimal.Zero
		for i, rs := range group.Services {
			svc, err := lookup(rs.Name)
			if err != nil {
				return Charges{}, err
			}
			gross = gross.Add(svc.Price)

			idx := group.Indexes[i]
			items[idx] = models.ReservationService{
				ServiceID:   svc.ID,
				Service:     svc,
				ScheduledAt: rs.ScheduledAt,
				Position:    idx,
			}
		}
		payments = append(payments, DayPayment(clientID, group.Date, gross, method, pct))
	}

	return Charges{Items: items, Payments: payments}, nil
}

// DayPayment builds the payment charging gross, discounted by pct, on date.
func DayPayment(clientID uuid.UUID, date time.Time, gross decimal.Decimal, method models.PaymentMethod, pct int) models.Payment {
	return models.Payment{
		ClientID:           clientID,
		GrossAmount:        gross,
		Amount:             NetAmount(gross, pct),
		Method:             method,
		PaymentDate:        date,
		DiscountPercentage: pct,
	}
}
