package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"spa-backend/models"
	"spa-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	invoicePrefix     = "INV-"
	invoiceDateLayout = "20060102"
)

// InvoiceNumber is the number of the invoice covering a client's services on date.
func InvoiceNumber(date time.Time) string {
	return invoicePrefix + utils.CalendarDate(date).Format(invoiceDateLayout)
}

// ParseInvoiceNumber extracts the calendar date from an INV-YYYYMMDD number.
func ParseInvoiceNumber(number string) (time.Time, error) {
	if !strings.HasPrefix(number, invoicePrefix) {
		return time.Time{}, invalid("invoiceNumber", "expected INV-YYYYMMDD")
	}
	date, err := time.Parse(invoiceDateLayout, strings.TrimPrefix(number, invoicePrefix))
	if err != nil {
		return time.Time{}, invalid("invoiceNumber", "expected INV-YYYYMMDD")
	}
	return date, nil
}

type InvoiceLine struct {
	Service     string          `json:"service"`
	Price       decimal.Decimal `json:"price"`
	ScheduledAt time.Time       `json:"scheduledAt"`
}

// Invoice summarizes what a client owes for one calendar date.
type Invoice struct {
	Number             string          `json:"invoiceNumber"`
	Date               time.Time       `json:"date"`
	ClientName         string          `json:"clientName"`
	NationalID         string          `json:"nationalId"`
	Email              string          `json:"email"`
	ReservedAt         time.Time       `json:"reservedAt"`
	Lines              []InvoiceLine   `json:"services"`
	PaymentMethod      string          `json:"paymentMethod"`
	Original           decimal.Decimal `json:"originalAmount"`
	DiscountPercentage *int            `json:"discountPercentage"`
	DiscountAmount     decimal.Decimal `json:"discountAmount"`
	Total              decimal.Decimal `json:"total"`
}

type InvoiceService struct {
	clients      ClientFinder
	reservations ReservationStore
}

func NewInvoiceService(clients ClientFinder, reservations ReservationStore) *InvoiceService {
	return &InvoiceService{clients: clients, reservations: reservations}
}

// ForDay builds the invoice of every service the client has scheduled on the date encoded in
// number, across all of the client's reservations.
func (s *InvoiceService) ForDay(ctx context.Context, clientID uuid.UUID, number string) (*Invoice, error) {
	date, err := ParseInvoiceNumber(number)
	if err != nil {
		return nil, err
	}

	client, err := s.clients.FindClientByID(ctx, clientID)
	if err != nil {
		return nil, persistence("find client", err)
	}
	if client == nil {
		return nil, notFound("client", clientID.String())
	}

	reservations, err := s.reservations.FindReservationsByClientID(ctx, clientID)
	if err != nil {
		return nil, persistence("list reservations by client", err)
	}

	invoice := &Invoice{
		Number:     number,
		Date:       date,
		ClientName: client.FullName(),
		NationalID: orNA(client.NationalID),
		Email:      orNA(client.Email),
	}

	var (
		paid     = decimal.Zero
		payments int
		pct      int
		matched  *models.Reservation
	)
	for i := range reservations {
		r := &reservations[i]
		found := false
		for _, item := range r.Services {
			if !utils.CalendarDate(item.ScheduledAt).Equal(date) {
				continue
			}
			found = true
			line := InvoiceLine{ScheduledAt: item.ScheduledAt}
			if item.Service != nil {
				line.Service = item.Service.Name
				line.Price = item.Service.Price
			}
			invoice.Lines = append(invoice.Lines, line)
			invoice.Original = invoice.Original.Add(line.Price)
		}
		if !found {
			continue
		}
		if matched == nil {
			matched = r
		}
		for _, p := range r.Payments {
			if !utils.CalendarDate(p.PaymentDate).Equal(date) {
				continue
			}
			paid = paid.Add(p.Amount)
			payments++
			if pct == 0 && p.DiscountPercentage > 0 {
				pct = p.DiscountPercentage
			}
		}
	}

	if matched == nil {
		return nil, notFound("invoice", number)
	}

	sort.SliceStable(invoice.Lines, func(i, j int) bool {
		return invoice.Lines[i].ScheduledAt.Before(invoice.Lines[j].ScheduledAt)
	})

	invoice.ReservedAt = matched.RequestedAt
	invoice.PaymentMethod = matched.PaymentMethod.Label()
	if pct > 0 {
		invoice.DiscountPercentage = &pct
	}
	if payments > 0 {
		invoice.Total = paid
	} else {
		invoice.Total = NetAmount(invoice.Original, pct)
	}
	invoice.DiscountAmount = invoice.Original.Sub(invoice.Total)
	return invoice, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
