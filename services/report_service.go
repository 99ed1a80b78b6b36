package services

import (
	"context"
	"sort"
	"time"

	"spa-backend/models"
	"spa-backend/utils"

	"github.com/shopspring/decimal"
)

type MethodRevenue struct {
	Method  models.PaymentMethod `json:"method"`
	Label   string               `json:"label"`
	Count   int                  `json:"count"`
	Revenue decimal.Decimal      `json:"revenue"`
}

type DayRevenue struct {
	Date    string          `json:"date"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// RevenueReport covers the payments dated within [From, To], both inclusive.
type RevenueReport struct {
	From           string          `json:"from"`
	To             string          `json:"to"`
	Total          decimal.Decimal `json:"total"`
	Payments       int             `json:"payments"`
	AveragePayment decimal.Decimal `json:"averagePayment"`
	Discounts      decimal.Decimal `json:"discounts"`
	ByMethod       []MethodRevenue `json:"byMethod"`
	ByDay          []DayRevenue    `json:"byDay"`
	PreviousTotal  decimal.Decimal `json:"previousTotal"`
	GrowthPercent  decimal.Decimal `json:"growthPercent"`
}

type ReportService struct {
	payments PaymentFinder
}

func NewReportService(payments PaymentFinder) *ReportService {
	return &ReportService{payments: payments}
}

// Revenue aggregates payments between from and to and compares the total with the window of the
// same length that ends the day before from.
func (s *ReportService) Revenue(ctx context.Context, from, to time.Time) (*RevenueReport, error) {
	from, to = utils.CalendarDate(from), utils.CalendarDate(to)
	if to.Before(from) {
		return nil, invalid("to", "must not be before from")
	}

	current, err := s.payments.FindPaymentsBetween(ctx, from, to)
	if err != nil {
		return nil, persistence("find payments", err)
	}

	days := utils.DaysBetween(from, to) + 1
	prevFrom, prevTo := from.AddDate(0, 0, -days), from.AddDate(0, 0, -1)
	previous, err := s.payments.FindPaymentsBetween(ctx, prevFrom, prevTo)
	if err != nil {
		return nil, persistence("find payments", err)
	}

	report := &RevenueReport{
		From:     from.Format(utils.DateLayout),
		To:       to.Format(utils.DateLayout),
		Payments: len(current),
	}

	byMethod := make(map[models.PaymentMethod]*MethodRevenue)
	byDay := make(map[string]*DayRevenue)
	for _, p := range current {
		report.Total = report.Total.Add(p.Amount)
		if p.GrossAmount.GreaterThan(p.Amount) {
			report.Discounts = report.Discounts.Add(p.GrossAmount.Sub(p.Amount))
		}

		m, ok := byMethod[p.Method]
		if !ok {
			m = &MethodRevenue{Method: p.Method, Label: p.Method.Label()}
			byMethod[p.Method] = m
		}
		m.Count++
		m.Revenue = m.Revenue.Add(p.Amount)

		key := utils.CalendarDate(p.PaymentDate).Format(utils.DateLayout)
		d, ok := byDay[key]
		if !ok {
			d = &DayRevenue{Date: key}
			byDay[key] = d
		}
		d.Count++
		d.Revenue = d.Revenue.Add(p.Amount)
	}

	for _, m := range byMethod {
		report.ByMethod = append(report.ByMethod, *m)
	}
	sort.Slice(report.ByMethod, func(i, j int) bool {
		if !report.ByMethod[i].Revenue.Equal(report.ByMethod[j].Revenue) {
			return report.ByMethod[i].Revenue.GreaterThan(report.ByMethod[j].Revenue)
		}
		return report.ByMethod[i].Method < report.ByMethod[j].Method
	})

	for _, d := range byDay {
		report.ByDay = append(report.ByDay, *d)
	}
	sort.Slice(report.ByDay, func(i, j int) bool { return report.ByDay[i].Date < report.ByDay[j].Date })

	for _, p := range previous {
		report.PreviousTotal = report.PreviousTotal.Add(p.Amount)
	}

	if report.Payments > 0 {
		report.AveragePayment = report.Total.Div(decimal.NewFromInt(int64(report.Payments))).Round(2)
	}
	report.GrowthPercent = growthPercentage(report.Total, report.PreviousTotal).Round(2)
	return report, nil
}

func growthPercentage(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsZero() {
			return decimal.Zero
		}
		return hundred
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}
