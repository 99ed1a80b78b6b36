package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"spa-backend/models"
	"spa-backend/store/memory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeMessenger struct {
	mu   sync.Mutex
	to   []string
	body []string
	err  error
}

func (m *fakeMessenger) Send(_ context.Context, to, body string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return ChannelSMS, m.err
	}
	m.to = append(m.to, to)
	m.body = append(m.body, body)
	return ChannelWhatsApp, nil
}

type fixture struct {
	store    *memory.Store
	bookings *BookingService
	client   models.Client
	staff    models.StaffMember
}

func newFixture(t *testing.T, policy DiscountPolicy) *fixture {
	t.Helper()
	st := memory.New()
	st.AddService(models.Service{Name: "ANTI_STRESS", Description: "Anti-stress massage", Price: dec("100")})
	st.AddService(models.Service{Name: "DESCONTRACTURANTE", Description: "Deep tissue massage", Price: dec("120")})
	st.AddService(models.Service{Name: "YOGA", Description: "Yoga class", Price: dec("50")})

	client := st.AddClient(models.Client{FirstName: "Ana", LastName: "Gomez", Email: "ana@example.com", Phone: "+5491155551234"})
	staff := st.AddStaff(models.StaffMember{FirstName: "Luis", LastName: "Perez", Email: "luis@example.com", Role: models.RoleTherapeuticMasseur})

	bookings := NewBookingService(st, st, st, st, BookingConfig{
		Discount: policy,
		Now:      func() time.Time { return testNow },
	}, nil)
	return &fixture{store: st, bookings: bookings, client: client, staff: staff}
}

func (f *fixture) request(method models.PaymentMethod, services ...RequestedService) BookingRequest {
	return BookingRequest{
		ClientID:      f.client.ID,
		StaffID:       f.staff.ID,
		PaymentMethod: method,
		Services:      services,
	}
}

func at(days int, hour int) time.Time {
	d := testNow.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
}

func svc(name string, when time.Time) RequestedService {
	return RequestedService{Name: name, ScheduledAt: when}
}

func (f *fixture) reservationCount(t *testing.T) int {
	t.Helper()
	all, err := f.store.FindReservations(context.Background())
	if err != nil {
		t.Fatalf("FindReservations: %v", err)
	}
	return len(all)
}

func TestCreateSameDayServicesProduceOnePayment(t *testing.T) {
	f := newFixture(t, DiscountPolicy{})

	r, err := f.bookings.Create(context.Background(), f.request(models.PaymentDebitCard,
		svc("ANTI_STRESS", at(3, 10)),
		svc("DESCONTRACTURANTE", at(3, 15)),
	))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if r.ID == uuid.Nil {
		t.Fatalf("expected generated id")
	}
	if r.Status != models.StatusPending {
		t.Fatalf("status = %s, want PENDING", r.Status)
	}
	if len(r.Services) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(r.Services))
	}
	if len(r.Payments) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(r.Payments))
	}
	p := r.Payments[0]
	if !p.Amount.Equal(dec("187.00")) {
		t.Fatalf("amount = %s, want 187.00", p.Amount)
	}
	if p.DiscountPercentage != 15 || p.Method != models.PaymentDebitCard {
		t.Fatalf("unexpected payment %+v", p)
	}
	if !p.PaymentDate.Equal(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("payment date = %v", p.PaymentDate)
	}
	if p.ReservationID != r.ID || p.ClientID != f.client.ID {
		t.Fatalf("payment not linked to reservation and client")
	}
	if r.DiscountPercentage == nil || *r.DiscountPercentage != 15 {
		t.Fatalf("reservation discount = %v, want 15", r.DiscountPercentage)
	}

	events := f.store.Events()
	if len(events) != 1 || events[0].EventType != models.EventReservationCreated {
		t.Fatalf("expected one created event, got %+v", events)
	}
}

func TestCreateServicesOnTwoDaysProduceTwoPayments(t *testing.T) {
	f := newFixture(t, DiscountPolicy{})

	r, err := f.bookings.Create(context.Background(), f.request(models.PaymentDebitCard,
		svc("DESCONTRACTURANTE", at(4, 11)),
		svc("ANTI_STRESS", at(3, 10)),
	))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(r.Payments) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(r.Payments))
	}
	if !r.Payments[0].Amount.Equal(dec("85.00")) || !r.Payments[0].PaymentDate.Equal(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first payment = %+v, want 85.00 on day+3", r.Payments[0])
	}
	if !r.Payments[1].Amount.Equal(dec("102.00")) || !r.Payments[1].PaymentDate.Equal(time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("second payment = %+v, want 102.00 on day+4", r.Payments[1])
	}

	// Line items keep request order.
	if r.Services[0].Service.Name != "DESCONTRACTURANTE" || r.Services[1].Service.Name != "ANTI_STRESS" {
		t.Fatalf("line items out of request order")
	}
}

func TestCreateRejectsServiceWithinLeadTime(t *testing.T) {
	f := newFixture(t, DiscountPolicy{})

	_, err := f.bookings.Create(context.Background(), f.request(models.PaymentDebitCard,
		svc("ANTI_STRESS", at(5, 10)),
		svc("YOGA", testNow.Add(24*time.Hour)),
	))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if n := f.reservationCount(t); n != 0 {
		t.Fatalf("store should be untouched, found %d reservations", n)
	}
	if len(f.store.Events()) != 0 {
		t.Fatalf("no event should be recorded")
	}
}

func TestCreateLeadTimeBoundary(t *testing.T) {
	f := newFixture(t, DiscountPolicy{})

	if _, err := f.bookings.Create(context.Background(), f.request(models.PaymentCash,
		svc("YOGA", testNow.Add(48*time.Hour)),
	)); err != nil {
		t.Fatalf("exactly 48h should be accepted: %v", err)
	}

	_, err := f.bookings.Create(context.Background(), f.request(models.PaymentCash,
		svc("YOGA", testNow.Add(48*time.Hour-time.Minute)),
	))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("47h59m should be rejected, got %v", err)
	}
}

func TestCreateKeepsDuplicateServices(t *testing.T) {
	f := newFixture(t, DiscountPolicy{})

	r, err := f.bookings.Create(context.Background(), f.request(models.PaymentDebitCard,
		svc("ANTI_STRESS", at(3, 10)),
		svc("ANTI_STRESS", at(3, 10)),
		svc("YOGA", at(6, 18)),
	))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(r.Services) != 3 {
		t.Fatalf("expected 3 line items, got %d", len(r.Services))
	}
	if r.Services[0].ID == r.Services[1].ID {
		t.Fatalf("duplicate services must be distinct line items")
	}
	if len(r.Payments) != 2 || !r.Payments[0].Amount.Equal(dec("170.00")) || !r.Payments[1].Amount.Equal(dec("42.50")) {
		t.Fatalf("unexpected payments %+v", r.Payments)
	}
}

func TestCreateWithoutDebitCardHasNoDiscount(t *testing.T) {
	for _, method := range []models.PaymentMethod{models.PaymentCash, models.PaymentCreditCard, models.PaymentTransfer} {
		f := newFixture(t, DiscountPolicy{})
		r, err := f.bookings.Create(context.Background(), f.request(method,
			svc("ANTI_STRESS", at(3, 10)),
			svc("DESCONTRACTURANTE", at(3, 12)),
		))
		if err != nil {
			t.Fatalf("%s: Create: %v", method, err)
		}
		if !r.Payments[0].Amount.Equal(dec("220.00")) || r.Payments[0].DiscountPercentage != 0 {
			t.Fatalf("%s: payment = %+v, want 220.00 without discount", method, r.Payments[0])
		}
		if r.DiscountPercentage != nil {
			t.Fatalf("%s: reservation discount should be empty", method)
		}
	}
}

func TestCreateValidationAndLookupFailures(t *testing.T) {
	f := newFixture(t, DiscountPolicy{})
	unassigned := f.store.AddStaff(models.StaffMember{FirstName: "New", Email: "new@example.com"})
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*BookingRequest)
		want   error
	}{
		{"missing method", func(r *BookingRequest) { r.PaymentMethod = "" }, ErrValidation},
		{"unknown method", func(r *BookingRequest) { r.PaymentMethod = "BITCOIN" }, ErrValidation},
		{"no services", func(r *BookingRequest) { r.Services = nil }, ErrValidation},
		{"unknown client", func(r *BookingRequest) { r.ClientID = uuid.New() }, ErrNotFound},
		{"unknown staff", func(r *BookingRequest) { r.StaffID = uuid.New() }, ErrNotFound},
		{"unassigned role", func(r *BookingRequest) { r.StaffID = unassigned.ID }, ErrValidation},
		{"unknown service", func(r *BookingRequest) { r.Services[0].Name = "REIKI" }, ErrNotFound},
	}

	for _, tc := range cases {
		req := f.request(models.PaymentDebitCard, svc("ANTI_STRESS", at(3, 10)))
		tc.mutate(&req)
		if _, err := f.bookings.Create(ctx, req); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
	if n := f.reservationCount(t); n != 0 {
		t.Fatalf("store should be untouched, found %d reservations", n)
	}
}

func TestCreateReportsOffendingField(t *testing.T) {
	f := newFixture(t, DiscountPolicy{})

	_, err := f.bookings.Create(context.Background(), f.request(""))
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "paymentMethod" {
		t.Fatalf("expected paymentMethod validation error, got %v", err)
	}

	missing := uuid.New()
	req := f.request(models.PaymentCash, svc("YOGA", at(3, 9)))
	req.ClientID = missing
	_, err = f.bookings.Create(context.Background(), req)
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Key != missing.String() {
		t.Fatalf("expected not found naming %s, got %v", missing, err)
	}
}

func TestCreateCallerSuppliedDiscount(t *testing.T) {
	f := newFixture(t, DiscountPolicy{Mode: DiscountCallerSupplied})
	ten := 10

	req := f.request(models.PaymentDebitCard, svc("ANTI_STRESS", at(3, 10)), svc("DESCONTRACTURANTE", at(3, 11)))
	req.DiscountHint = &ten
	r, err := f.bookings.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !r.Payments[0].Amount.Equal(dec("198.00")) || r.Payments[0].DiscountPercentage != 10 {
		t.Fatalf("payment = %+v, want 198.00 at 10%%", r.Payments[0])
	}

	req.PaymentMethod = models.PaymentCreditCard
	r, err = f.bookings.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !r.Payments[0].Amount.Equal(dec("220.00")) {
		t.Fatalf("credit card should ignore the hint, got %s", r.Payments[0].Amount)
	}

	bad := 150
	req.PaymentMethod = models.PaymentDebitCard
	req.DiscountHint = &bad
	if _, err := f.bookings.Create(context.Background(), req); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for 150%%, got %v", err)
	}
}

func TestCreateSendsConfirmation(t *testing.T) {
	f := newFixture(t, DiscountPolicy{})
	m := &fakeMessenger{}
	f.bookings.WithMessenger(m)

	if _, err := f.bookings.Create(context.Background(), f.request(models.PaymentCash, svc("YOGA", at(3, 9)))); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(m.to) != 1 || m.to[0] != "+5491155551234" {
		t.Fatalf("expected one confirmation to the client, got %v", m.to)
	}

	m.err = errors.New("twilio down")
	if _, err := f.bookings.Create(context.Background(), f.request(models.PaymentCash, svc("YOGA", at(4, 9)))); err != nil {
		t.Fatalf("a failed confirmation must not fail the booking: %v", err)
	}
}

func TestUpdateRebuildsChildren(t *testing.T) {
	f := newFixture(t, DiscountPolicy{})
	ctx := context.Background()

	created, err := f.bookings.Create(ctx, f.request(models.PaymentDebitCard,
		svc("ANTI_STRESS", at(3, 10)),
		svc("DESCONTRACTURANTE", at(4, 10)),
	))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := f.request(models.PaymentCash, svc("YOGA", at(7, 8)))
	req.Status = models.StatusConfirmed
	req.History = "prefers mornings"
	updated, err := f.bookings.Update(ctx, created.ID, req)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.ID != created.ID {
		t.Fatalf("update must keep the reservation id")
	}
	if updated.Status != models.StatusConfirmed || updated.PaymentMethod != models.PaymentCash {
		t.Fatalf("scalar fields not replaced: %+v", updated)
	}
	if len(updated.Services) != 1 || len(updated.Payments) != 1 || !updated.Payments[0].Amount.Equal(dec("50.00")) {
		t.Fatalf("children not rebuilt: services=%d payments=%+v", len(updated.Services), updated.Payments)
	}

	stored, err := f.bookings.Get(ctx, created.ID)
	if err != nil || stored == nil {
		t.Fatalf("Get: %v", err)
	}
	if len(stored.Payments) != 1 || stored.History != "prefers mornings" {
		t.Fatalf("stored reservation not updated: %+v", stored)
	}

	events := f.store.Events()
	if events[len(events)-1].EventType != models.EventReservationUpdated {
		t.Fatalf("expected updated event last, got %s", events[len(events)-1].EventType)
	}
}

func TestUpdateSkipsLeadTimeCheck(t *testing.T) {
	f := newFixture(t, DiscountPolicy{})
	ctx := context.Background()

	created, err := f.bookings.Create(ctx, f.request(models.PaymentCash, svc("YOGA", at(3, 9))))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	req := f.request(models.PaymentCash, svc("YOGA", testNow.Add(2*time.Hour)))
	req.Status = models.StatusCompleted
	if _, err := f.bookings.Update(ctx, created.ID, req); err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestUpdateWithEmptyServicesLeavesChildrenUnchanged(t *testing.T) {
	f := newFixture(t, DiscountPolicy{})
	ctx := context.Background()

	created, err := f.bookings.Create(ctx, f.request(models.PaymentDebitCard,
		svc("ANTI_STRESS", at(3, 10)),
		svc("DESCONTRACTURANTE", at(4, 10)),
	))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := f.request(models.PaymentDebitCard)
	req.Status = models.StatusConfirmed
	if _, err := f.bookings.Update(ctx, created.ID, req); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	stored, err := f.bookings.Get(ctx, created.ID)
	if err != nil || stored == nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Status != models.StatusPending {
		t.Fatalf("status changed to %s", stored.Status)
	}
	if len(stored.Services) != 2 || len(stored.Payments) != 2 {
		t.Fatalf("children changed: services=%d payments=%d", len(stored.Services), len(stored.Payments))
	}
	if stored.Payments[0].ID != created.Payments[0].ID {
		t.Fatalf("payments were replaced")
	}
}

func TestUpdateFailuresLeaveReservationIntact(t *testing.T) {
	f := newFixture(t, DiscountPolicy{})
	ctx := context.Background()

	created, err := f.bookings.Create(ctx, f.request(models.PaymentCash, svc("YOGA", at(3, 9))))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := f.request(models.PaymentCash, svc("ANTI_STRESS", at(5, 9)))
	req.Status = models.StatusConfirmed
	if _, err := f.bookings.Update(ctx, uuid.New(), req); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	missingMethod := req
	missingMethod.PaymentMethod = ""
	if _, err := f.bookings.Update(ctx, created.ID, missingMethod); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	noStatus := req
	noStatus.Status = ""
	if _, err := f.bookings.Update(ctx, created.ID, noStatus); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for missing status, got %v", err)
	}

	f.store.FailSaves(errors.New("connection reset"))
	if _, err := f.bookings.Update(ctx, created.ID, req); !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected persistence failure, got %v", err)
	}
	f.store.FailSaves(nil)

	stored, _ := f.bookings.Get(ctx, created.ID)
	if len(stored.Services) != 1 || stored.Services[0].Service.Name != "YOGA" {
		t.Fatalf("line items changed after failed updates: %+v", stored.Services)
	}
	if !stored.Payments[0].Amount.Equal(dec("50.00")) {
		t.Fatalf("payments changed after failed updates: %+v", stored.Payments)
	}
}

func TestDelete(t *testing.T) {
	f := newFixture(t, DiscountPolicy{})
	ctx := context.Background()

	if err := f.bookings.Delete(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleting an unknown id must report not found, got %v", err)
	}

	created, err := f.bookings.Create(ctx, f.request(models.PaymentCash, svc("YOGA", at(3, 9))))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := f.bookings.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := f.bookings.Get(ctx, created.ID)
	if err != nil || got != nil {
		t.Fatalf("Get after delete = %v, %v; want nil, nil", got, err)
	}
	payments, _ := f.store.FindPaymentsBetween(ctx, at(0, 0), at(30, 0))
	if len(payments) != 0 {
		t.Fatalf("payments should be removed with the reservation")
	}
}

func TestQueries(t *testing.T) {
	f := newFixture(t, DiscountPolicy{})
	ctx := context.Background()
	other := f.store.AddClient(models.Client{FirstName: "Bea", Email: "bea@example.com"})

	morning := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	lastMillisecond := time.Date(2026, 3, 2, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	nextDay := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	for _, requestedAt := range []time.Time{morning, lastMillisecond, nextDay} {
		req := f.request(models.PaymentCash, svc("YOGA", at(5, 9)))
		req.RequestedAt = requestedAt
		if _, err := f.bookings.Create(ctx, req); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	req := f.request(models.PaymentCash, svc("YOGA", at(5, 9)))
	req.ClientID = other.ID
	req.RequestedAt = nextDay
	if _, err := f.bookings.Create(ctx, req); err != nil {
		t.Fatalf("Create: %v", err)
	}

	all, err := f.bookings.List(ctx)
	if err != nil || len(all) != 4 {
		t.Fatalf("List = %d, %v; want 4", len(all), err)
	}

	mine, err := f.bookings.ListByClient(ctx, f.client.ID)
	if err != nil || len(mine) != 3 {
		t.Fatalf("ListByClient = %d, %v; want 3", len(mine), err)
	}

	onDay, err := f.bookings.ListByStaffOnDay(ctx, f.staff.ID, time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ListByStaffOnDay: %v", err)
	}
	if len(onDay) != 2 {
		t.Fatalf("expected both ends of the day to be included and the next day excluded, got %d", len(onDay))
	}

	got, err := f.bookings.Get(ctx, uuid.New())
	if err != nil || got != nil {
		t.Fatalf("Get of unknown id = %v, %v; want nil, nil", got, err)
	}
}
