package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"spa-backend/config"
	"spa-backend/controllers"
	"spa-backend/models"
	"spa-backend/routes"
	"spa-backend/services"
	"spa-backend/store/memory"
	"spa-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type apiFixture struct {
	router *gin.Engine
	store  *memory.Store
	client models.Client
	staff  models.StaffMember
}

func newAPI(t *testing.T, jwtSecret string) *apiFixture {
	t.Helper()
	return newAPIWithPing(t, jwtSecret, nil)
}

func newAPIWithPing(t *testing.T, jwtSecret string, ping func(context.Context) error) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := memory.New()
	st.AddService(models.Service{Name: "ANTI_STRESS", Description: "Anti-stress massage", Price: decimal.RequireFromString("100")})
	st.AddService(models.Service{Name: "DESCONTRACTURANTE", Description: "Deep tissue massage", Price: decimal.RequireFromString("120")})
	st.AddService(models.Service{Name: "YOGA", Description: "Yoga class", Price: decimal.RequireFromString("50")})
	client := st.AddClient(models.Client{FirstName: "Ana", LastName: "Gomez", Email: "ana@example.com"})
	staff := st.AddStaff(models.StaffMember{FirstName: "Luis", LastName: "Perez", Email: "luis@example.com", Role: models.RoleTherapeuticMasseur})

	now := func() time.Time { return testNow }
	logger := zap.NewNop()
	bookings := services.NewBookingService(st, st, st, st, services.BookingConfig{Now: now}, logger)

	handlers := routes.Handlers{
		Reservations: controllers.NewReservationController(bookings),
		Staff:        controllers.NewStaffController(services.NewStaffDirectory(st, config.ServiceRoles(), logger)),
		Services:     controllers.NewServiceController(st),
		Invoices:     controllers.NewInvoiceController(services.NewInvoiceService(st, st)),
		Reports:      controllers.NewReportController(services.NewReportService(st), now),
		Reminders:    controllers.NewReminderController(services.NewReminderService(st, st, nil, now, logger)),
		Ping:         ping,
	}
	settings := config.Settings{CORSOrigins: []string{"http://localhost:3000"}, JWTSecret: jwtSecret}

	return &apiFixture{
		router: routes.SetupRouter(settings, handlers, logger),
		store:  st,
		client: client,
		staff:  staff,
	}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) booking(method string, services ...controllers.ReservationServiceInput) controllers.CreateReservationInput {
	return controllers.CreateReservationInput{
		ClientID:      f.client.ID,
		StaffID:       f.staff.ID,
		PaymentMethod: method,
		Services:      services,
	}
}

func at(days, hour int) time.Time {
	d := testNow.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
}

func item(name string, when time.Time) controllers.ReservationServiceInput {
	return controllers.ReservationServiceInput{Service: name, ScheduledAt: when}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestCreateReservationEndpoint(t *testing.T) {
	f := newAPI(t, "")

	w := f.do(t, http.MethodPost, "/api/reservations",
		f.booking("debit_card", item("ANTI_STRESS", at(5, 10)), item("DESCONTRACTURANTE", at(5, 15)), item("YOGA", at(6, 9))))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	created := decode[models.Reservation](t, w)
	if created.Status != models.StatusPending || created.PaymentMethod != models.PaymentDebitCard {
		t.Fatalf("unexpected reservation %+v", created)
	}
	if len(created.Services) != 3 || len(created.Payments) != 2 {
		t.Fatalf("expected 3 services and 2 payments, got %d and %d", len(created.Services), len(created.Payments))
	}
	if !created.Payments[0].Amount.Equal(decimal.RequireFromString("187")) || !created.Payments[1].Amount.Equal(decimal.RequireFromString("42.5")) {
		t.Fatalf("unexpected payments %+v", created.Payments)
	}

	w = f.do(t, http.MethodGet, "/api/reservations/"+created.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	w = f.do(t, http.MethodGet, "/api/reservations", nil)
	if list := decode[[]models.Reservation](t, w); len(list) != 1 {
		t.Fatalf("expected 1 reservation, got %d", len(list))
	}
	w = f.do(t, http.MethodGet, "/api/clients/"+f.client.ID.String()+"/reservations", nil)
	if list := decode[[]models.Reservation](t, w); len(list) != 1 {
		t.Fatalf("expected 1 client reservation, got %d", len(list))
	}
}

func TestCreateReservationRejectsBadRequests(t *testing.T) {
	f := newAPI(t, "")

	cases := []struct {
		name   string
		body   any
		status int
	}{
		{"malformed json", "not an object", http.StatusBadRequest},
		{"missing method", f.booking("", item("YOGA", at(5, 9))), http.StatusBadRequest},
		{"unknown method", f.booking("BITCOIN", item("YOGA", at(5, 9))), http.StatusBadRequest},
		{"no services", f.booking("CASH"), http.StatusBadRequest},
		{"too soon", f.booking("CASH", item("YOGA", at(1, 9))), http.StatusBadRequest},
		{"unknown service", f.booking("CASH", item("REIKI", at(5, 9))), http.StatusNotFound},
		{"padded service name", f.booking("CASH", item(" YOGA", at(5, 9))), http.StatusNotFound},
	}
	for _, tc := range cases {
		w := f.do(t, http.MethodPost, "/api/reservations", tc.body)
		if w.Code != tc.status {
			t.Fatalf("%s: status = %d, want %d (body %s)", tc.name, w.Code, tc.status, w.Body.String())
		}
	}

	unknownClient := f.booking("CASH", item("YOGA", at(5, 9)))
	unknownClient.ClientID = uuid.New()
	if w := f.do(t, http.MethodPost, "/api/reservations", unknownClient); w.Code != http.StatusNotFound {
		t.Fatalf("unknown client: status = %d", w.Code)
	}

	if events := f.store.Events(); len(events) != 0 {
		t.Fatalf("rejected requests must not persist anything, got %d events", len(events))
	}
}

func TestUpdateAndDeleteReservationEndpoints(t *testing.T) {
	f := newAPI(t, "")

	w := f.do(t, http.MethodPost, "/api/reservations", f.booking("CASH", item("YOGA", at(5, 9))))
	created := decode[models.Reservation](t, w)
	path := "/api/reservations/" + created.ID.String()

	update := controllers.UpdateReservationInput{
		CreateReservationInput: f.booking("CREDIT_CARD", item("ANTI_STRESS", at(5, 9))),
		Status:                 "confirmed",
	}
	w = f.do(t, http.MethodPut, path, update)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", w.Code, w.Body.String())
	}
	updated := decode[models.Reservation](t, w)
	if updated.Status != models.StatusConfirmed || !updated.Payments[0].Amount.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("unexpected update %+v", updated)
	}

	update.Status = ""
	if w = f.do(t, http.MethodPut, path, update); w.Code != http.StatusBadRequest {
		t.Fatalf("update without status: %d", w.Code)
	}

	if w = f.do(t, http.MethodDelete, path, nil); w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	if w = f.do(t, http.MethodDelete, path, nil); w.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d", w.Code)
	}
	if w = f.do(t, http.MethodGet, path, nil); w.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", w.Code)
	}
	if w = f.do(t, http.MethodGet, "/api/reservations/not-a-uuid", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("malformed id status = %d", w.Code)
	}
}

func TestInvoiceEndpoints(t *testing.T) {
	f := newAPI(t, "")
	f.do(t, http.MethodPost, "/api/reservations",
		f.booking("DEBIT_CARD", item("ANTI_STRESS", at(5, 10)), item("DESCONTRACTURANTE", at(5, 15))))

	base := "/api/clients/" + f.client.ID.String() + "/invoices/"
	w := f.do(t, http.MethodGet, base+"INV-20260307", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("invoice status = %d, body %s", w.Code, w.Body.String())
	}
	invoice := decode[services.Invoice](t, w)
	if !invoice.Original.Equal(decimal.RequireFromString("220")) || !invoice.Total.Equal(decimal.RequireFromString("187")) || len(invoice.Lines) != 2 {
		t.Fatalf("unexpected invoice %+v", invoice)
	}

	w = f.do(t, http.MethodGet, base+"INV-20260307/pdf", nil)
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Body.String(), "%PDF-") {
		t.Fatalf("pdf status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}

	if w = f.do(t, http.MethodGet, base+"INV-20260308", nil); w.Code != http.StatusNotFound {
		t.Fatalf("empty day status = %d", w.Code)
	}
	if w = f.do(t, http.MethodGet, base+"2026-03-07", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad number status = %d", w.Code)
	}
}

func TestStaffEndpoints(t *testing.T) {
	f := newAPI(t, "")
	f.store.AddStaff(models.StaffMember{FirstName: "Sol", LastName: "Diaz", Email: "sol@example.com", Role: models.RoleYogaInstructor})
	f.do(t, http.MethodPost, "/api/reservations", f.booking("CASH", item("ANTI_STRESS", at(5, 10))))

	w := f.do(t, http.MethodGet, "/api/staff?service=YOGA", nil)
	members := decode[[]models.StaffMember](t, w)
	if len(members) != 1 || members[0].Role != models.RoleYogaInstructor {
		t.Fatalf("unexpected staff for YOGA %+v", members)
	}

	w = f.do(t, http.MethodGet, "/api/staff/"+f.staff.ID.String()+"/reservations?date=2026-03-02", nil)
	if list := decode[[]models.Reservation](t, w); len(list) != 1 {
		t.Fatalf("expected the reservation requested today, got %d", len(list))
	}
	w = f.do(t, http.MethodGet, "/api/staff/"+f.staff.ID.String()+"/reservations?date=2026-03-03", nil)
	if list := decode[[]models.Reservation](t, w); len(list) != 0 {
		t.Fatalf("expected no reservations, got %d", len(list))
	}
}

func TestServiceCatalogEndpoints(t *testing.T) {
	f := newAPI(t, "")

	w := f.do(t, http.MethodPost, "/api/services", gin.H{"name": "REIKI", "description": "Energy work", "price": 80})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	created := decode[models.Service](t, w)

	if w = f.do(t, http.MethodPost, "/api/services", gin.H{"name": "SAUNA"}); w.Code != http.StatusBadRequest {
		t.Fatalf("missing price status = %d", w.Code)
	}
	if w = f.do(t, http.MethodPost, "/api/services", gin.H{"name": "SAUNA", "price": "-1.50"}); w.Code != http.StatusBadRequest {
		t.Fatalf("negative price status = %d", w.Code)
	}
	if w = f.do(t, http.MethodPost, "/api/services", gin.H{"name": "YOGA", "price": 10}); w.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d", w.Code)
	}

	w = f.do(t, http.MethodPut, "/api/services/"+created.ID.String(), gin.H{"price": 90})
	if updated := decode[models.Service](t, w); !updated.Price.Equal(decimal.RequireFromString("90")) || updated.Name != "REIKI" {
		t.Fatalf("unexpected update %+v", updated)
	}

	if w = f.do(t, http.MethodDelete, "/api/services/"+created.ID.String(), nil); w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	if w = f.do(t, http.MethodGet, "/api/services/"+created.ID.String(), nil); w.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", w.Code)
	}
}

func TestRevenueAndReminderEndpoints(t *testing.T) {
	f := newAPI(t, "")
	f.do(t, http.MethodPost, "/api/reservations", f.booking("CASH", item("YOGA", at(5, 9))))

	w := f.do(t, http.MethodGet, "/api/reports/revenue?from=2026-03-01&to=2026-03-31", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("revenue status = %d, body %s", w.Code, w.Body.String())
	}
	if report := decode[services.RevenueReport](t, w); !report.Total.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("total = %s, want 50", report.Total)
	}
	if w = f.do(t, http.MethodGet, "/api/reports/revenue?from=2026-03-31&to=2026-03-01", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("inverted window status = %d", w.Code)
	}
	if w = f.do(t, http.MethodGet, "/api/reports/revenue?from=yesterday", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad date status = %d", w.Code)
	}

	if w = f.do(t, http.MethodPost, "/api/reminders/run", nil); w.Code != http.StatusOK {
		t.Fatalf("reminders status = %d", w.Code)
	}
}

func TestAPIRequiresTokenWhenSecretSet(t *testing.T) {
	f := newAPI(t, "test-secret")

	if w := f.do(t, http.MethodGet, "/api/reservations", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("without token: %d", w.Code)
	}
	if w := f.do(t, http.MethodGet, "/healthz", nil); w.Code != http.StatusOK {
		t.Fatalf("healthz: %d", w.Code)
	}

	token, err := utils.GenerateToken("test-secret", "front-desk", "RECEPTIONIST", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("with token: %d", w.Code)
	}
}

func TestHealthzReportsDatabaseFailure(t *testing.T) {
	healthy := newAPIWithPing(t, "", func(context.Context) error { return nil })
	if w := healthy.do(t, http.MethodGet, "/healthz", nil); w.Code != http.StatusOK {
		t.Fatalf("healthy: %d", w.Code)
	}

	down := newAPIWithPing(t, "", func(context.Context) error { return errors.New("connection refused") })
	w := down.do(t, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("database down: %d", w.Code)
	}
	if body := decode[map[string]string](t, w); body["status"] != "unavailable" {
		t.Fatalf("unexpected body %v", body)
	}
}
