package controllers

import (
	"net/http"
	"strings"
	"time"

	"spa-backend/models"
	"spa-backend/services"
	"spa-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReservationServiceInput is one requested service instance
type ReservationServiceInput struct {
	Service     string    `json:"service"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

// CreateReservationInput defines the expected JSON structure for creating a reservation
type CreateReservationInput struct {
	ClientID      uuid.UUID                 `json:"clientId"`
	StaffID       uuid.UUID                 `json:"staffId"`
	PaymentMethod string                    `json:"paymentMethod"`
	Discount      *int                      `json:"discount"`
	RequestedAt   *time.Time                `json:"requestedAt"`
	History       string                    `json:"history"`
	Services      []ReservationServiceInput `json:"services"`
}

// UpdateReservationInput defines the expected JSON structure for updating a reservation
type UpdateReservationInput struct {
	CreateReservationInput
	Status string `json:"status"`
}

// request converts the input into a booking request. An empty payment method is passed through
// so the engine reports it as missing; service names are passed through unchanged.
func (in CreateReservationInput) request() (services.BookingRequest, error) {
	req := services.BookingRequest{
		ClientID:     in.ClientID,
		StaffID:      in.StaffID,
		DiscountHint: in.Discount,
		History:      in.History,
	}
	if strings.TrimSpace(in.PaymentMethod) != "" {
		method, err := models.ParsePaymentMethod(in.PaymentMethod)
		if err != nil {
			return services.BookingRequest{}, err
		}
		req.PaymentMethod = method
	}
	if in.RequestedAt != nil {
		req.RequestedAt = *in.RequestedAt
	}
	for _, s := range in.Services {
		req.Services = append(req.Services, services.RequestedService{
			Name:        s.Service,
			ScheduledAt: s.ScheduledAt,
		})
	}
	return req, nil
}

type ReservationController struct {
	bookings *services.BookingService
}

func NewReservationController(bookings *services.BookingService) *ReservationController {
	return &ReservationController{bookings: bookings}
}

// CreateReservation books the requested services and returns the stored reservation
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var input CreateReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	req, err := input.request()
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	reservation, err := rc.bookings.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

func (rc *ReservationController) GetReservations(c *gin.Context) {
	reservations, err := rc.bookings.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(reservations))
}

func (rc *ReservationController) GetReservation(c *gin.Context) {
	id, ok := paramID(c, "id", "reservation")
	if !ok {
		return
	}

	reservation, err := rc.bookings.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if reservation == nil {
		utils.RespondWithError(c, http.StatusNotFound, "Reservation not found")
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// UpdateReservation replaces the reservation's fields and rebuilds its services and payments
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	id, ok := paramID(c, "id", "reservation")
	if !ok {
		return
	}

	var input UpdateReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	req, err := input.request()
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(input.Status) != "" {
		status, err := models.ParseReservationStatus(input.Status)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		req.Status = status
	}

	reservation, err := rc.bookings.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	id, ok := paramID(c, "id", "reservation")
	if !ok {
		return
	}

	if err := rc.bookings.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reservation deleted successfully"})
}

func (rc *ReservationController) GetClientReservations(c *gin.Context) {
	clientID, ok := paramID(c, "id", "client")
	if !ok {
		return
	}

	reservations, err := rc.bookings.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(reservations))
}

// GetStaffReservations lists a staff member's reservations requested on ?date=YYYY-MM-DD,
// today when omitted
func (rc *ReservationController) GetStaffReservations(c *gin.Context) {
	staffID, ok := paramID(c, "id", "staff")
	if !ok {
		return
	}

	day := rc.bookings.Today()
	if raw := c.Query("date"); raw != "" {
		parsed, err := utils.ParseDate(raw, day.Location())
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		day = parsed
	}

	reservations, err := rc.bookings.ListByStaffOnDay(c.Request.Context(), staffID, day)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(reservations))
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
