package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Reservation struct {
	ID       uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	ClientID uuid.UUID    `gorm:"type:uuid;index;not null" json:"clientId"`
	Client   *Client      `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	StaffID  uuid.UUID    `gorm:"type:uuid;index;not null" json:"staffId"`
	Staff    *StaffMember `gorm:"foreignKey:StaffID" json:"staff,omitempty"`

	RequestedAt        time.Time         `gorm:"index;not null" json:"requestedAt"`
	Status             ReservationStatus `gorm:"type:varchar(20);not null" json:"status"`
	PaymentMethod      PaymentMethod     `gorm:"type:varchar(20);not null" json:"paymentMethod"`
	DiscountPercentage *int              `json:"discountPercentage,omitempty"`
	History            string            `gorm:"type:text" json:"history"`

	// Services and Payments are owned by the reservation and replaced as a whole.
	Services []ReservationService `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE" json:"services"`
	Payments []Payment            `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE" json:"payments"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

// Total sums the amounts of every payment.
func (r *Reservation) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range r.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// ReservationService is one concrete (service, date-time) line item of a reservation.
type ReservationService struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ReservationID uuid.UUID `gorm:"type:uuid;index;not null" json:"reservationId"`
	ServiceID     uuid.UUID `gorm:"type:uuid;index;not null" json:"serviceId"`
	Service       *Service  `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	ScheduledAt   time.Time `gorm:"index;not null" json:"scheduledAt"`
	Position      int       `gorm:"not null;default:0" json:"-"`
}

func (s *ReservationService) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
