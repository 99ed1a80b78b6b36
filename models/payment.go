package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is the charge covering every line item of a reservation on one calendar date.
type Payment struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ClientID      uuid.UUID `gorm:"type:uuid;index;not null" json:"clientId"`
	ReservationID uuid.UUID `gorm:"type:uuid;index;not null" json:"reservationId"`
	// GrossAmount is the undiscounted price of the day's services; Amount is what is charged.
	GrossAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"grossAmount"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method      PaymentMethod   `gorm:"type:varchar(20);not null" json:"method"`
	// PaymentDate is midnight UTC of the charged calendar date.
	PaymentDate        time.Time `gorm:"type:date;index;not null" json:"paymentDate"`
	DiscountPercentage int       `gorm:"not null;default:0" json:"discountPercentage"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
