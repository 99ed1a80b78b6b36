package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReminderSent    = "sent"
	ReminderFailed  = "failed"
	ReminderSkipped = "skipped"
)

// ReminderLog records one attempt to remind a client of a scheduled service.
type ReminderLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ClientID      uuid.UUID `gorm:"type:uuid;index;not null" json:"clientId"`
	ReservationID uuid.UUID `gorm:"type:uuid;index;not null" json:"reservationId"`
	Message       string    `gorm:"type:text" json:"message"`
	Status        string    `gorm:"type:varchar(20)" json:"status"` // sent, failed, skipped
	ErrorMessage  string    `gorm:"type:text" json:"errorMessage,omitempty"`
	Channel       string    `gorm:"type:varchar(20)" json:"channel"` // whatsapp, sms
	SentAt        time.Time `json:"sentAt"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
