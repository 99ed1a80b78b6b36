package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AggregateReservation = "reservation"

	EventReservationCreated = "reservation.created.v1"
	EventReservationUpdated = "reservation.updated.v1"
	EventReservationDeleted = "reservation.deleted.v1"
)

// OutboxEvent is a domain event written in the same transaction as the aggregate it describes.
// The Kafka topic equals EventType.
type OutboxEvent struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key"`
	AggregateType string     `gorm:"type:varchar(40);not null"`
	AggregateID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	EventType     string     `gorm:"type:varchar(80);not null"`
	Payload       []byte     `gorm:"type:bytea;not null"`
	CreatedAt     time.Time  `gorm:"index"`
	PublishedAt   *time.Time `gorm:"index"`
}

func (OutboxEvent) TableName() string {
	return "outbox_events"
}

func (e *OutboxEvent) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
