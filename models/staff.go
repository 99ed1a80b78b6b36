package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StaffMember struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FirstName string    `gorm:"not null" json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone     string    `json:"phone"`

	// Role is empty for staff that have not been assigned a job yet.
	Role StaffRole `gorm:"type:varchar(40)" json:"role"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (StaffMember) TableName() string {
	return "staff_members"
}

func (s *StaffMember) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
