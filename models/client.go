package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Client struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	NationalID string    `gorm:"uniqueIndex" json:"nationalId"`
	FirstName  string    `gorm:"not null" json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone      string    `json:"phone"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// FullName joins first and last name, skipping an empty last name.
func (c *Client) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
