package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base contains common columns for surrogate-keyed tables
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id" bson:"_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = NewID()
	}
	return nil
}

// NewID returns a time-ordered UUIDv7 string, falling back to a random
// UUIDv4 if the clock-based generator fails.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
