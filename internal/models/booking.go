package models

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Service  string  `gorm:"size:120;not null" json:"service"`
	Category *string `gorm:"size:80" json:"category"`

	// (date, time) is the slot; one booking per slot.
	Date time.Time `gorm:"type:date;not null;uniqueIndex:idx_bookings_slot,priority:1" json:"date"`
	Time string    `gorm:"size:5;not null;uniqueIndex:idx_bookings_slot,priority:2" json:"time"`

	ClientName string `gorm:"size:120;not null" json:"client_name"`
	Reference  string `gorm:"size:20;not null;uniqueIndex" json:"reference"`

	CreatedAt time.Time `json:"created_at"`
}

// BookingCounter holds the last reference sequence issued for a date.
type BookingCounter struct {
	Date    time.Time `gorm:"type:date;primaryKey"`
	LastSeq int       `gorm:"column:last_seq;not null;default:0"`
}
