package models

import "time"

// Slot half-day values.
const (
	SlotAM = "AM"
	SlotPM = "PM"
)

// Booking is the finalized snapshot of a session's collected fields.
// Records are append-only and immutable once written.
type Booking struct {
	ID           string    `bson:"id" json:"id"` // UUID
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty"`
	Phone        string    `bson:"phone" json:"phone"`
	City         string    `bson:"city,omitempty" json:"city,omitempty"`
	Address      string    `bson:"address,omitempty" json:"address,omitempty"`
	Service      string    `bson:"service" json:"service"`
	Bedrooms     *int      `bson:"bedrooms,omitempty" json:"bedrooms,omitempty"` // nil when never captured
	Message      string    `bson:"message,omitempty" json:"message,omitempty"`
	Confirmation string    `bson:"confirmation" json:"confirmation"`
	BookingTime  string    `bson:"booking_time" json:"booking_time"` // "<YYYY-MM-DD> <AM|PM>"
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// AvailabilitySlot is a bookable half-day unit, unique per (day, slot).
type AvailabilitySlot struct {
	Day         string    `bson:"day" json:"day"`   // "YYYY-MM-DD"
	Slot        string    `bson:"slot" json:"slot"` // SlotAM or SlotPM
	IsAvailable bool      `bson:"is_available" json:"is_available"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// InteractionLogEntry is one turn of the conversation audit trail.
// Append-only, write-only from the dialog engine's perspective.
type InteractionLogEntry struct {
	Phone      string    `bson:"phone" json:"phone"`
	Intent     string    `bson:"intent" json:"intent"`
	Transcript string    `bson:"transcript" json:"transcript"`
	Response   string    `bson:"response" json:"response"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
