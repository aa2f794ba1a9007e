// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"

	"frontdesk/models"
)

// BookingRepository persists finalized bookings, availability slots, and
// the interaction audit trail. SaveBooking and MarkSlotTaken are
// independently retryable; a MarkSlotTaken failure after a successful
// SaveBooking is a recorded inconsistency, not a fatal error.
type BookingRepository interface {
	// SaveBooking appends a booking record and returns its id.
	SaveBooking(ctx context.Context, booking models.Booking) (string, error)
	// MarkSlotTaken flips the (day, slot) row to unavailable, inserting
	// it if missing. Idempotent: repeating the call leaves the slot
	// unavailable.
	MarkSlotTaken(ctx context.Context, day, slot string) error
	// SetSlotAvailable opens (or re-opens) a (day, slot) row.
	SetSlotAvailable(ctx context.Context, day, slot string) error
	ListSlots(ctx context.Context) ([]models.AvailabilitySlot, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)
	// UpdateBookingTime rewrites the booking time for a caller's
	// bookings (the confirm-time endpoint).
	UpdateBookingTime(ctx context.Context, phone, bookingTime string) error
	// LogInteraction appends one audit-trail entry.
	LogInteraction(ctx context.Context, entry models.InteractionLogEntry) error
	ListInteractions(ctx context.Context, limit int) ([]models.InteractionLogEntry, error)
}
