// File: database/repository/booking/booking_mongo.go
package bookingRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"frontdesk/database"
	"frontdesk/models"
)

type mongoBookingRepo struct {
	bookings     *mongo.Collection
	slots        *mongo.Collection
	interactions *mongo.Collection
}

// NewMongoBookingRepo returns a BookingRepository backed by the bookings,
// availability_slots, and interactions collections.
func NewMongoBookingRepo() BookingRepository {
	db := database.DB()
	repo := &mongoBookingRepo{
		bookings:     db.Collection("bookings"),
		slots:        db.Collection("availability_slots"),
		interactions: db.Collection("interactions"),
	}
	repo.ensureIndexes()
	return repo
}

func (r *mongoBookingRepo) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r.slots.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "day", Value: 1}, {Key: "slot", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	r.bookings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "phone", Value: 1}},
	})
}

func (r *mongoBookingRepo) SaveBooking(ctx context.Context, booking models.Booking) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}
	if _, err := r.bookings.InsertOne(ctx, booking); err != nil {
		return "", err
	}
	return booking.ID, nil
}

func (r *mongoBookingRepo) MarkSlotTaken(ctx context.Context, day, slot string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"day": day, "slot": slot}
	update := bson.M{
		"$set":         bson.M{"is_available": false},
		"$setOnInsert": bson.M{"created_at": time.Now().UTC()},
	}
	_, err := r.slots.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *mongoBookingRepo) SetSlotAvailable(ctx context.Context, day, slot string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"day": day, "slot": slot}
	update := bson.M{
		"$set":         bson.M{"is_available": true},
		"$setOnInsert": bson.M{"created_at": time.Now().UTC()},
	}
	_, err := r.slots.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *mongoBookingRepo) ListSlots(ctx context.Context) ([]models.AvailabilitySlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.slots.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "day", Value: 1}, {Key: "slot", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var slots []models.AvailabilitySlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *mongoBookingRepo) ListBookings(ctx context.Context) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.bookings.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *mongoBookingRepo) UpdateBookingTime(ctx context.Context, phone, bookingTime string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"phone": phone}
	update := bson.M{"$set": bson.M{"booking_time": bookingTime}}
	_, err := r.bookings.UpdateMany(ctx, filter, update)
	return err
}

func (r *mongoBookingRepo) LogInteraction(ctx context.Context, entry models.InteractionLogEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := r.interactions.InsertOne(ctx, entry)
	return err
}

func (r *mongoBookingRepo) ListInteractions(ctx context.Context, limit int) ([]models.InteractionLogEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.interactions.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var entries []models.InteractionLogEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
