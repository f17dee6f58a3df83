package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"appointly/database"
	"appointly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAppointmentRepo implements AppointmentRepository using MongoDB.
type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo creates a new instance of AppointmentRepository using MongoDB.
func NewMongoAppointmentRepo(db *mongo.Database) AppointmentRepository {
	return &MongoAppointmentRepo{coll: db.Collection("appointments")}
}

// EnsureIndexes creates indexes for fields frequently used in queries.
func (r *MongoAppointmentRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		// Conflict scans and per-day slot overlays.
		{Keys: bson.D{{Key: "providerId", Value: 1}, {Key: "status", Value: 1}, {Key: "start", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		// Escalation sweep.
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "start", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}

// Create inserts a new appointment document.
func (r *MongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("appointment %s: %w", appt.ID, database.ErrDuplicate)
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// GetByID retrieves an appointment by its unique ID.
func (r *MongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("appointment %s: %w", id, database.ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching appointment with id %s: %w", id, err)
	}
	return &appt, nil
}

// FindConflict returns the first live appointment overlapping the candidate interval.
func (r *MongoAppointmentRepo) FindConflict(ctx context.Context, providerID string, start, end time.Time, excludeID string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	err := r.coll.FindOne(ctx, conflictFilter(providerID, start, end, excludeID)).Decode(&appt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("conflict scan for provider %s failed: %w", providerID, err)
	}
	return &appt, nil
}

// ListLiveBetween returns live appointments of the provider overlapping [from, to).
func (r *MongoAppointmentRepo) ListLiveBetween(ctx context.Context, providerID string, from, to time.Time) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	return r.find(ctx, overlapFilter(providerID, from, to), opts)
}

// CountLiveFrom counts live appointments of the provider that end after from.
func (r *MongoAppointmentRepo) CountLiveFrom(ctx context.Context, providerID string, from time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"providerId": providerID,
		"status":     bson.M{"$in": liveStatuses()},
		"end":        bson.M{"$gt": from},
	}
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments for provider %s: %w", providerID, err)
	}
	return n, nil
}

// ListByUser returns the user's appointments, newest created first.
func (r *MongoAppointmentRepo) ListByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"userId": userID}, opts)
}

// ListAll returns every appointment, latest start first.
func (r *MongoAppointmentRepo) ListAll(ctx context.Context) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: -1}})
	return r.find(ctx, bson.M{}, opts)
}

// ListPendingStartedBefore returns pending appointments with start before cutoff.
func (r *MongoAppointmentRepo) ListPendingStartedBefore(ctx context.Context, cutoff time.Time) ([]models.Appointment, error) {
	filter := bson.M{
		"status": models.StatusPending,
		"start":  bson.M{"$lt": cutoff},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	return r.find(ctx, filter, opts)
}

// TransitionStatus performs a compare-and-set status write.
func (r *MongoAppointmentRepo) TransitionStatus(ctx context.Context, ch StatusChange, now time.Time) (*models.Appointment, error) {
	return r.casUpdate(ctx, guardFilter(ch.ID, ch.FromStatus, ch.FromVersion), statusUpdate(ch, now))
}

// Reschedule performs a compare-and-set interval and status write.
func (r *MongoAppointmentRepo) Reschedule(ctx context.Context, ch ScheduleChange, now time.Time) (*models.Appointment, error) {
	return r.casUpdate(ctx, guardFilter(ch.ID, ch.FromStatus, ch.FromVersion), scheduleUpdate(ch, now))
}

func (r *MongoAppointmentRepo) casUpdate(ctx context.Context, filter, update bson.M) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var appt models.Appointment
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&appt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("appointment %v: %w", filter["id"], database.ErrStale)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment %v: %w", filter["id"], err)
	}
	return &appt, nil
}

func (r *MongoAppointmentRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching appointments: %w", err)
	}
	defer cursor.Close(ctx)

	appts := []models.Appointment{}
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appts, nil
}
