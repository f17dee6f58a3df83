package providerRepo

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

// MongoProviderRepo implements ProviderRepository using MongoDB.
type MongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo creates a new instance of ProviderRepository using MongoDB.
func NewMongoProviderRepo(db *mongo.Database) ProviderRepository {
	return &MongoProviderRepo{coll: db.Collection("providers")}
}

// EnsureIndexes creates indexes for frequently used fields in queries.
func (r *MongoProviderRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "city", Value: 1}, {Key: "speciality", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create provider indexes: %w", err)
	}
	return nil
}

// Create inserts a new provider document.
func (r *MongoProviderRepo) Create(ctx context.Context, provider *models.Provider) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, provider); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("provider %s: %w", provider.ID, database.ErrDuplicate)
		}
		return fmt.Errorf("failed to create provider: %w", err)
	}
	return nil
}

// GetByID retrieves a provider document by ID.
func (r *MongoProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var provider models.Provider
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&provider); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("provider %s: %w", id, database.ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching provider with id %s: %w", id, err)
	}
	return &provider, nil
}

// GetAll retrieves all providers ordered by name.
func (r *MongoProviderRepo) GetAll(ctx context.Context) ([]models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching providers: %w", err)
	}
	defer cursor.Close(ctx)

	providers := []models.Provider{}
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, fmt.Errorf("error decoding providers: %w", err)
	}
	return providers, nil
}

// UpdateProfile overwrites the editable profile fields of a provider.
func (r *MongoProviderRepo) UpdateProfile(ctx context.Context, id string, input models.ProviderInput) (*models.Provider, error) {
	return r.updateWithOperator(ctx, id, "$set", bson.M{
		"name":        input.Name,
		"speciality":  input.Speciality,
		"bio":         input.Bio,
		"hourlyPrice": input.HourlyPrice,
		"address":     input.Address,
		"city":        input.City,
		"updatedAt":   time.Now(),
	})
}

// SetWeeklyAvailability replaces the weekly slot template.
func (r *MongoProviderRepo) SetWeeklyAvailability(ctx context.Context, id string, week []models.DayAvailability) (*models.Provider, error) {
	return r.updateWithOperator(ctx, id, "$set", bson.M{
		"weeklyAvailability": week,
		"updatedAt":          time.Now(),
	})
}

// SetUnavailableDates replaces the blocked calendar dates.
func (r *MongoProviderRepo) SetUnavailableDates(ctx context.Context, id string, dates []string) (*models.Provider, error) {
	return r.updateWithOperator(ctx, id, "$set", bson.M{
		"unavailableDates": dates,
		"updatedAt":        time.Now(),
	})
}

// Delete removes a provider document by its ID.
func (r *MongoProviderRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete provider with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("provider %s: %w", id, database.ErrNotFound)
	}
	return nil
}

// SetSlotHeld updates exactly one embedded slot through array filters.
func (r *MongoProviderRepo) SetSlotHeld(ctx context.Context, id, day, slotTime string, held bool) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id": id,
		"weeklyAvailability": bson.M{
			"$elemMatch": bson.M{
				"day":        day,
				"slots.time": slotTime,
			},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"weeklyAvailability.$[d].slots.$[s].held": held,
			"updatedAt": time.Now(),
		},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"d.day": day},
			bson.M{"s.time": slotTime},
		},
	})

	result, err := r.coll.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return false, fmt.Errorf("failed to update hold for slot %s on %s: %w", slotTime, day, err)
	}
	return result.MatchedCount > 0, nil
}

// BumpScheduleVersion is the first write of every booking transaction so
// that concurrent bookings for one provider collide on this document.
func (r *MongoProviderRepo) BumpScheduleVersion(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$inc": bson.M{"scheduleVersion": 1}})
	if err != nil {
		return fmt.Errorf("failed to fence provider %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("provider %s: %w", id, database.ErrNotFound)
	}
	return nil
}

func (r *MongoProviderRepo) updateWithOperator(ctx context.Context, id, operator string, updateDoc bson.M) (*models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var provider models.Provider
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{operator: updateDoc}, opts).Decode(&provider)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("provider %s: %w", id, database.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update provider with id %s: %w", id, err)
	}
	return &provider, nil
}
