// internal/interface/repository/rider_repo.go
package repository

import (
	"context"
	"errors"
	"time"

	"parceltrack-service/internal/domain/apperr"
	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRiderRepository implements the RiderRepository interface
type MongoRiderRepository struct {
	collection *mongo.Collection
}

// NewMongoRiderRepository creates a new MongoDB rider repository
func NewMongoRiderRepository(db *mongo.Database) repository.RiderRepository {
	collection := db.Collection("riders")

	ctx := context.Background()

	emailIndex := mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	}
	statusIndex := mongo.IndexModel{
		Keys: bson.M{"status": 1},
	}
	districtIndex := mongo.IndexModel{
		Keys: bson.M{"district": 1},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		emailIndex,
		statusIndex,
		districtIndex,
	})

	return &MongoRiderRepository{collection: collection}
}

// Insert stores a new rider application, defaulting to pending status
func (r *MongoRiderRepository) Insert(ctx context.Context, rider *entity.Rider) (string, error) {
	if rider.ID == "" {
		rider.ID = primitive.NewObjectID().Hex()
	}
	if rider.Status == "" {
		rider.Status = entity.RiderStatusPending
	}
	if rider.CreatedAt.IsZero() {
		rider.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, rider)
	if err != nil {
		return "", apperr.Wrap(apperr.Store, "failed to insert rider", err)
	}
	return rider.ID, nil
}

// FindByID returns one rider by ID
func (r *MongoRiderRepository) FindByID(ctx context.Context, id string) (*entity.Rider, error) {
	var rider entity.Rider
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rider)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.NotFound, "rider not found")
		}
		return nil, apperr.Wrap(apperr.Store, "failed to fetch rider", err)
	}
	return &rider, nil
}

// FindByStatus lists riders in a given application status
func (r *MongoRiderRepository) FindByStatus(ctx context.Context, status string) ([]entity.Rider, error) {
	return r.find(ctx, bson.M{"status": status})
}

// FindAvailableByDistrict lists approved riders free for assignment in a
// district
func (r *MongoRiderRepository) FindAvailableByDistrict(ctx context.Context, district string) ([]entity.Rider, error) {
	query := bson.M{
		"status":      entity.RiderStatusApproved,
		"work_status": bson.M{"$ne": entity.WorkStatusInDelivery},
	}
	if district != "" {
		query["district"] = district
	}
	return r.find(ctx, query)
}

// SetStatus writes a rider's application status
func (r *MongoRiderRepository) SetStatus(ctx context.Context, id, status string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"status": status}})
}

// SetWorkStatus writes a rider's availability state
func (r *MongoRiderRepository) SetWorkStatus(ctx context.Context, id, workStatus string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"work_status": workStatus}})
}

func (r *MongoRiderRepository) find(ctx context.Context, query bson.M) ([]entity.Rider, error) {
	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "failed to fetch riders", err)
	}
	defer cursor.Close(ctx)

	var riders []entity.Rider
	if err := cursor.All(ctx, &riders); err != nil {
		return nil, apperr.Wrap(apperr.Store, "failed to decode riders", err)
	}
	return riders, nil
}

func (r *MongoRiderRepository) updateOne(ctx context.Context, id string, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return apperr.Wrap(apperr.Store, "failed to update rider", err)
	}
	if result.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "rider not found")
	}
	return nil
}
