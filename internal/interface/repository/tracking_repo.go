// internal/interface/repository/tracking_repo.go
package repository

import (
	"context"
	"time"

	"parceltrack-service/internal/domain/apperr"
	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTrackingRepository implements the TrackingRepository interface
type MongoTrackingRepository struct {
	collection *mongo.Collection
}

// NewMongoTrackingRepository creates a new MongoDB tracking repository
func NewMongoTrackingRepository(db *mongo.Database) repository.TrackingRepository {
	collection := db.Collection("trackings")

	ctx := context.Background()

	replayIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "tracking_id", Value: 1},
			{Key: "timestamp", Value: 1},
		},
	}
	collection.Indexes().CreateOne(ctx, replayIndex)

	return &MongoTrackingRepository{collection: collection}
}

// Append inserts a tracking event. The timestamp is stamped server-side
// so history ordering never depends on client clocks.
func (r *MongoTrackingRepository) Append(ctx context.Context, event *entity.TrackingEvent) (string, error) {
	if event.ID == "" {
		event.ID = primitive.NewObjectID().Hex()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return "", apperr.Wrap(apperr.Store, "failed to insert tracking event", err)
	}
	return event.ID, nil
}

// FindByTrackingID returns all events for a tracking ID in chronological
// order
func (r *MongoTrackingRepository) FindByTrackingID(ctx context.Context, trackingID string) ([]entity.TrackingEvent, error) {
	opts := options.Find().SetSort(bson.M{"timestamp": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"tracking_id": trackingID}, opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "failed to fetch tracking events", err)
	}
	defer cursor.Close(ctx)

	var events []entity.TrackingEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, apperr.Wrap(apperr.Store, "failed to decode tracking events", err)
	}
	return events, nil
}
