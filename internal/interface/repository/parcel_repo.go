// internal/interface/repository/parcel_repo.go
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

// MongoParcelRepository implements the ParcelRepository interface
type MongoParcelRepository struct {
	collection *mongo.Collection
}

// NewMongoParcelRepository creates a new MongoDB parcel repository
func NewMongoParcelRepository(db *mongo.Database) repository.ParcelRepository {
	collection := db.Collection("parcels")

	// Create indexes for the common query paths
	ctx := context.Background()

	createdByIndex := mongo.IndexModel{
		Keys: bson.M{"created_by": 1},
	}
	deliveryStatusIndex := mongo.IndexModel{
		Keys: bson.M{"delivery_status": 1},
	}
	riderEmailIndex := mongo.IndexModel{
		Keys: bson.M{"assigned_rider_email": 1},
	}
	trackingIndex := mongo.IndexModel{
		Keys: bson.M{"tracking_id": 1},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		createdByIndex,
		deliveryStatusIndex,
		riderEmailIndex,
		trackingIndex,
	})

	return &MongoParcelRepository{collection: collection}
}

// Insert stores a new parcel and returns its ID
func (r *MongoParcelRepository) Insert(ctx context.Context, parcel *entity.Parcel) (string, error) {
	if parcel.ID == "" {
		parcel.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, parcel)
	if err != nil {
		return "", apperr.Wrap(apperr.Store, "failed to insert parcel", err)
	}
	return parcel.ID, nil
}

// FindByID returns one parcel by ID
func (r *MongoParcelRepository) FindByID(ctx context.Context, id string) (*entity.Parcel, error) {
	var parcel entity.Parcel
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&parcel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.NotFound, "parcel not found")
		}
		return nil, apperr.Wrap(apperr.Store, "failed to fetch parcel", err)
	}
	return &parcel, nil
}

// Find lists parcels matching the filter, newest first
func (r *MongoParcelRepository) Find(ctx context.Context, filter repository.ParcelFilter) ([]entity.Parcel, error) {
	query := bson.M{}
	if filter.CreatedBy != "" {
		query["created_by"] = filter.CreatedBy
	}
	if filter.PaymentStatus != "" {
		query["payment_status"] = filter.PaymentStatus
	}
	if filter.DeliveryStatus != "" {
		query["delivery_status"] = filter.DeliveryStatus
	}
	if filter.AssignedRiderEmail != "" {
		query["assigned_rider_email"] = filter.AssignedRiderEmail
	}
	if len(filter.DeliveryStatusIn) > 0 {
		query["delivery_status"] = bson.M{"$in": filter.DeliveryStatusIn}
	}

	opts := options.Find().SetSort(bson.M{"creation_date": -1})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "failed to fetch parcels", err)
	}
	defer cursor.Close(ctx)

	var parcels []entity.Parcel
	if err := cursor.All(ctx, &parcels); err != nil {
		return nil, apperr.Wrap(apperr.Store, "failed to decode parcels", err)
	}
	return parcels, nil
}

// Delete removes one parcel by ID
func (r *MongoParcelRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.Store, "failed to delete parcel", err)
	}
	if result.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "parcel not found")
	}
	return nil
}

// SetAssignment records the rider identity on the parcel and moves the
// delivery status to rider_assigned
func (r *MongoParcelRepository) SetAssignment(ctx context.Context, id, riderID, riderName, riderEmail string) error {
	update := bson.M{"$set": bson.M{
		"delivery_status":      entity.DeliveryStatusRiderAssigned,
		"assigned_rider_id":    riderID,
		"assigned_rider_name":  riderName,
		"assigned_rider_email": riderEmail,
	}}
	return r.updateOne(ctx, id, update)
}

// SetDeliveryStatus writes a new delivery status together with the
// lifecycle timestamps that belong to it
func (r *MongoParcelRepository) SetDeliveryStatus(ctx context.Context, id, status string, pickedAt, deliveredAt *time.Time) error {
	set := bson.M{"delivery_status": status}
	if pickedAt != nil {
		set["picked_at"] = *pickedAt
	}
	if deliveredAt != nil {
		set["delivered_at"] = *deliveredAt
	}
	return r.updateOne(ctx, id, bson.M{"$set": set})
}

// SetCashedOut marks a parcel's proceeds as paid out
func (r *MongoParcelRepository) SetCashedOut(ctx context.Context, id string, at time.Time) error {
	update := bson.M{"$set": bson.M{
		"cashout_status": entity.CashoutStatusCashedOut,
		"cashed_out_at":  at,
	}}
	return r.updateOne(ctx, id, update)
}

// SetPaid marks a parcel as paid
func (r *MongoParcelRepository) SetPaid(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{"payment_status": entity.PaymentStatusPaid}}
	return r.updateOne(ctx, id, update)
}

// CountByDeliveryStatus groups parcels by delivery status for the
// dashboard
func (r *MongoParcelRepository) CountByDeliveryStatus(ctx context.Context) ([]entity.StatusCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$delivery_status",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "failed to aggregate parcel statuses", err)
	}
	defer cursor.Close(ctx)

	var counts []entity.StatusCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, apperr.Wrap(apperr.Store, "failed to decode status counts", err)
	}
	return counts, nil
}

func (r *MongoParcelRepository) updateOne(ctx context.Context, id string, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return apperr.Wrap(apperr.Store, "failed to update parcel", err)
	}
	if result.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "parcel not found")
	}
	return nil
}
