// internal/interface/repository/payment_repo.go
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

// MongoPaymentRepository implements the PaymentRepository interface
type MongoPaymentRepository struct {
	collection *mongo.Collection
}

// NewMongoPaymentRepository creates a new MongoDB payment repository
func NewMongoPaymentRepository(db *mongo.Database) repository.PaymentRepository {
	collection := db.Collection("payments")

	ctx := context.Background()

	historyIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "email", Value: 1},
			{Key: "paidAt", Value: -1},
		},
	}
	collection.Indexes().CreateOne(ctx, historyIndex)

	return &MongoPaymentRepository{collection: collection}
}

// Insert appends a payment record
func (r *MongoPaymentRepository) Insert(ctx context.Context, payment *entity.Payment) (string, error) {
	if payment.ID == "" {
		payment.ID = primitive.NewObjectID().Hex()
	}
	if payment.PaidAt.IsZero() {
		payment.PaidAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, payment)
	if err != nil {
		return "", apperr.Wrap(apperr.Store, "failed to insert payment", err)
	}
	return payment.ID, nil
}

// FindByEmail lists payments for an email, most recent first
func (r *MongoPaymentRepository) FindByEmail(ctx context.Context, email string) ([]entity.Payment, error) {
	opts := options.Find().SetSort(bson.M{"paidAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "failed to fetch payments", err)
	}
	defer cursor.Close(ctx)

	var payments []entity.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, apperr.Wrap(apperr.Store, "failed to decode payments", err)
	}
	return payments, nil
}
