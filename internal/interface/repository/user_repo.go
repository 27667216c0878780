// internal/interface/repository/user_repo.go
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

// MongoUserRepository implements the UserRepository interface
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoDB user repository
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	collection := db.Collection("users")

	ctx := context.Background()

	emailIndex := mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateOne(ctx, emailIndex)

	return &MongoUserRepository{collection: collection}
}

// Insert stores a new user, defaulting the role to user
func (r *MongoUserRepository) Insert(ctx context.Context, user *entity.User) (string, error) {
	if user.ID == "" {
		user.ID = primitive.NewObjectID().Hex()
	}
	if user.Role == "" {
		user.Role = entity.RoleUser
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.LastLogIn.IsZero() {
		user.LastLogIn = now
	}

	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return "", apperr.Wrap(apperr.Store, "failed to insert user", err)
	}
	return user.ID, nil
}

// FindByEmail returns one user by email
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.NotFound, "user not found")
		}
		return nil, apperr.Wrap(apperr.Store, "failed to fetch user", err)
	}
	return &user, nil
}

// SearchByEmail lists users whose email contains the fragment,
// case-insensitive
func (r *MongoUserRepository) SearchByEmail(ctx context.Context, fragment string) ([]entity.User, error) {
	query := bson.M{"email": primitive.Regex{Pattern: fragment, Options: "i"}}

	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "failed to search users", err)
	}
	defer cursor.Close(ctx)

	var users []entity.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, apperr.Wrap(apperr.Store, "failed to decode users", err)
	}
	return users, nil
}

// TouchLastLogIn refreshes the last_log_in stamp for a returning user
func (r *MongoUserRepository) TouchLastLogIn(ctx context.Context, email string, at time.Time) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"last_log_in": at}},
	)
	if err != nil {
		return apperr.Wrap(apperr.Store, "failed to update user", err)
	}
	return nil
}

// SetRoleByID writes a user's role by document ID
func (r *MongoUserRepository) SetRoleByID(ctx context.Context, id, role string) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": role}},
	)
	if err != nil {
		return apperr.Wrap(apperr.Store, "failed to update user role", err)
	}
	if result.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "user not found")
	}
	return nil
}

// SetRoleByEmail writes a user's role by email
func (r *MongoUserRepository) SetRoleByEmail(ctx context.Context, email, role string) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"role": role}},
	)
	if err != nil {
		return apperr.Wrap(apperr.Store, "failed to update user role", err)
	}
	if result.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "user not found")
	}
	return nil
}
