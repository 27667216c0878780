package persistence

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"parceltrack-service/internal/domain/apperr"
	"parceltrack-service/internal/domain/repository"
)

// NewMongoClient creates a new MongoDB client
func NewMongoClient(ctx context.Context, uri, username, password string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri)

	if username != "" && password != "" {
		clientOptions.SetAuth(options.Credential{
			Username: username,
			Password: password,
		})
	}

	// Set connection timeout
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping to check connection
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, err
	}

	return client, nil
}

// GetDatabase gets a database from the client
func GetDatabase(client *mongo.Client, name string) *mongo.Database {
	return client.Database(name)
}

// MongoTxRunner runs a function inside one MongoDB session transaction.
// The assign-rider, record-payment and rider-approval flows each touch two
// documents; running them through here keeps both writes or neither.
type MongoTxRunner struct {
	client *mongo.Client
}

// NewMongoTxRunner creates a transaction runner bound to a client
func NewMongoTxRunner(client *mongo.Client) repository.TxRunner {
	return &MongoTxRunner{client: client}
}

// WithinTransaction starts a session, runs fn with the session context
// and commits, or aborts if fn returns an error.
func (t *MongoTxRunner) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return apperr.Wrap(apperr.Store, "failed to start store session", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
