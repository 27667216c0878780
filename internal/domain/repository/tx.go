package repository

import (
	"context"
)

// TxRunner runs fn inside one store transaction. Repository calls made
// with the context passed to fn join that transaction; if fn returns an
// error every write inside it is rolled back.
type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
