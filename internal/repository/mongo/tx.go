package mongo

import (
	"context"

	"fitnesshub/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

// txRunner implements repository.TxRunner with MongoDB sessions.
type txRunner struct {
	client  *mongo.Client
	enabled bool
}

// NewTxRunner returns a TxRunner. With enabled=false fn runs directly on the
// caller's context, which is what standalone servers (no replica set) need.
func NewTxRunner(client *mongo.Client, enabled bool) repository.TxRunner {
	return &txRunner{client: client, enabled: enabled}
}

func (t *txRunner) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled || t.client == nil {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	// WithTransaction retries fn on transient transaction errors.
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
