package schedulerRepo

import (
	"context"
	"fmt"
	"time"

	providerRepo "appointly/database/repository/provider"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// MongoTxRunner implements TxRunner with a multi-document transaction.
type MongoTxRunner struct {
	client    *mongo.Client
	providers providerRepo.ProviderRepository
}

// NewMongoTxRunner constructs a TxRunner bound to client.
func NewMongoTxRunner(client *mongo.Client, providers providerRepo.ProviderRepository) TxRunner {
	return &MongoTxRunner{client: client, providers: providers}
}

// WithProviderLock bumps the provider's schedule version before running fn.
// Two transactions on one provider both write that document, so one of them
// aborts with a write conflict and is retried by the driver after the other
// commits; the retry then sees the committed appointment.
func (r *MongoTxRunner) WithProviderLock(ctx context.Context, providerID string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if err := r.providers.BumpScheduleVersion(sc, providerID); err != nil {
			return nil, err
		}
		return nil, fn(sc)
	}, txnOpts)
	if err != nil {
		return fmt.Errorf("booking transaction for provider %s failed: %w", providerID, err)
	}
	return nil
}
