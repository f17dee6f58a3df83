package schedulerRepo

import "context"

// TxRunner runs booking writes for one provider as a unit.
type TxRunner interface {
	// WithProviderLock fences providerID and runs fn in the same transaction.
	// fn must use the ctx it is given for every store call. It returns
	// database.ErrNotFound when the provider does not exist. fn may run more
	// than once when the store retries a transient conflict.
	WithProviderLock(ctx context.Context, providerID string, fn func(ctx context.Context) error) error
}
