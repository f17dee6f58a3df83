package memory

import (
	"context"
	"sync"

	providerRepo "appointly/database/repository/provider"
	schedulerRepo "appointly/database/repository/scheduler"
)

// TxRunner serializes booking writes per provider with a mutex.
type TxRunner struct {
	providers providerRepo.ProviderRepository

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

var _ schedulerRepo.TxRunner = (*TxRunner)(nil)

func NewTxRunner(providers providerRepo.ProviderRepository) *TxRunner {
	return &TxRunner{providers: providers, locks: make(map[string]*sync.Mutex)}
}

func (t *TxRunner) lockFor(providerID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.locks[providerID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[providerID] = l
	}
	return l
}

func (t *TxRunner) WithProviderLock(ctx context.Context, providerID string, fn func(ctx context.Context) error) error {
	l := t.lockFor(providerID)
	l.Lock()
	defer l.Unlock()

	if err := t.providers.BumpScheduleVersion(ctx, providerID); err != nil {
		return err
	}
	return fn(ctx)
}
