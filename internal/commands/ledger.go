package commands

import (
	"context"
	"fmt"

	"github.com/groupfund/groupfund/internal/service"
	"github.com/groupfund/groupfund/internal/storage"
)

// withLedger opens the store, runs fn and closes the store again.
func withLedger(ctx context.Context, flags *storageFlags, fn func(store storage.Store, ledger *service.LedgerService) error) error {
	store, err := storage.Open(ctx, flags.options())
	if err != nil {
		return fmt.Errorf("opening %s store: %w", flags.backend, err)
	}
	defer store.Close()

	return fn(store, service.NewLedgerService(store, nil, nil, nil))
}
