package services

import (
	"context"

	"somity-ledger/internal/core/domain"
)

// Notifier receives ledger events after commit. Dispatch must not block and
// has no way to report failure back to the ledger.
//
//go:generate mockgen -destination=mocks/mock_notifier.go -source=notifier.go
type Notifier interface {
	Dispatch(ev domain.Event)
}

// Channel delivers one event over one medium (push gateway, e-mail)
type Channel interface {
	Name() string
	Send(ctx context.Context, ev domain.Event) error
}
