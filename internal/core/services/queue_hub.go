package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/adapters/persistence/repositories"
	"somity-ledger/internal/core/domain"
)

const snapshotTimeout = 5 * time.Second

// QueueSnapshot is the full set of requests waiting for staff
type QueueSnapshot struct {
	PendingDeposits     []*models.Deposit     `json:"pending_deposits"`
	PendingJoinRequests []*models.JoinRequest `json:"pending_join_requests"`
	At                  time.Time             `json:"at"`
}

// QueueHub pushes a fresh QueueSnapshot to every watcher whenever the queue
// changes. Bursts of signals collapse into one snapshot.
type QueueHub struct {
	deposits repositories.DepositRepository
	joins    repositories.JoinRequestRepository
	log      zerolog.Logger
	now      func() time.Time

	mu      sync.RWMutex
	clients map[string]chan QueueSnapshot

	trigger chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewQueueHub creates a hub and starts its broadcast loop
func NewQueueHub(deposits repositories.DepositRepository, joins repositories.JoinRequestRepository, log zerolog.Logger) *QueueHub {
	h := &QueueHub{
		deposits: deposits,
		joins:    joins,
		log:      log.With().Str("component", "queue_hub").Logger(),
		now:      time.Now,
		clients:  make(map[string]chan QueueSnapshot),
		trigger:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go h.run()
	return h
}

// Signal marks the queue as changed. It never blocks.
func (h *QueueHub) Signal() {
	select {
	case h.trigger <- struct{}{}:
	default:
	}
}

// Snapshot reads the current pending requests
func (h *QueueHub) Snapshot(ctx context.Context) (*QueueSnapshot, error) {
	deposits, err := h.deposits.ListByStatus(ctx, string(domain.StatusPending))
	if err != nil {
		return nil, err
	}
	joins, err := h.joins.ListByStatus(ctx, string(domain.StatusPending))
	if err != nil {
		return nil, err
	}
	if deposits == nil {
		deposits = []*models.Deposit{}
	}
	if joins == nil {
		joins = []*models.JoinRequest{}
	}
	return &QueueSnapshot{
		PendingDeposits:     deposits,
		PendingJoinRequests: joins,
		At:                  h.now(),
	}, nil
}

// Subscribe returns a channel that first receives the current snapshot and
// then every later one. The channel is closed when ctx ends or the hub closes.
func (h *QueueHub) Subscribe(ctx context.Context) (<-chan QueueSnapshot, error) {
	id := uuid.NewString()
	ch := make(chan QueueSnapshot, 1)

	// register before the first read so a change signalled meanwhile is broadcast to ch
	h.mu.Lock()
	closed := false
	select {
	case <-h.done:
		closed = true
	default:
		h.clients[id] = ch
	}
	total := len(h.clients)
	h.mu.Unlock()

	first, err := h.Snapshot(ctx)
	if err != nil {
		h.unregister(id)
		return nil, err
	}

	if closed {
		ch <- *first
		close(ch)
		return ch, nil
	}

	h.mu.RLock()
	if _, ok := h.clients[id]; ok {
		// a broadcast that got here first is at least as fresh
		select {
		case ch <- *first:
		default:
		}
	}
	h.mu.RUnlock()

	h.log.Debug().Str("client", id).Int("total", total).Msg("📡 queue watcher registered")

	go func() {
		select {
		case <-ctx.Done():
		case <-h.done:
		}
		h.unregister(id)
	}()
	return ch, nil
}

// Close stops the broadcast loop and closes every watcher channel
func (h *QueueHub) Close() {
	h.once.Do(func() {
		close(h.done)
		h.mu.Lock()
		for id, ch := range h.clients {
			close(ch)
			delete(h.clients, id)
		}
		h.mu.Unlock()
	})
}

// Watchers returns the number of connected watchers
func (h *QueueHub) Watchers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *QueueHub) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.clients[id]; ok {
		close(ch)
		delete(h.clients, id)
		h.log.Debug().Str("client", id).Int("total", len(h.clients)).Msg("📡 queue watcher unregistered")
	}
}

func (h *QueueHub) run() {
	for {
		select {
		case <-h.done:
			return
		case <-h.trigger:
			h.broadcast()
		}
	}
}

func (h *QueueHub) broadcast() {
	if h.Watchers() == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	snap, err := h.Snapshot(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("❌ queue snapshot failed")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.clients {
		// a slow watcher only ever sees the latest snapshot
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- *snap:
		default:
		}
	}
}
