package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"somity-ledger/internal/adapters/persistence/models"
	"somity-ledger/internal/adapters/persistence/repositories"
)

func recvSnapshot(t *testing.T, ch <-chan QueueSnapshot) QueueSnapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok, "watcher channel closed")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot received")
	}
	return QueueSnapshot{}
}

func TestQueueHub_SubscribeAndSignal(t *testing.T) {
	_, repos := newTestStore(t)
	hub := NewQueueHub(repos.Deposits, repos.JoinRequests, nopLogger)
	defer hub.Close()

	seedMember(t, repos, "m1", "0")
	seedPendingDeposit(t, repos, "d1", "m1", "100")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates, err := hub.Subscribe(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, hub.Watchers())

	first := recvSnapshot(t, updates)
	require.Len(t, first.PendingDeposits, 1)
	assert.NotNil(t, first.PendingJoinRequests)

	seedPendingDeposit(t, repos, "d2", "m1", "200")
	hub.Signal()
	hub.Signal()

	next := recvSnapshot(t, updates)
	assert.Len(t, next.PendingDeposits, 2)
}

// changingDeposits runs onList once, right after the first pending-list read
type changingDeposits struct {
	repositories.DepositRepository
	once   sync.Once
	onList func()
}

func (r *changingDeposits) ListByStatus(ctx context.Context, status string) ([]*models.Deposit, error) {
	items, err := r.DepositRepository.ListByStatus(ctx, status)
	r.once.Do(r.onList)
	return items, err
}

func TestQueueHub_ChangeDuringSubscribeIsDelivered(t *testing.T) {
	_, repos := newTestStore(t)
	seedMember(t, repos, "m1", "0")
	seedPendingDeposit(t, repos, "d1", "m1", "100")

	var hub *QueueHub
	deposits := &changingDeposits{DepositRepository: repos.Deposits}
	deposits.onList = func() {
		seedPendingDeposit(t, repos, "d2", "m1", "200")
		hub.Signal()
	}
	hub = NewQueueHub(deposits, repos.JoinRequests, nopLogger)
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates, err := hub.Subscribe(ctx)
	require.NoError(t, err)

	seen := 0
	deadline := time.After(2 * time.Second)
	for seen < 2 {
		select {
		case snap := <-updates:
			seen = len(snap.PendingDeposits)
		case <-deadline:
			t.Fatalf("watcher never saw the second deposit, last saw %d", seen)
		}
	}
}

func TestQueueHub_UnsubscribeOnCancel(t *testing.T) {
	_, repos := newTestStore(t)
	hub := NewQueueHub(repos.Deposits, repos.JoinRequests, nopLogger)
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	_, err := hub.Subscribe(ctx)
	require.NoError(t, err)

	cancel()
	assert.Eventually(t, func() bool { return hub.Watchers() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestQueueHub_CloseEndsWatchers(t *testing.T) {
	_, repos := newTestStore(t)
	hub := NewQueueHub(repos.Deposits, repos.JoinRequests, nopLogger)

	updates, err := hub.Subscribe(context.Background())
	require.NoError(t, err)
	recvSnapshot(t, updates)

	hub.Close()
	_, open := <-updates
	assert.False(t, open)

	// subscribing to a closed hub yields the snapshot and then a closed channel
	late, err := hub.Subscribe(context.Background())
	require.NoError(t, err)
	recvSnapshot(t, late)
	_, open = <-late
	assert.False(t, open)

	assert.NotPanics(t, hub.Signal)
	assert.NotPanics(t, hub.Close)
}
