package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"somity-ledger/internal/core/domain"
)

const (
	defaultDispatchBuffer  = 256
	defaultDispatchTimeout = 10 * time.Second
)

// NotificationDispatcher fans ledger events out to delivery channels on one
// background worker. A full buffer drops the event instead of blocking.
type NotificationDispatcher struct {
	events   chan domain.Event
	channels []Channel
	timeout  time.Duration
	log      zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewNotificationDispatcher starts the worker. bufferSize <= 0 uses the default.
func NewNotificationDispatcher(log zerolog.Logger, bufferSize int, channels ...Channel) *NotificationDispatcher {
	if bufferSize <= 0 {
		bufferSize = defaultDispatchBuffer
	}
	d := &NotificationDispatcher{
		events:   make(chan domain.Event, bufferSize),
		channels: channels,
		timeout:  defaultDispatchTimeout,
		log:      log.With().Str("component", "dispatcher").Logger(),
	}

	d.wg.Add(1)
	go d.run()

	names := make([]string, 0, len(channels))
	for _, ch := range channels {
		names = append(names, ch.Name())
	}
	d.log.Info().Strs("channels", names).Msg("🔔 notification dispatcher started")
	return d
}

// Dispatch queues ev for delivery
func (d *NotificationDispatcher) Dispatch(ev domain.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn().Str("kind", string(ev.Kind)).Msg("dispatcher closed, event dropped")
		return
	}

	select {
	case d.events <- ev:
	default:
		d.log.Warn().
			Str("kind", string(ev.Kind)).
			Str("recipient", ev.RecipientID).
			Msg("⚠️ notification buffer full, event dropped")
	}
}

// Close stops accepting events and waits for queued ones to be delivered
func (d *NotificationDispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.events)
	}
	d.mu.Unlock()

	d.wg.Wait()
	d.log.Info().Msg("🛑 notification dispatcher stopped")
}

func (d *NotificationDispatcher) run() {
	defer d.wg.Done()
	for ev := range d.events {
		for _, ch := range d.channels {
			if err := d.deliver(ch, ev); err != nil {
				d.log.Error().
					Err(err).
					Str("channel", ch.Name()).
					Str("kind", string(ev.Kind)).
					Str("recipient", ev.RecipientID).
					Msg("❌ notification delivery failed")
			}
		}
	}
}

// deliver isolates one channel: a timeout or panic there never reaches the others
func (d *NotificationDispatcher) deliver(ch Channel, ev domain.Event) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("channel panicked: %v", r)
		}
	}()
	return ch.Send(ctx, ev)
}
