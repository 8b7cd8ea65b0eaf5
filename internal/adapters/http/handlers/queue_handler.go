package handlers

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"somity-ledger/internal/core/services"
	"somity-ledger/internal/pkg/response"
)

const sseHeartbeat = 25 * time.Second

// QueueHandler streams the pending request queue to staff screens
type QueueHandler struct {
	queue *services.RequestQueueService
	log   zerolog.Logger
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(queue *services.RequestQueueService, log zerolog.Logger) *QueueHandler {
	return &QueueHandler{queue: queue, log: log.With().Str("component", "queue_sse").Logger()}
}

// Stream sends a "queue" event with the full snapshot on connect and after every change
// @Summary Live pending queue
// @Description Server-sent events; each event carries pending deposits and join requests
// @Tags Admin Deposits
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {object} services.QueueSnapshot
// @Failure 503 {object} response.Response
// @Router /api/v1/admin/queue/stream [get]
func (h *QueueHandler) Stream(c *fiber.Ctx) error {
	ctx, cancel := context.WithCancel(context.Background())
	updates, err := h.queue.Watch(ctx)
	if err != nil {
		cancel()
		return response.FromError(c, err)
	}

	encode := c.App().Config().JSONEncoder

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set(fiber.HeaderTransferEncoding, "chunked")

	var stream fasthttp.StreamWriter = func(w *bufio.Writer) {
		defer cancel()

		heartbeat := time.NewTicker(sseHeartbeat)
		defer heartbeat.Stop()

		for {
			select {
			case snap, ok := <-updates:
				if !ok {
					return
				}
				data, err := encode(snap)
				if err != nil {
					h.log.Error().Err(err).Msg("encode snapshot")
					continue
				}
				fmt.Fprintf(w, "event: queue\ndata: %s\n\n", data)
				if err := w.Flush(); err != nil {
					return
				}
			case <-heartbeat.C:
				fmt.Fprint(w, ": heartbeat\n\n")
				if err := w.Flush(); err != nil {
					h.log.Debug().Msg("watcher disconnected")
					return
				}
			}
		}
	}
	c.Context().SetBodyStreamWriter(stream)
	return nil
}
