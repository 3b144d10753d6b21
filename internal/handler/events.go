package handler

import (
	"io"
	"net/http"
	"time"

	"ims/internal/dto"
	"ims/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Subscriber is satisfied by service.Broker.
type Subscriber interface {
	Subscribe() (<-chan dto.ChangeEvent, func())
}

type EventsHandler struct {
	sub       Subscriber
	keepAlive time.Duration
}

func NewEventsHandler(sub Subscriber) *EventsHandler {
	return &EventsHandler{sub: sub, keepAlive: 15 * time.Second}
}

// Stream godoc
// @Summary Stream inventory change events
// @Description Server-Sent Events; each event name is the change kind (product.sold, stock.low, ...).
// @Tags products
// @Produce text/event-stream
// @Router /v1/products/events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	events, cancel := h.sub.Subscribe()
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ping := time.NewTicker(h.keepAlive)
	defer ping.Stop()

	ctx := c.Request.Context()
	log.Debug().Str("request_id", c.GetString(middleware.RequestIDKey)).Msg("event stream opened")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case evt, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(evt.Kind, evt)
			return true
		case t := <-ping.C:
			c.SSEvent("ping", t.Unix())
			return true
		}
	})
	log.Debug().Str("request_id", c.GetString(middleware.RequestIDKey)).Msg("event stream closed")
}
