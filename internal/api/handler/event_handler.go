package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/cargo-tracking/internal/core/ports"
)

// EventDispatcher is the interface the handler uses to enqueue location updates.
type EventDispatcher interface {
	Enqueue(ctx context.Context, in ports.LocationUpdateInput) error
	// EnqueueBatch returns how many updates were accepted before a failure.
	EnqueueBatch(ctx context.Context, batch []ports.LocationUpdateInput) (int, error)
}

// maxBatchSize caps POST /v1/events/batch.
const maxBatchSize = 500

// EventHandler handles asynchronous location-update ingestion.
type EventHandler struct {
	dispatcher EventDispatcher
}

// NewEventHandler creates an EventHandler backed by the given dispatcher.
func NewEventHandler(dispatcher EventDispatcher) *EventHandler {
	return &EventHandler{dispatcher: dispatcher}
}

// Receive handles POST /v1/events. It enqueues a single update and returns 202.
//
// @Summary      Ingest a single location update
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        body  body      locationEventRequest  true  "Location update"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/events [post]
func (h *EventHandler) Receive(c echo.Context) error {
	var req locationEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.dispatcher.Enqueue(c.Request().Context(), toEventInput(req)); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "event queue unavailable")
	}
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "event accepted"})
}

// ReceiveBatch handles POST /v1/events/batch. The whole batch is validated
// before anything is enqueued. Enqueueing is not atomic: if the queue fails
// midway the 503 reports how many events were already accepted, and those
// will be processed.
//
// @Summary      Ingest a batch of location updates
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        body  body      []locationEventRequest  true  "Array of location updates"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/events/batch [post]
func (h *EventHandler) ReceiveBatch(c echo.Context) error {
	var reqs []locationEventRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}
	if len(reqs) > maxBatchSize {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("batch of %d events exceeds the limit of %d", len(reqs), maxBatchSize))
	}

	inputs := make([]ports.LocationUpdateInput, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("event[%d]: %s", i, err.Error()))
		}
		inputs = append(inputs, toEventInput(req))
	}

	if n, err := h.dispatcher.EnqueueBatch(c.Request().Context(), inputs); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable,
			fmt.Sprintf("event queue unavailable: %d of %d events accepted", n, len(inputs)))
	}
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message: "events accepted",
		Count:   len(inputs),
	})
}
