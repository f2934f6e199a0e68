package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/cargo-tracking/internal/core/ports"
)

// TrackingHandler applies synchronous location updates.
type TrackingHandler struct {
	service ports.TrackingService
}

func NewTrackingHandler(service ports.TrackingService) *TrackingHandler {
	return &TrackingHandler{service: service}
}

// UpdateLocation handles POST /v1/shipments/:id/update-location.
//
// @Summary      Report a new location for a shipment
// @Tags         tracking
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "Storage id or shipment id"
// @Param        body  body      updateLocationRequest  true  "Location update"
// @Success      200   {object}  shipmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/shipments/{id}/update-location [post]
func (h *TrackingHandler) UpdateLocation(c echo.Context) error {
	var req updateLocationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s, err := h.service.UpdateLocation(c.Request().Context(), toLocationUpdateInput(c.Param("id"), req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShipmentResponse(s))
}
