package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/cargo-tracking/internal/core/ports"
)

// ShipmentHandler handles HTTP requests for shipment operations.
type ShipmentHandler struct {
	service ports.ShipmentService
}

func NewShipmentHandler(service ports.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{service: service}
}

// Create handles POST /v1/shipments.
//
// @Summary      Create a new shipment
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        body  body      createShipmentRequest  true  "Shipment details"
// @Success      201   {object}  shipmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/shipments [post]
func (h *ShipmentHandler) Create(c echo.Context) error {
	var req createShipmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s, err := h.service.CreateShipment(c.Request().Context(), toCreateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toShipmentResponse(s))
}

// List handles GET /v1/shipments.
//
// @Summary      List shipments
// @Tags         shipments
// @Produce      json
// @Param        status        query     string  false  "Filter by status"  Enums(pending, in_transit, delivered, delayed, cancelled)
// @Param        container_id  query     string  false  "Case-insensitive partial container id match"
// @Param        page          query     int     false  "Page number (default 1)"
// @Param        limit         query     int     false  "Page size (default 10, max 100)"
// @Success      200           {object}  listShipmentsResponse
// @Failure      400           {object}  errorResponse
// @Failure      500           {object}  errorResponse
// @Router       /v1/shipments [get]
func (h *ShipmentHandler) List(c echo.Context) error {
	var q listShipmentsQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.ListShipments(c.Request().Context(), ports.ListShipmentsInput{
		Status:      q.Status,
		ContainerID: q.ContainerID,
		Page:        q.Page,
		Limit:       q.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(res))
}

// Get handles GET /v1/shipments/:id.
//
// @Summary      Get a shipment by storage id or shipment id
// @Tags         shipments
// @Produce      json
// @Param        id   path      string  true  "Storage id or shipment id (e.g. SH1772352000123456)"
// @Success      200  {object}  shipmentResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/shipments/{id} [get]
func (h *ShipmentHandler) Get(c echo.Context) error {
	s, err := h.service.GetShipment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShipmentResponse(s))
}

// Update handles PUT /v1/shipments/:id.
//
// @Summary      Update mutable shipment fields
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "Storage id or shipment id"
// @Param        body  body      updateShipmentRequest  true  "Fields to replace"
// @Success      200   {object}  shipmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/shipments/{id} [put]
func (h *ShipmentHandler) Update(c echo.Context) error {
	var req updateShipmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s, err := h.service.UpdateShipment(c.Request().Context(), c.Param("id"), toUpdateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShipmentResponse(s))
}

// Delete handles DELETE /v1/shipments/:id.
//
// @Summary      Delete a shipment
// @Tags         shipments
// @Param        id   path  string  true  "Storage id or shipment id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/shipments/{id} [delete]
func (h *ShipmentHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteShipment(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ETA handles GET /v1/shipments/:id/eta.
//
// @Summary      Recompute the arrival estimate from the current position
// @Tags         tracking
// @Produce      json
// @Param        id   path      string  true  "Storage id or shipment id"
// @Success      200  {object}  etaResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/shipments/{id}/eta [get]
func (h *ShipmentHandler) ETA(c echo.Context) error {
	res, err := h.service.GetETA(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toETAResponse(res))
}

// Route handles GET /v1/shipments/:id/route.
//
// @Summary      Travelled route as a GeoJSON FeatureCollection
// @Tags         tracking
// @Produce      json
// @Param        id   path      string  true  "Storage id or shipment id"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/shipments/{id}/route [get]
func (h *ShipmentHandler) Route(c echo.Context) error {
	s, err := h.service.GetShipment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	body, err := toRouteFeatureCollection(s).MarshalJSON()
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, geoJSONContentType, body)
}
