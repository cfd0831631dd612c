package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"quickfix/internal/auth"
	"quickfix/internal/errors"
	"quickfix/internal/model"
	"quickfix/internal/service"
)

const bookingDateLayout = "2006-01-02"

// BookingHandler handles booking lifecycle endpoints.
type BookingHandler struct {
	bookingService service.BookingService
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBookingRequest represents a booking creation request.
type CreateBookingRequest struct {
	ProviderID string `json:"provider_id" validate:"required,uuid"`
	CategoryID string `json:"category_id" validate:"omitempty,uuid"`
	Date       string `json:"date" validate:"required"`
	TimeSlot   string `json:"time_slot" validate:"required"`
	Notes      string `json:"notes"`
}

// Create godoc
// @Summary Create a booking (customer)
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBookingRequest true "Booking data"
// @Success 201 {object} model.Booking
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	ident, err := auth.IdentityFromContext(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	providerID, err := uuid.Parse(req.ProviderID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid provider_id",
			Code:  "INVALID_UUID",
		})
	}

	var categoryID *uuid.UUID
	if req.CategoryID != "" {
		id, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid category_id",
				Code:  "INVALID_UUID",
			})
		}
		categoryID = &id
	}

	date, err := time.Parse(bookingDateLayout, req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "date must be formatted as YYYY-MM-DD",
			Code:  "INVALID_DATE",
		})
	}

	booking, err := h.bookingService.Create(c.Request().Context(), ident, service.CreateBookingInput{
		ProviderID: providerID,
		CategoryID: categoryID,
		Date:       date,
		TimeSlot:   req.TimeSlot,
		Notes:      req.Notes,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, booking)
}

// Accept godoc
// @Summary Accept a pending booking (owning provider)
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} model.Booking
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /bookings/{id}/accept [post]
func (h *BookingHandler) Accept(c echo.Context) error {
	return h.transition(c, model.BookingActionAccept)
}

// Reject godoc
// @Summary Reject a pending booking (owning provider)
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} model.Booking
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /bookings/{id}/reject [post]
func (h *BookingHandler) Reject(c echo.Context) error {
	return h.transition(c, model.BookingActionReject)
}

// Cancel godoc
// @Summary Cancel a pending booking (owning customer)
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} model.Booking
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c echo.Context) error {
	return h.transition(c, model.BookingActionCancel)
}

// Complete godoc
// @Summary Complete an accepted booking (owning provider)
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} model.Booking
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /bookings/{id}/complete [post]
func (h *BookingHandler) Complete(c echo.Context) error {
	return h.transition(c, model.BookingActionComplete)
}

func (h *BookingHandler) transition(c echo.Context, action model.BookingAction) error {
	ident, err := auth.IdentityFromContext(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid booking id",
			Code:  "INVALID_UUID",
		})
	}

	booking, err := h.bookingService.Transition(c.Request().Context(), ident, bookingID, action)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, booking)
}

// ListMine godoc
// @Summary List the calling customer's bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.BookingSummary
// @Failure 403 {object} errors.ErrorResponse
// @Router /bookings [get]
func (h *BookingHandler) ListMine(c echo.Context) error {
	ident, err := auth.IdentityFromContext(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	summaries, err := h.bookingService.ListMine(c.Request().Context(), ident)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, summaries)
}

// ListAssigned godoc
// @Summary List bookings assigned to the calling provider
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.BookingSummary
// @Failure 403 {object} errors.ErrorResponse
// @Router /provider/bookings [get]
func (h *BookingHandler) ListAssigned(c echo.Context) error {
	ident, err := auth.IdentityFromContext(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	summaries, err := h.bookingService.ListAssigned(c.Request().Context(), ident)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, summaries)
}

// ListAll godoc
// @Summary List all bookings (admin), optionally filtered by status
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param status query string false "Booking status filter"
// @Success 200 {array} model.BookingSummary
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/bookings [get]
func (h *BookingHandler) ListAll(c echo.Context) error {
	ident, err := auth.IdentityFromContext(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	var status *model.BookingStatus
	if raw := c.QueryParam("status"); raw != "" {
		s := model.BookingStatus(raw)
		if !s.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "unknown booking status",
				Code:  "INVALID_STATUS",
			})
		}
		status = &s
	}

	summaries, err := h.bookingService.ListAll(c.Request().Context(), ident, status)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, summaries)
}
