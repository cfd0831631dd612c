package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"quickfix/internal/auth"
	"quickfix/internal/errors"
	"quickfix/internal/service"
)

// ProviderHandler handles provider directory endpoints.
type ProviderHandler struct {
	directoryService service.DirectoryService
	reviewService    service.ReviewService
}

// NewProviderHandler creates a new provider handler.
func NewProviderHandler(directoryService service.DirectoryService, reviewService service.ReviewService) *ProviderHandler {
	return &ProviderHandler{directoryService: directoryService, reviewService: reviewService}
}

// ProfileRequest represents the full replacement field set for a profile.
type ProfileRequest struct {
	Bio             string `json:"bio"`
	ExperienceYears int    `json:"experience_years" validate:"min=0"`
	Location        string `json:"location"`
	Phone           string `json:"phone"`
	IsAvailable     bool   `json:"is_available"`
}

// ServicesRequest represents the full replacement category set.
type ServicesRequest struct {
	CategoryIDs []string `json:"category_ids" validate:"required,dive,uuid"`
}

// ListByCategory godoc
// @Summary List available providers for a category
// @Tags providers
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {array} model.ProviderListing
// @Failure 404 {object} errors.ErrorResponse
// @Router /categories/{id}/providers [get]
func (h *ProviderHandler) ListByCategory(c echo.Context) error {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid category id",
			Code:  "INVALID_UUID",
		})
	}

	listings, err := h.directoryService.ListByCategory(c.Request().Context(), categoryID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, listings)
}

// Get godoc
// @Summary Get one provider profile regardless of availability
// @Tags providers
// @Produce json
// @Param id path string true "Provider user ID"
// @Success 200 {object} model.ProviderListing
// @Failure 404 {object} errors.ErrorResponse
// @Router /providers/{id} [get]
func (h *ProviderHandler) Get(c echo.Context) error {
	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid provider id",
			Code:  "INVALID_UUID",
		})
	}

	listing, err := h.directoryService.Get(c.Request().Context(), providerID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, listing)
}

// GetRating godoc
// @Summary Get a provider's rating aggregate
// @Tags providers
// @Produce json
// @Param id path string true "Provider user ID"
// @Success 200 {object} model.RatingSummary
// @Router /providers/{id}/rating [get]
func (h *ProviderHandler) GetRating(c echo.Context) error {
	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid provider id",
			Code:  "INVALID_UUID",
		})
	}

	summary, err := h.reviewService.ComputeRating(c.Request().Context(), providerID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, summary)
}

// UpsertProfile godoc
// @Summary Create or fully replace the calling provider's profile
// @Tags providers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileRequest true "Profile fields"
// @Success 200 {object} model.ProviderProfile
// @Failure 403 {object} errors.ErrorResponse
// @Router /provider/profile [put]
func (h *ProviderHandler) UpsertProfile(c echo.Context) error {
	ident, err := auth.IdentityFromContext(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	var req ProfileRequest
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

	profile, err := h.directoryService.UpsertProfile(c.Request().Context(), ident, service.ProfileInput{
		Bio:             req.Bio,
		ExperienceYears: req.ExperienceYears,
		Location:        req.Location,
		Phone:           req.Phone,
		IsAvailable:     req.IsAvailable,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, profile)
}

// ReplaceServices godoc
// @Summary Replace the calling provider's full category set
// @Tags providers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ServicesRequest true "Category IDs (may be empty)"
// @Success 204 "No Content"
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /provider/services [put]
func (h *ProviderHandler) ReplaceServices(c echo.Context) error {
	ident, err := auth.IdentityFromContext(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	var req ServicesRequest
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

	categoryIDs := make([]uuid.UUID, 0, len(req.CategoryIDs))
	for _, raw := range req.CategoryIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid category id",
				Code:  "INVALID_UUID",
			})
		}
		categoryIDs = append(categoryIDs, id)
	}

	if err := h.directoryService.ReplaceServices(c.Request().Context(), ident, categoryIDs); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

// ListServices godoc
// @Summary List the calling provider's offered category IDs
// @Tags providers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Failure 403 {object} errors.ErrorResponse
// @Router /provider/services [get]
func (h *ProviderHandler) ListServices(c echo.Context) error {
	ident, err := auth.IdentityFromContext(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	ids, err := h.directoryService.ListServices(c.Request().Context(), ident)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, ids)
}
