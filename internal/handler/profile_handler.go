package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/quickinvoice/invoice-builder-service/internal/domain"
	"github.com/quickinvoice/invoice-builder-service/internal/service"
)

// ProfileHandler handles HTTP requests for the business profile
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// GetProfile returns the user's saved business profile
// @Summary Get the business profile
// @Description Returns the saved business profile, or 204 when none has been saved yet
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.BusinessProfile "Business profile"
// @Success 204 "No profile saved yet"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Router /v1/profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	profile, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNoContent(c)
			return
		}
		logError(c, "get_profile_failed", err, nil)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, profile)
}

// SaveProfile creates or replaces the user's business profile
// @Summary Save the business profile
// @Description Creates the profile on first save, replaces it afterwards
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body domain.BusinessProfile true "Business profile"
// @Success 200 {object} domain.BusinessProfile "Saved profile"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Router /v1/profile [put]
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	var profile domain.BusinessProfile
	if err := bindJSON(c, &profile); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}
	profile.UserID = userID

	if err := h.profileService.Save(c.Request.Context(), &profile); err != nil {
		logError(c, "save_profile_failed", err, nil)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, &profile)
}

// UploadProfileImage attaches an image to one of the profile's image slots
// @Summary Upload a profile image
// @Description Validates and stores a PNG or JPEG image (max 500KB) in the named slot: logo, upi_qr or signature
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Image slot" Enums(logo, upi_qr, signature)
// @Param image formData file true "Image file (PNG or JPEG, max 500KB)"
// @Success 200 {object} domain.BusinessProfile "Updated profile"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 413 {object} model.ErrorResponse "Image too large"
// @Failure 415 {object} model.ErrorResponse "Unsupported image type"
// @Router /v1/profile/images/{kind} [post]
func (h *ProfileHandler) UploadProfileImage(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	kind, err := getPathParam(c, "kind")
	if err != nil || !domain.ValidProfileImageKind(kind) {
		respondBadRequest(c, "Unknown image kind")
		return
	}

	imageData, err := readFormFile(c, "image")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	profile, err := h.profileService.AttachImage(c.Request.Context(), userID, domain.ProfileImageKind(kind), imageData)
	if err != nil {
		respondImageError(c, "upload_profile_image_failed", err)
		return
	}

	respondOK(c, profile)
}

// RemoveProfileImage clears one of the profile's image slots
// @Summary Remove a profile image
// @Description Clears the named image slot: logo, upi_qr or signature
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Image slot" Enums(logo, upi_qr, signature)
// @Success 200 {object} domain.BusinessProfile "Updated profile"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 404 {object} model.ErrorResponse "No profile saved yet"
// @Router /v1/profile/images/{kind} [delete]
func (h *ProfileHandler) RemoveProfileImage(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	kind, err := getPathParam(c, "kind")
	if err != nil || !domain.ValidProfileImageKind(kind) {
		respondBadRequest(c, "Unknown image kind")
		return
	}

	profile, err := h.profileService.RemoveImage(c.Request.Context(), userID, domain.ProfileImageKind(kind))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(c, "No profile saved yet")
			return
		}
		logError(c, "remove_profile_image_failed", err, nil)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, profile)
}

// RegisterRoutes registers profile routes, all behind the auth middleware
func (h *ProfileHandler) RegisterRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	profile := router.Group("/v1/profile")
	profile.Use(authMiddleware)
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.SaveProfile)

		profile.POST("/images/:kind", h.UploadProfileImage)
		profile.DELETE("/images/:kind", h.RemoveProfileImage)
	}
}
