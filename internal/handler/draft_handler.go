package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/quickinvoice/invoice-builder-service/internal/imageutil"
	"github.com/quickinvoice/invoice-builder-service/internal/service"
)

// DraftHandler handles HTTP requests for the working invoice draft
type DraftHandler struct {
	draftService   service.DraftService
	profileService service.ProfileService
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(draftService service.DraftService, profileService service.ProfileService) *DraftHandler {
	return &DraftHandler{
		draftService:   draftService,
		profileService: profileService,
	}
}

// GetDraft returns the user's current draft with derived totals
// @Summary Get the current invoice draft
// @Description Returns the working draft and its freshly computed totals
// @Tags draft
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DraftState "Current draft"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Router /v1/draft [get]
func (h *DraftHandler) GetDraft(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	state, err := h.draftService.Get(c.Request.Context(), userID)
	if err != nil {
		logError(c, "get_draft_failed", err, nil)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, state)
}

// UpdateDraft applies a partial update to draft-level fields
// @Summary Update draft fields
// @Description Applies a partial update to invoice-level fields and returns the recalculated draft
// @Tags draft
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.DraftUpdate true "Fields to update"
// @Success 200 {object} service.DraftState "Updated draft"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Router /v1/draft [patch]
func (h *DraftHandler) UpdateDraft(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	var update service.DraftUpdate
	if err := bindJSON(c, &update); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}

	state, err := h.draftService.Update(c.Request.Context(), userID, update)
	if err != nil {
		logError(c, "update_draft_failed", err, nil)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, state)
}

// AddLineItem appends a blank line item to the draft
// @Summary Add a line item
// @Description Appends a blank line item and returns the updated draft
// @Tags draft
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} service.DraftState "Updated draft"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Router /v1/draft/items [post]
func (h *DraftHandler) AddLineItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	state, err := h.draftService.AddLineItem(c.Request.Context(), userID)
	if err != nil {
		logError(c, "add_line_item_failed", err, nil)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondCreated(c, state)
}

// UpdateLineItem updates a single field of one line item
// @Summary Update a line item field
// @Description Sets one field of a line item; unparsable numeric input falls back to a safe default
// @Tags draft
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Line item ID"
// @Param request body LineItemUpdateRequest true "Field and value"
// @Success 200 {object} service.DraftState "Updated draft"
// @Failure 400 {object} model.ErrorResponse "Unknown field"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Router /v1/draft/items/{id} [patch]
func (h *DraftHandler) UpdateLineItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	itemID, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, ErrInvalidID)
		return
	}

	var req LineItemUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}

	state, err := h.draftService.UpdateLineItem(c.Request.Context(), userID, itemID, req.Field, req.Value)
	if err != nil {
		if errors.Is(err, service.ErrUnknownField) {
			respondBadRequest(c, "Unknown line item field")
			return
		}
		logError(c, "update_line_item_failed", err, map[string]interface{}{
			"item_id": itemID,
		})
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, state)
}

// RemoveLineItem deletes a line item from the draft
// @Summary Remove a line item
// @Description Removes the line item; an unknown id is a no-op
// @Tags draft
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Line item ID"
// @Success 200 {object} service.DraftState "Updated draft"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Router /v1/draft/items/{id} [delete]
func (h *DraftHandler) RemoveLineItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	itemID, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, ErrInvalidID)
		return
	}

	state, err := h.draftService.RemoveLineItem(c.Request.Context(), userID, itemID)
	if err != nil {
		logError(c, "remove_line_item_failed", err, map[string]interface{}{
			"item_id": itemID,
		})
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, state)
}

// GetTotals returns only the derived totals block
// @Summary Get draft totals
// @Description Returns subtotal, discount, tax and payable amounts for the current draft
// @Tags draft
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Totals "Derived totals"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Router /v1/draft/totals [get]
func (h *DraftHandler) GetTotals(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	state, err := h.draftService.Get(c.Request.Context(), userID)
	if err != nil {
		logError(c, "get_totals_failed", err, nil)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, state.Totals)
}

// GetPreview returns the render model for the invoice preview
// @Summary Get the invoice preview
// @Description Returns a display-ready render model with formatted amounts and placeholder fallbacks
// @Tags draft
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} preview.Model "Preview render model"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Router /v1/draft/preview [get]
func (h *DraftHandler) GetPreview(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	previewModel, err := h.draftService.Preview(c.Request.Context(), userID)
	if err != nil {
		logError(c, "get_preview_failed", err, nil)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, previewModel)
}

// UploadSignature attaches a signature image to the draft
// @Summary Upload a draft signature
// @Description Validates and stores a PNG or JPEG signature (max 500KB) and attaches it to the draft
// @Tags draft
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param signature formData file true "Signature image (PNG or JPEG, max 500KB)"
// @Success 200 {object} service.DraftState "Updated draft"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 413 {object} model.ErrorResponse "Image too large"
// @Failure 415 {object} model.ErrorResponse "Unsupported image type"
// @Router /v1/draft/signature [post]
func (h *DraftHandler) UploadSignature(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	imageData, err := readFormFile(c, "signature")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	signatureURL, err := h.profileService.PrepareImage(c.Request.Context(), userID, imageData)
	if err != nil {
		respondImageError(c, "upload_signature_failed", err)
		return
	}

	state, err := h.draftService.SetSignature(c.Request.Context(), userID, signatureURL)
	if err != nil {
		logError(c, "set_signature_failed", err, nil)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, state)
}

// RemoveSignature detaches the signature image from the draft
// @Summary Remove the draft signature
// @Description Clears the signature from the current draft
// @Tags draft
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DraftState "Updated draft"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Router /v1/draft/signature [delete]
func (h *DraftHandler) RemoveSignature(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	state, err := h.draftService.RemoveSignature(c.Request.Context(), userID)
	if err != nil {
		logError(c, "remove_signature_failed", err, nil)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, state)
}

// RegisterRoutes registers draft routes, all behind the auth middleware
func (h *DraftHandler) RegisterRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	draft := router.Group("/v1/draft")
	draft.Use(authMiddleware)
	{
		draft.GET("", h.GetDraft)
		draft.PATCH("", h.UpdateDraft)

		draft.POST("/items", h.AddLineItem)
		draft.PATCH("/items/:id", h.UpdateLineItem)
		draft.DELETE("/items/:id", h.RemoveLineItem)

		draft.GET("/totals", h.GetTotals)
		draft.GET("/preview", h.GetPreview)

		draft.POST("/signature", h.UploadSignature)
		draft.DELETE("/signature", h.RemoveSignature)
	}
}

// LineItemUpdateRequest names one line item field and its raw value
type LineItemUpdateRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// respondImageError maps image validation failures to their HTTP statuses
func respondImageError(c *gin.Context, event string, err error) {
	switch {
	case errors.Is(err, imageutil.ErrImageTooLarge):
		respondRequestEntityTooLarge(c, "Image exceeds the 500KB size limit")
	case errors.Is(err, imageutil.ErrUnsupportedImageType):
		respondUnsupportedMediaType(c, "Only PNG and JPEG images are supported")
	default:
		logError(c, event, err, nil)
		respondInternalServerError(c, ErrFileUpload)
	}
}
