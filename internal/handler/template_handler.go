package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/quickinvoice/invoice-builder-service/internal/domain"
	"github.com/quickinvoice/invoice-builder-service/internal/service"
)

// TemplateHandler handles saving and restoring invoice templates
type TemplateHandler struct {
	draftService service.DraftService
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(draftService service.DraftService) *TemplateHandler {
	return &TemplateHandler{
		draftService: draftService,
	}
}

// SaveTemplate persists the current draft as a reusable template
// @Summary Save the draft as a template
// @Description Upserts the current draft by invoice number; saving the same number overwrites the earlier copy
// @Tags templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DraftState "Saved draft"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/templates [put]
func (h *TemplateHandler) SaveTemplate(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	state, err := h.draftService.SaveTemplate(c.Request.Context(), userID)
	if err != nil {
		logError(c, "save_template_failed", err, nil)
		respondInternalServerError(c, "Failed to save template")
		return
	}

	respondOK(c, state)
}

// LoadLatestTemplate replaces the draft with the most recently saved template
// @Summary Load the latest template
// @Description Replaces the working draft with the most recently saved template, or 204 when none exists
// @Tags templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DraftState "Restored draft"
// @Success 204 "No template saved yet"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Router /v1/templates/latest [get]
func (h *TemplateHandler) LoadLatestTemplate(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	state, err := h.draftService.LoadLatestTemplate(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNoContent(c)
			return
		}
		logError(c, "load_latest_template_failed", err, nil)
		respondInternalServerError(c, "Failed to load template")
		return
	}

	respondOK(c, state)
}

// RegisterRoutes registers template routes, all behind the auth middleware
func (h *TemplateHandler) RegisterRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	templates := router.Group("/v1/templates")
	templates.Use(authMiddleware)
	{
		templates.PUT("", h.SaveTemplate)
		templates.GET("/latest", h.LoadLatestTemplate)
	}
}
