package handler

import (
	"github.com/facturio/facturio-api/internal/application/service"
	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/presentation/http/dto/request"
	"github.com/facturio/facturio-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// AssistantHandler handles AI draft HTTP requests
type AssistantHandler struct {
	assistantService *service.AssistantService
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistantService *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

// Generate turns a free-text prompt into a structured draft for review.
// Nothing is persisted at this stage.
func (h *AssistantHandler) Generate(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.GenerateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	envelope, err := h.assistantService.GenerateDraft(c.Request.Context(), *userID, req.Prompt, req.Answers)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Draft generated", envelope)
}

// Accept materializes a reviewed draft through the regular creation paths
func (h *AssistantHandler) Accept(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var envelope entity.DraftEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.assistantService.AcceptDraft(c.Request.Context(), *userID, &envelope)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Draft accepted", result)
}
