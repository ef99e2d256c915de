package handler

import (
	"github.com/facturio/facturio-api/internal/application/service"
	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/presentation/http/dto/request"
	"github.com/facturio/facturio-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// BillingHandler handles subscription and usage HTTP requests
type BillingHandler struct {
	billingService *service.BillingService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// GetInfo returns the current subscription, plan, usage and available plans
func (h *BillingHandler) GetInfo(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	info, err := h.billingService.GetBillingInfo(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Billing info retrieved successfully", info)
}

// ChangePlan switches the subscription to another plan
func (h *BillingHandler) ChangePlan(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sub, err := h.billingService.ChangePlan(c.Request.Context(), *userID, entity.PlanID(req.PlanID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Plan changed successfully", sub)
}

// Cancel schedules a downgrade to the free plan at the period boundary
func (h *BillingHandler) Cancel(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	sub, err := h.billingService.CancelSubscription(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Subscription will be cancelled at the end of the period", sub)
}

// Resume clears a pending cancellation
func (h *BillingHandler) Resume(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	sub, err := h.billingService.ResumeSubscription(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Subscription resumed", sub)
}
