package handler

import (
	"strconv"
	"time"

	"github.com/facturio/facturio-api/internal/application/service"
	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/internal/presentation/http/dto/request"
	"github.com/facturio/facturio-api/internal/presentation/http/dto/response"
	"github.com/facturio/facturio-api/internal/scheduler"
	"github.com/facturio/facturio-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RecurringHandler handles recurring invoice template HTTP requests
type RecurringHandler struct {
	recurringService *service.RecurringService
	runner           *scheduler.Runner
}

// NewRecurringHandler creates a new recurring invoice handler
func NewRecurringHandler(recurringService *service.RecurringService, runner *scheduler.Runner) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService, runner: runner}
}

// List handles listing recurring templates
func (h *RecurringHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{Page: page, PerPage: perPage}

	result, err := h.recurringService.ListRecurringInvoices(c.Request.Context(), *userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Recurring invoices retrieved successfully", result)
}

// Create handles creating a recurring template
func (h *RecurringHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateRecurringInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		response.BadRequest(c, "Invalid client ID")
		return
	}
	frequency, ok := enum.ParseFrequency(req.Frequency)
	if !ok {
		response.BadRequest(c, "Invalid frequency")
		return
	}
	startDate, err := parseDate("start_date", req.StartDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	endDate, err := parseOptionalDate("end_date", req.EndDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := toLineItems(req.Items)
	if err != nil {
		response.Error(c, err)
		return
	}

	rec, err := h.recurringService.CreateRecurringInvoice(c.Request.Context(), &service.CreateRecurringInvoiceInput{
		UserID:    *userID,
		ClientID:  clientID,
		Label:     req.Label,
		Frequency: frequency,
		StartDate: startDate,
		EndDate:   endDate,
		Items:     items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Recurring invoice created successfully", rec)
}

// Get handles retrieving a single recurring template
func (h *RecurringHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid recurring invoice ID")
		return
	}

	rec, err := h.recurringService.GetRecurringInvoice(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Recurring invoice retrieved successfully", rec)
}

// Update handles updating a recurring template
func (h *RecurringHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid recurring invoice ID")
		return
	}

	var req request.UpdateRecurringInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateRecurringInvoiceInput{
		UserID:       *userID,
		ID:           id,
		Label:        req.Label,
		ClearEndDate: req.ClearEndDate,
	}
	if req.ClientID != nil {
		clientID, err := uuid.Parse(*req.ClientID)
		if err != nil {
			response.BadRequest(c, "Invalid client ID")
			return
		}
		input.ClientID = &clientID
	}
	if req.Frequency != nil {
		frequency, ok := enum.ParseFrequency(*req.Frequency)
		if !ok {
			response.BadRequest(c, "Invalid frequency")
			return
		}
		input.Frequency = &frequency
	}
	if input.StartDate, err = parseOptionalDate("start_date", req.StartDate); err != nil {
		response.Error(c, err)
		return
	}
	if input.EndDate, err = parseOptionalDate("end_date", req.EndDate); err != nil {
		response.Error(c, err)
		return
	}
	if req.Items != nil {
		items, err := toLineItems(req.Items)
		if err != nil {
			response.Error(c, err)
			return
		}
		input.Items = items
	}

	rec, err := h.recurringService.UpdateRecurringInvoice(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Recurring invoice updated successfully", rec)
}

// SetActive pauses or resumes a recurring template
func (h *RecurringHandler) SetActive(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid recurring invoice ID")
		return
	}

	var req request.SetRecurringActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	rec, err := h.recurringService.SetRecurringInvoiceActive(c.Request.Context(), *userID, id, *req.IsActive)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Recurring invoice updated successfully", rec)
}

// Delete handles deleting a recurring template
func (h *RecurringHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid recurring invoice ID")
		return
	}

	if err := h.recurringService.DeleteRecurringInvoice(c.Request.Context(), *userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// RunNow triggers an immediate recurring sweep for the authenticated user.
// The run goes through the scheduler so it cannot interleave with the cron
// pass for the same account.
func (h *RecurringHandler) RunNow(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	report, err := h.runner.RunForUser(c.Request.Context(), *userID, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Recurring run completed", report)
}
