package handler

import (
	"strconv"

	"github.com/facturio/facturio-api/internal/application/service"
	"github.com/facturio/facturio-api/internal/domain/enum"
	"github.com/facturio/facturio-api/internal/presentation/http/dto/request"
	"github.com/facturio/facturio-api/internal/presentation/http/dto/response"
	"github.com/facturio/facturio-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentHandler handles invoice and quote HTTP requests
type DocumentHandler struct {
	invoiceService *service.InvoiceService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(invoiceService *service.InvoiceService) *DocumentHandler {
	return &DocumentHandler{invoiceService: invoiceService}
}

// List handles listing documents with optional type, status and client filters
func (h *DocumentHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	input := &service.ListDocumentsInput{
		UserID:     *userID,
		Pagination: &pagination.PaginationParams{Page: page, PerPage: perPage},
		Search:     c.Query("search"),
	}

	if typeStr := c.Query("type"); typeStr != "" {
		docType, ok := enum.ParseDocumentType(typeStr)
		if !ok {
			response.BadRequest(c, "Invalid document type")
			return
		}
		input.Type = &docType
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status, ok := enum.ParseInvoiceStatus(statusStr)
		if !ok {
			response.BadRequest(c, "Invalid document status")
			return
		}
		input.Status = &status
	}
	if clientIDStr := c.Query("client_id"); clientIDStr != "" {
		clientID, err := uuid.Parse(clientIDStr)
		if err != nil {
			response.BadRequest(c, "Invalid client ID")
			return
		}
		input.ClientID = &clientID
	}

	result, err := h.invoiceService.ListDocuments(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Documents retrieved successfully", result)
}

// Create handles creating an invoice or quote
func (h *DocumentHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	docType, ok := enum.ParseDocumentType(req.Type)
	if !ok {
		response.BadRequest(c, "Invalid document type")
		return
	}
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		response.BadRequest(c, "Invalid client ID")
		return
	}
	date, err := parseOptionalDate("date", req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}
	dueDate, err := parseOptionalDate("due_date", req.DueDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := toLineItems(req.Items)
	if err != nil {
		response.Error(c, err)
		return
	}

	doc, err := h.invoiceService.CreateDocument(c.Request.Context(), &service.CreateDocumentInput{
		UserID:   *userID,
		ClientID: clientID,
		Type:     docType,
		Date:     date,
		DueDate:  dueDate,
		Notes:    req.Notes,
		Items:    items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Document created successfully", doc)
}

// Get handles retrieving a single document with its items
func (h *DocumentHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid document ID")
		return
	}

	doc, err := h.invoiceService.GetDocument(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Document retrieved successfully", doc)
}

// Update handles updating a document's editable fields
func (h *DocumentHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid document ID")
		return
	}

	var req request.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateDocumentInput{
		UserID: *userID,
		ID:     id,
		Notes:  req.Notes,
	}
	if req.ClientID != nil {
		clientID, err := uuid.Parse(*req.ClientID)
		if err != nil {
			response.BadRequest(c, "Invalid client ID")
			return
		}
		input.ClientID = &clientID
	}
	if input.Date, err = parseOptionalDate("date", req.Date); err != nil {
		response.Error(c, err)
		return
	}
	if input.DueDate, err = parseOptionalDate("due_date", req.DueDate); err != nil {
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

	doc, err := h.invoiceService.UpdateDocument(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Document updated successfully", doc)
}

// UpdateStatus handles document status transitions
func (h *DocumentHandler) UpdateStatus(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid document ID")
		return
	}

	var req request.UpdateDocumentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	status, ok := enum.ParseInvoiceStatus(req.Status)
	if !ok {
		response.BadRequest(c, "Invalid document status")
		return
	}

	doc, err := h.invoiceService.UpdateDocumentStatus(c.Request.Context(), *userID, id, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Document status updated successfully", doc)
}

// Delete handles deleting a document
func (h *DocumentHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid document ID")
		return
	}

	if err := h.invoiceService.DeleteDocument(c.Request.Context(), *userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Convert handles converting a quote into a new invoice
func (h *DocumentHandler) Convert(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid document ID")
		return
	}

	invoice, err := h.invoiceService.ConvertQuote(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Quote converted successfully", invoice)
}
