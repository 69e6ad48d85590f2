package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jumapay/billing-api/internal/application/service"
	"github.com/jumapay/billing-api/internal/domain/enum"
	"github.com/jumapay/billing-api/internal/presentation/http/dto/request"
	"github.com/jumapay/billing-api/internal/presentation/http/dto/response"
	"github.com/jumapay/billing-api/pkg/pagination"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Create handles creating a draft invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req request.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 400, "Invalid request body: "+err.Error())
		return
	}

	items := make([]service.LineItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.LineItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), &service.CreateInvoiceInput{
		CustomerID: req.CustomerID,
		Currency:   req.Currency,
		IssueDate:  req.IssueDate,
		DueDate:    req.DueDate,
		Items:      items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 201, "Invoice created successfully", response.NewInvoiceResponse(invoice))
}

// Get handles getting a single invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithCode(c, 400, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Invoice retrieved successfully", response.NewInvoiceResponse(invoice))
}

// GetByNumber handles getting a single invoice by its invoice number
func (h *InvoiceHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		response.ErrorWithCode(c, 400, "Invoice number is required")
		return
	}

	invoice, err := h.invoiceService.GetInvoiceByNumber(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Invoice retrieved successfully", response.NewInvoiceResponse(invoice))
}

// List handles listing invoices filtered by status and/or customer
func (h *InvoiceHandler) List(c *gin.Context) {
	var req request.InvoiceFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 400, "Invalid query parameters")
		return
	}

	var filter service.InvoiceFilter
	if req.Status != "" {
		status, err := enum.ParseInvoiceStatus(req.Status)
		if err != nil {
			response.ErrorWithCode(c, 400, "Invalid status filter")
			return
		}
		filter.Status = &status
	}
	if req.CustomerID != "" {
		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			response.ErrorWithCode(c, 400, "Invalid customer ID filter")
			return
		}
		filter.CustomerID = &customerID
	}

	params := &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), filter, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := pagination.NewPaginatedResult(response.NewInvoiceResponses(result.Items), result.Pagination)
	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", out)
}

// Send handles issuing a draft invoice to the customer
func (h *InvoiceHandler) Send(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithCode(c, 400, "Invalid invoice ID")
		return
	}

	var req request.SendInvoiceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ErrorWithCode(c, 400, "Invalid request body: "+err.Error())
			return
		}
	}

	invoice, err := h.invoiceService.SendInvoice(c.Request.Context(), id, req.Actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Invoice sent successfully", response.NewInvoiceResponse(invoice))
}

// Cancel handles cancelling a draft invoice
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithCode(c, 400, "Invalid invoice ID")
		return
	}

	var req request.CancelInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 400, "Invalid request body: "+err.Error())
		return
	}

	invoice, err := h.invoiceService.CancelInvoice(c.Request.Context(), id, req.Reason, req.Actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Invoice cancelled successfully", response.NewInvoiceResponse(invoice))
}

// Delete handles deleting a draft or cancelled invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithCode(c, 400, "Invalid invoice ID")
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Invoice deleted successfully", nil)
}
