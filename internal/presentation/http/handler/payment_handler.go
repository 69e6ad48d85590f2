package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jumapay/billing-api/internal/application/service"
	"github.com/jumapay/billing-api/internal/presentation/http/dto/request"
	"github.com/jumapay/billing-api/internal/presentation/http/dto/response"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Record handles recording a payment against one or more invoices
func (h *PaymentHandler) Record(c *gin.Context) {
	var req request.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 400, "Invalid request body: "+err.Error())
		return
	}

	receivedAt := time.Now().UTC()
	if req.ReceivedAt != nil {
		receivedAt = *req.ReceivedAt
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), &service.RecordPaymentInput{
		Amount:     req.Amount,
		Currency:   req.Currency,
		ReceivedAt: receivedAt,
		InvoiceIDs: req.InvoiceIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 201, "Payment recorded successfully", response.NewPaymentResponse(payment))
}

// Get handles getting a single payment
func (h *PaymentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithCode(c, 400, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Payment retrieved successfully", response.NewPaymentResponse(payment))
}

// ListByInvoice handles listing payments allocated to one invoice
func (h *PaymentHandler) ListByInvoice(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithCode(c, 400, "Invalid invoice ID")
		return
	}

	payments, err := h.paymentService.ListPaymentsForInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Payments retrieved successfully", response.NewPaymentResponses(payments))
}
