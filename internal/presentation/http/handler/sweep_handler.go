package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jumapay/billing-api/internal/application/service"
	"github.com/jumapay/billing-api/internal/presentation/http/dto/request"
	"github.com/jumapay/billing-api/internal/presentation/http/dto/response"
)

// SweepHandler exposes the overdue sweep as an operator endpoint
type SweepHandler struct {
	overdueService *service.OverdueService
}

// NewSweepHandler creates a new sweep handler
func NewSweepHandler(overdueService *service.OverdueService) *SweepHandler {
	return &SweepHandler{overdueService: overdueService}
}

// RunOverdue handles a manual overdue sweep. An as_of timestamp in the body
// pins the cutoff, otherwise the current time is used.
func (h *SweepHandler) RunOverdue(c *gin.Context) {
	var req request.SweepRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ErrorWithCode(c, 400, "Invalid request body: "+err.Error())
			return
		}
	}

	asOf := time.Now().UTC()
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	result, err := h.overdueService.Run(c.Request.Context(), asOf)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Overdue sweep completed", result)
}
