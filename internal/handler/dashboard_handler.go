package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/floatlab/booking-api/internal/dto"
	"github.com/floatlab/booking-api/pkg/response"
)

type dashboardService interface {
	Summary(ctx context.Context, days int) (*dto.DashboardSummary, error)
}

// DashboardHandler exposes the admin dashboard aggregate.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler builds a new handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Summary godoc
// @Summary Aggregate upcoming capacity, bookings and revenue
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param days query int false "Days ahead" default(7)
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), queryInt(c, "days", 7))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
