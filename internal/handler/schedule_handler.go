package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/floatlab/booking-api/internal/dto"
	"github.com/floatlab/booking-api/internal/models"
	appErrors "github.com/floatlab/booking-api/pkg/errors"
	"github.com/floatlab/booking-api/pkg/response"
)

type scheduleService interface {
	GetMonth(ctx context.Context, year int, month time.Month) ([]dto.DaySummaryItem, error)
	GetRange(ctx context.Context, start, end string) ([]dto.DaySummaryItem, error)
	GetDaySlots(ctx context.Context, date string) (*dto.DaySlotsResponse, error)
	UpsertOverride(ctx context.Context, date string, req dto.UpsertOverrideRequest, actor *models.JWTClaims) (*models.ScheduleOverride, error)
	DeleteOverride(ctx context.Context, date string, actor *models.JWTClaims) error
	ExportRangeCSV(ctx context.Context, start, end string) ([]byte, error)
	ExportRangePDF(ctx context.Context, start, end string) ([]byte, error)
}

// ScheduleHandler exposes the booking calendar endpoints.
type ScheduleHandler struct {
	service        scheduleService
	exportsEnabled bool
}

// NewScheduleHandler builds a new handler.
func NewScheduleHandler(service scheduleService, exportsEnabled bool) *ScheduleHandler {
	return &ScheduleHandler{service: service, exportsEnabled: exportsEnabled}
}

// Month godoc
// @Summary Expand one calendar month of day summaries
// @Tags Schedule
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} response.Envelope
// @Router /schedule/month [get]
func (h *ScheduleHandler) Month(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2200 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be a four-digit number"))
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "month must be 1-12"))
		return
	}

	items, err := h.service.GetMonth(c.Request.Context(), year, time.Month(month))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Range godoc
// @Summary Expand an arbitrary date range of day summaries
// @Tags Schedule
// @Produce json
// @Param start query string true "Start date YYYY-MM-DD (inclusive)"
// @Param end query string true "End date YYYY-MM-DD (exclusive)"
// @Success 200 {object} response.Envelope
// @Router /schedule/range [get]
func (h *ScheduleHandler) Range(c *gin.Context) {
	items, err := h.service.GetRange(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Day godoc
// @Summary Return one day's capacity summary and slot list
// @Tags Schedule
// @Produce json
// @Param date path string true "Date YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /schedule/days/{date} [get]
func (h *ScheduleHandler) Day(c *gin.Context) {
	resp, err := h.service.GetDaySlots(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// UpsertOverride godoc
// @Summary Create or replace the override for one date
// @Tags Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param date path string true "Date YYYY-MM-DD"
// @Param payload body dto.UpsertOverrideRequest true "Override payload"
// @Success 200 {object} response.Envelope
// @Router /schedule/days/{date} [put]
func (h *ScheduleHandler) UpsertOverride(c *gin.Context) {
	var req dto.UpsertOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid override payload"))
		return
	}

	override, err := h.service.UpsertOverride(c.Request.Context(), c.Param("date"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, override, nil)
}

// DeleteOverride godoc
// @Summary Remove the override for one date
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param date path string true "Date YYYY-MM-DD"
// @Success 204
// @Router /schedule/days/{date} [delete]
func (h *ScheduleHandler) DeleteOverride(c *gin.Context) {
	if err := h.service.DeleteOverride(c.Request.Context(), c.Param("date"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export a date range as CSV or PDF
// @Tags Schedule
// @Produce octet-stream
// @Security BearerAuth
// @Param start query string true "Start date YYYY-MM-DD (inclusive)"
// @Param end query string true "End date YYYY-MM-DD (exclusive)"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /schedule/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	if !h.exportsEnabled {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "schedule exports are disabled"))
		return
	}
	start := c.Query("start")
	end := c.Query("end")
	filename := fmt.Sprintf("schedule_%s_%s", start, end)

	switch c.DefaultQuery("format", "csv") {
	case "csv":
		payload, err := h.service.ExportRangeCSV(c.Request.Context(), start, end)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		c.Data(http.StatusOK, "text/csv", payload)
	case "pdf":
		payload, err := h.service.ExportRangePDF(c.Request.Context(), start, end)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", filename))
		c.Data(http.StatusOK, "application/pdf", payload)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}
