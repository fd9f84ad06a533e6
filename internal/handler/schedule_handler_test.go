package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floatlab/booking-api/internal/dto"
	"github.com/floatlab/booking-api/internal/middleware"
	"github.com/floatlab/booking-api/internal/models"
	appErrors "github.com/floatlab/booking-api/pkg/errors"
)

type scheduleServiceMock struct {
	monthResp  []dto.DaySummaryItem
	rangeResp  []dto.DaySummaryItem
	dayResp    *dto.DaySlotsResponse
	upsertResp *models.ScheduleOverride
	upsertErr  error
	deleteErr  error
	csvResp    []byte
}

func (m *scheduleServiceMock) GetMonth(ctx context.Context, year int, month time.Month) ([]dto.DaySummaryItem, error) {
	return m.monthResp, nil
}

func (m *scheduleServiceMock) GetRange(ctx context.Context, start, end string) ([]dto.DaySummaryItem, error) {
	return m.rangeResp, nil
}

func (m *scheduleServiceMock) GetDaySlots(ctx context.Context, date string) (*dto.DaySlotsResponse, error) {
	return m.dayResp, nil
}

func (m *scheduleServiceMock) UpsertOverride(ctx context.Context, date string, req dto.UpsertOverrideRequest, actor *models.JWTClaims) (*models.ScheduleOverride, error) {
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	return m.upsertResp, nil
}

func (m *scheduleServiceMock) DeleteOverride(ctx context.Context, date string, actor *models.JWTClaims) error {
	return m.deleteErr
}

func (m *scheduleServiceMock) ExportRangeCSV(ctx context.Context, start, end string) ([]byte, error) {
	return m.csvResp, nil
}

func (m *scheduleServiceMock) ExportRangePDF(ctx context.Context, start, end string) ([]byte, error) {
	return m.csvResp, nil
}

func TestScheduleHandlerMonthRejectsBadQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(&scheduleServiceMock{}, true)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schedule/month?year=2026&month=13", nil)
	c.Request = req

	handler.Month(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerMonth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(&scheduleServiceMock{monthResp: []dto.DaySummaryItem{
		{Date: "2026-09-01", Status: "BOOKABLE", TotalSlots: 16},
	}}, true)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schedule/month?year=2026&month=9", nil)
	c.Request = req

	handler.Month(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2026-09-01")
}

func TestScheduleHandlerUpsertOverride(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(&scheduleServiceMock{
		upsertResp: &models.ScheduleOverride{Date: "2026-09-01", Status: "CLOSED"},
	}, true)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.UpsertOverrideRequest{Status: "CLOSED"})
	req, _ := http.NewRequest(http.MethodPut, "/schedule/days/2026-09-01", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "date", Value: "2026-09-01"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	handler.UpsertOverride(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CLOSED")
}

func TestScheduleHandlerUpsertOverrideInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(&scheduleServiceMock{}, true)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/schedule/days/2026-09-01", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.UpsertOverride(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerDeleteOverrideNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(&scheduleServiceMock{
		deleteErr: appErrors.Clone(appErrors.ErrNotFound, "no override stored for date"),
	}, true)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/schedule/days/2026-09-01", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "date", Value: "2026-09-01"}}

	handler.DeleteOverride(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleHandlerExportDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(&scheduleServiceMock{}, false)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schedule/export?start=2026-09-01&end=2026-09-08", nil)
	c.Request = req

	handler.Export(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestScheduleHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(&scheduleServiceMock{csvResp: []byte("Date,Status\n")}, true)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schedule/export?start=2026-09-01&end=2026-09-08&format=csv", nil)
	c.Request = req

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "schedule_2026-09-01_2026-09-08.csv")
}
