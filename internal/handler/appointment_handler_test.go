package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floatlab/booking-api/internal/dto"
	"github.com/floatlab/booking-api/internal/middleware"
	"github.com/floatlab/booking-api/internal/models"
	appErrors "github.com/floatlab/booking-api/pkg/errors"
)

type appointmentServiceMock struct {
	createResp *models.Appointment
	createErr  error
	listResp   []models.Appointment
	cancelErr  error
}

func (m *appointmentServiceMock) Create(ctx context.Context, req dto.CreateAppointmentRequest, actor *models.JWTClaims) (*models.Appointment, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.createResp, nil
}

func (m *appointmentServiceMock) Cancel(ctx context.Context, id string, actor *models.JWTClaims) error {
	return m.cancelErr
}

func (m *appointmentServiceMock) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.Appointment, error) {
	return m.createResp, nil
}

func (m *appointmentServiceMock) List(ctx context.Context, filter models.AppointmentFilter, actor *models.JWTClaims) ([]models.Appointment, int, error) {
	return m.listResp, len(m.listResp), nil
}

func (m *appointmentServiceMock) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus, actor *models.JWTClaims) error {
	return nil
}

func TestAppointmentHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAppointmentHandler(&appointmentServiceMock{
		createResp: &models.Appointment{ID: "apt-1", Date: "2026-09-01", StartTime: "10:30"},
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.CreateAppointmentRequest{Date: "2026-09-01", StartTime: "10:30"})
	req, _ := http.NewRequest(http.MethodPost, "/appointments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleClient})

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "apt-1")
}

func TestAppointmentHandlerCreateSlotConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAppointmentHandler(&appointmentServiceMock{
		createErr: appErrors.Clone(appErrors.ErrSlotUnavailable, "slot is already booked"),
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.CreateAppointmentRequest{Date: "2026-09-01", StartTime: "10:30"})
	req, _ := http.NewRequest(http.MethodPost, "/appointments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleClient})

	handler.Create(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAppointmentHandlerListPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAppointmentHandler(&appointmentServiceMock{
		listResp: []models.Appointment{{ID: "apt-1"}, {ID: "apt-2"}},
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/appointments?page=1&page_size=20", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleClient})

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_count":2`)
}
