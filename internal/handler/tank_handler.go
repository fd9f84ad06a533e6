package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/floatlab/booking-api/internal/dto"
	"github.com/floatlab/booking-api/internal/models"
	appErrors "github.com/floatlab/booking-api/pkg/errors"
	"github.com/floatlab/booking-api/pkg/response"
)

type tankService interface {
	List(ctx context.Context, activeOnly bool) ([]models.Tank, error)
	Get(ctx context.Context, id string) (*models.Tank, error)
	Create(ctx context.Context, req dto.SaveTankRequest) (*models.Tank, error)
	Update(ctx context.Context, id string, req dto.SaveTankRequest) (*models.Tank, error)
	Delete(ctx context.Context, id string) error
}

// TankHandler exposes tank catalogue endpoints.
type TankHandler struct {
	service tankService
}

// NewTankHandler builds a new handler.
func NewTankHandler(service tankService) *TankHandler {
	return &TankHandler{service: service}
}

// List godoc
// @Summary List tanks
// @Tags Tanks
// @Produce json
// @Param active query bool false "Only active tanks"
// @Success 200 {object} response.Envelope
// @Router /tanks [get]
func (h *TankHandler) List(c *gin.Context) {
	tanks, err := h.service.List(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tanks, nil)
}

// Get godoc
// @Summary Fetch one tank
// @Tags Tanks
// @Produce json
// @Param id path string true "Tank ID"
// @Success 200 {object} response.Envelope
// @Router /tanks/{id} [get]
func (h *TankHandler) Get(c *gin.Context) {
	tank, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tank, nil)
}

// Create godoc
// @Summary Add a tank
// @Tags Tanks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SaveTankRequest true "Tank payload"
// @Success 201 {object} response.Envelope
// @Router /tanks [post]
func (h *TankHandler) Create(c *gin.Context) {
	var req dto.SaveTankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid tank payload"))
		return
	}

	tank, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tank)
}

// Update godoc
// @Summary Update a tank
// @Tags Tanks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tank ID"
// @Param payload body dto.SaveTankRequest true "Tank payload"
// @Success 200 {object} response.Envelope
// @Router /tanks/{id} [put]
func (h *TankHandler) Update(c *gin.Context) {
	var req dto.SaveTankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid tank payload"))
		return
	}

	tank, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tank, nil)
}

// Delete godoc
// @Summary Remove a tank
// @Tags Tanks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tank ID"
// @Success 204
// @Router /tanks/{id} [delete]
func (h *TankHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
