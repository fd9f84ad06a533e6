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

type packageService interface {
	List(ctx context.Context, activeOnly bool) ([]models.Package, error)
	Get(ctx context.Context, id string) (*models.Package, error)
	Create(ctx context.Context, req dto.SavePackageRequest) (*models.Package, error)
	Update(ctx context.Context, id string, req dto.SavePackageRequest) (*models.Package, error)
	Delete(ctx context.Context, id string) error
}

// PackageHandler exposes session package endpoints.
type PackageHandler struct {
	service packageService
}

// NewPackageHandler builds a new handler.
func NewPackageHandler(service packageService) *PackageHandler {
	return &PackageHandler{service: service}
}

// List godoc
// @Summary List packages
// @Tags Packages
// @Produce json
// @Param active query bool false "Only active packages"
// @Success 200 {object} response.Envelope
// @Router /packages [get]
func (h *PackageHandler) List(c *gin.Context) {
	packages, err := h.service.List(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, packages, nil)
}

// Get godoc
// @Summary Fetch one package
// @Tags Packages
// @Produce json
// @Param id path string true "Package ID"
// @Success 200 {object} response.Envelope
// @Router /packages/{id} [get]
func (h *PackageHandler) Get(c *gin.Context) {
	pkg, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pkg, nil)
}

// Create godoc
// @Summary Add a package
// @Tags Packages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SavePackageRequest true "Package payload"
// @Success 201 {object} response.Envelope
// @Router /packages [post]
func (h *PackageHandler) Create(c *gin.Context) {
	var req dto.SavePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid package payload"))
		return
	}

	pkg, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, pkg)
}

// Update godoc
// @Summary Update a package
// @Tags Packages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Package ID"
// @Param payload body dto.SavePackageRequest true "Package payload"
// @Success 200 {object} response.Envelope
// @Router /packages/{id} [put]
func (h *PackageHandler) Update(c *gin.Context) {
	var req dto.SavePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid package payload"))
		return
	}

	pkg, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pkg, nil)
}

// Delete godoc
// @Summary Remove a package
// @Tags Packages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Package ID"
// @Success 204
// @Router /packages/{id} [delete]
func (h *PackageHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
