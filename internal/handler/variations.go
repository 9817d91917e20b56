package handler

import (
	"net/http"

	"buyonline/internal/dto"
	"buyonline/internal/service"

	"github.com/gin-gonic/gin"
)

type VariationsHandler struct{ svc service.VariationService }

func NewVariationsHandler(svc service.VariationService) *VariationsHandler {
	return &VariationsHandler{svc: svc}
}

// Create godoc
// @Summary Adds a variation to an active product
// @Tags seller
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param body body dto.CreateVariationRequest true "Variation"
// @Success 201 {object} dto.VariationResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/seller/products/{id}/variations [post]
func (h *VariationsHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateVariationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), p, productID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary Updates name, attributes, quantity or price of a variation
// @Tags seller
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Variation ID"
// @Param body body dto.UpdateVariationRequest true "Fields to change"
// @Success 200 {object} dto.VariationResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/seller/variations/{id} [patch]
func (h *VariationsHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateVariationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), p, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
