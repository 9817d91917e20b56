package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"buyonline/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the read paths for sellers, customers and admins.
type CatalogHandler struct{ svc service.CatalogService }

func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// SellerProducts godoc
// @Summary Lists every product of the logged in seller
// @Tags seller
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProductListResponse
// @Router /v1/seller/products [get]
func (h *CatalogHandler) SellerProducts(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	resp, err := h.svc.SellerProducts(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SellerProduct godoc
// @Summary Shows one of the seller's active products
// @Tags seller
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/seller/products/{id} [get]
func (h *CatalogHandler) SellerProduct(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.SellerProduct(c.Request.Context(), p, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SellerVariation godoc
// @Summary Shows one of the seller's active variations
// @Tags seller
// @Produce json
// @Security BearerAuth
// @Param id path string true "Variation ID"
// @Success 200 {object} dto.VariationResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/seller/variations/{id} [get]
func (h *CatalogHandler) SellerVariation(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.SellerVariation(c.Request.Context(), p, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CustomerProduct godoc
// @Summary Shows an active product with its available variations
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/products/{id} [get]
func (h *CatalogHandler) CustomerProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.CustomerProduct(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CustomerVariation godoc
// @Summary Shows an available variation
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path string true "Variation ID"
// @Success 200 {object} dto.VariationResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/variations/{id} [get]
func (h *CatalogHandler) CustomerVariation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.CustomerVariation(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ByCategory godoc
// @Summary Lists available products of a category and all leaves below it
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} dto.ProductListResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/categories/{id}/products [get]
func (h *CatalogHandler) ByCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.CustomerProductsByCategory(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Similar godoc
// @Summary Lists available products from the same category
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} dto.ProductListResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/products/{id}/similar [get]
func (h *CatalogHandler) Similar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.SimilarProducts(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AdminProducts godoc
// @Summary Lists every product in every state
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProductListResponse
// @Router /v1/admin/products [get]
func (h *CatalogHandler) AdminProducts(c *gin.Context) {
	resp, err := h.svc.AdminProducts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportPDF godoc
// @Summary Downloads the catalog sheet as PDF
// @Tags admin
// @Produce application/pdf
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /v1/admin/products/export.pdf [get]
func (h *CatalogHandler) ExportPDF(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.ExportCatalogPDF(c.Request.Context(), &buf); err != nil {
		writeError(c, err)
		return
	}
	name := fmt.Sprintf("catalog-%s.pdf", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
