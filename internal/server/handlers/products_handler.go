package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autoflex/inventory/internal/domain/models"
	"github.com/autoflex/inventory/internal/service/inventory"
	"github.com/autoflex/inventory/internal/service/reporting"
)

// ProductsHandler serves the product catalog and production suggestion routes.
type ProductsHandler struct {
	svc       *inventory.Service
	reporting *reporting.Service
	logger    *zap.Logger
}

// NewProductsHandler constructs the HTTP handler adapter.
func NewProductsHandler(svc *inventory.Service, reportingSvc *reporting.Service, logger *zap.Logger) *ProductsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductsHandler{svc: svc, reporting: reportingSvc, logger: logger}
}

type productRequest struct {
	Name         string               `json:"name"`
	Price        float64              `json:"price"`
	Compositions []compositionRequest `json:"compositions"`
}

// compositionRequest accepts both payload shapes the dashboard produces:
// a flat rawMaterialId or a nested rawMaterial object carrying the id.
type compositionRequest struct {
	RawMaterialID    int64        `json:"rawMaterialId"`
	RawMaterial      *materialRef `json:"rawMaterial"`
	QuantityRequired float64      `json:"quantityRequired"`
}

type materialRef struct {
	ID int64 `json:"id"`
}

func (cr compositionRequest) materialID() int64 {
	if cr.RawMaterialID != 0 {
		return cr.RawMaterialID
	}
	if cr.RawMaterial != nil {
		return cr.RawMaterial.ID
	}
	return 0
}

// List returns all products with resolved compositions.
func (h *ProductsHandler) List(c *gin.Context) {
	products, err := h.svc.ListProducts(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing products", zap.Error(err))
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// Create stores a new product with its recipe.
func (h *ProductsHandler) Create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid product payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	compositions := make([]models.Composition, 0, len(req.Compositions))
	for _, cr := range req.Compositions {
		compositions = append(compositions, models.Composition{
			RawMaterialID:    cr.materialID(),
			QuantityRequired: cr.QuantityRequired,
		})
	}

	created, err := h.svc.CreateProduct(c.Request.Context(), req.Name, req.Price, compositions)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Delete removes a product by id, or by name for legacy callers.
func (h *ProductsHandler) Delete(c *gin.Context) {
	identifier := c.Param("identifier")
	if identifier == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing product identifier"})
		return
	}

	if err := h.svc.DeleteProduct(c.Request.Context(), identifier); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SuggestedProduction recomputes and returns the feasibility report.
func (h *ProductsHandler) SuggestedProduction(c *gin.Context) {
	suggestions, err := h.svc.SuggestedProduction(c.Request.Context())
	if err != nil {
		h.logger.Error("failed computing suggestions", zap.Error(err))
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

// ExportSuggestions streams the current feasibility report as an xlsx file.
func (h *ProductsHandler) ExportSuggestions(c *gin.Context) {
	suggestions, err := h.svc.SuggestedProduction(c.Request.Context())
	if err != nil {
		h.logger.Error("failed computing suggestions", zap.Error(err))
		writeError(c, err)
		return
	}

	workbook, err := h.reporting.SuggestionsWorkbook(suggestions)
	if err != nil {
		h.logger.Error("failed building workbook", zap.Error(err))
		writeError(c, err)
		return
	}
	defer func() { _ = workbook.Close() }()

	filename := fmt.Sprintf("suggested-production-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := workbook.Write(c.Writer); err != nil {
		h.logger.Error("failed streaming workbook", zap.Error(err))
	}
}
