package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autoflex/inventory/internal/service/inventory"
)

// MaterialsHandler serves the raw-material CRUD routes.
type MaterialsHandler struct {
	svc    *inventory.Service
	logger *zap.Logger
}

// NewMaterialsHandler constructs the HTTP handler adapter.
func NewMaterialsHandler(svc *inventory.Service, logger *zap.Logger) *MaterialsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaterialsHandler{svc: svc, logger: logger}
}

type materialRequest struct {
	Name          string  `json:"name"`
	StockQuantity float64 `json:"stockQuantity"`
}

// List returns all materials.
func (h *MaterialsHandler) List(c *gin.Context) {
	materials, err := h.svc.ListMaterials(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing materials", zap.Error(err))
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, materials)
}

// Create stores a new material.
func (h *MaterialsHandler) Create(c *gin.Context) {
	var req materialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid material payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	created, err := h.svc.CreateMaterial(c.Request.Context(), req.Name, req.StockQuantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update replaces an existing material's fields.
func (h *MaterialsHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid material id"})
		return
	}

	var req materialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid material payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	updated, err := h.svc.UpdateMaterial(c.Request.Context(), id, req.Name, req.StockQuantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a material unless a recipe still references it.
func (h *MaterialsHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid material id"})
		return
	}

	if err := h.svc.DeleteMaterial(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
