package handlers

import (
	"net/http"
	"time"

	tenantRepo "reserva/database/repository/tenant"
	"reserva/models"
	"reserva/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantHandler exposes tenant administration endpoints.
type TenantHandler struct {
	Repo tenantRepo.TenantRepository
}

// NewTenantHandler creates a TenantHandler.
func NewTenantHandler(repo tenantRepo.TenantRepository) *TenantHandler {
	return &TenantHandler{Repo: repo}
}

// CreateTenantHandler handles POST /api/tenants.
func (h *TenantHandler) CreateTenantHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req struct {
		Name      string `json:"name" binding:"required"`
		ChannelID string `json:"channelId" binding:"required"`
		Timezone  string `json:"timezone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Timezone == "" {
		req.Timezone = time.Local.String()
	}

	tenant := &models.Tenant{
		ID:        uuid.New().String(),
		Name:      req.Name,
		ChannelID: req.ChannelID,
		Timezone:  req.Timezone,
		Active:    true,
	}
	if err := h.Repo.Create(tenant); err != nil {
		logger.Error("failed to create tenant", zap.String("name", req.Name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, tenant)
}

// GetTenantHandler handles GET /api/tenants/:tenantID.
func (h *TenantHandler) GetTenantHandler(c *gin.Context) {
	logger := utils.GetLogger()
	id := c.GetString("tenantID")

	tenant, err := h.Repo.GetByID(id)
	if err != nil {
		logger.Error("tenant not found", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tenant)
}

// UpdateTenantHandler handles PUT /api/tenants/:tenantID.
func (h *TenantHandler) UpdateTenantHandler(c *gin.Context) {
	logger := utils.GetLogger()
	id := c.GetString("tenantID")

	tenant, err := h.Repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Timezone *string `json:"timezone"`
		Active   *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != nil {
		tenant.Name = *req.Name
	}
	if req.Timezone != nil {
		tenant.Timezone = *req.Timezone
	}
	if req.Active != nil {
		tenant.Active = *req.Active
	}

	if err := h.Repo.Update(tenant); err != nil {
		logger.Error("failed to update tenant", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tenant)
}

// DeleteTenantHandler handles DELETE /api/tenants/:tenantID.
func (h *TenantHandler) DeleteTenantHandler(c *gin.Context) {
	logger := utils.GetLogger()
	id := c.GetString("tenantID")

	if err := h.Repo.Delete(id); err != nil {
		logger.Error("failed to delete tenant", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tenant deleted"})
}

// ListTenantsHandler handles GET /api/tenants.
func (h *TenantHandler) ListTenantsHandler(c *gin.Context) {
	logger := utils.GetLogger()

	tenants, err := h.Repo.List()
	if err != nil {
		logger.Error("failed to list tenants", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tenants)
}
