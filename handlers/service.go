package handlers

import (
	"net/http"

	serviceRepo "reserva/database/repository/service"
	"reserva/models"
	"reserva/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceHandler exposes service catalogue endpoints.
type ServiceHandler struct {
	Repo serviceRepo.ServiceRepository
}

// NewServiceHandler creates a ServiceHandler.
func NewServiceHandler(repo serviceRepo.ServiceRepository) *ServiceHandler {
	return &ServiceHandler{Repo: repo}
}

// CreateServiceHandler handles POST /api/tenants/:tenantID/services.
func (h *ServiceHandler) CreateServiceHandler(c *gin.Context) {
	logger := utils.GetLogger()
	tenantID := c.GetString("tenantID")

	var req struct {
		Name        string `json:"name" binding:"required"`
		DurationMin int    `json:"durationMin" binding:"required,gt=0"`
		Price       int64  `json:"price" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	service := &models.Service{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Name:        req.Name,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Active:      true,
	}
	if err := h.Repo.Create(service); err != nil {
		logger.Error("failed to create service", zap.String("tenantId", tenantID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, service)
}

// GetServiceHandler handles GET /api/tenants/:tenantID/services/:id.
func (h *ServiceHandler) GetServiceHandler(c *gin.Context) {
	tenantID := c.GetString("tenantID")
	id := c.Param("id")

	service, err := h.Repo.GetByID(tenantID, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, service)
}

// UpdateServiceHandler handles PUT /api/tenants/:tenantID/services/:id.
func (h *ServiceHandler) UpdateServiceHandler(c *gin.Context) {
	logger := utils.GetLogger()
	tenantID := c.GetString("tenantID")
	id := c.Param("id")

	service, err := h.Repo.GetByID(tenantID, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Name        *string `json:"name"`
		DurationMin *int    `json:"durationMin"`
		Price       *int64  `json:"price"`
		Active      *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.DurationMin != nil {
		service.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if err := h.Repo.Update(service); err != nil {
		logger.Error("failed to update service", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, service)
}

// DeleteServiceHandler handles DELETE /api/tenants/:tenantID/services/:id.
func (h *ServiceHandler) DeleteServiceHandler(c *gin.Context) {
	logger := utils.GetLogger()
	tenantID := c.GetString("tenantID")
	id := c.Param("id")

	if err := h.Repo.Delete(tenantID, id); err != nil {
		logger.Error("failed to delete service", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted"})
}

// ListServicesHandler handles GET /api/tenants/:tenantID/services.
func (h *ServiceHandler) ListServicesHandler(c *gin.Context) {
	logger := utils.GetLogger()
	tenantID := c.GetString("tenantID")

	services, err := h.Repo.ListByTenant(tenantID)
	if err != nil {
		logger.Error("failed to list services", zap.String("tenantId", tenantID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, services)
}
