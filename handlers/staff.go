package handlers

import (
	"net/http"

	staffRepo "reserva/database/repository/staff"
	"reserva/models"
	"reserva/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StaffHandler exposes staff management endpoints.
type StaffHandler struct {
	Repo staffRepo.StaffRepository
}

// NewStaffHandler creates a StaffHandler.
func NewStaffHandler(repo staffRepo.StaffRepository) *StaffHandler {
	return &StaffHandler{Repo: repo}
}

// CreateStaffHandler handles POST /api/tenants/:tenantID/staff.
func (h *StaffHandler) CreateStaffHandler(c *gin.Context) {
	logger := utils.GetLogger()
	tenantID := c.GetString("tenantID")

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	staff := &models.Staff{
		ID:       uuid.New().String(),
		TenantID: tenantID,
		Name:     req.Name,
		Active:   true,
	}
	if err := h.Repo.Create(staff); err != nil {
		logger.Error("failed to create staff", zap.String("tenantId", tenantID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, staff)
}

// GetStaffHandler handles GET /api/tenants/:tenantID/staff/:id.
func (h *StaffHandler) GetStaffHandler(c *gin.Context) {
	tenantID := c.GetString("tenantID")
	id := c.Param("id")

	staff, err := h.Repo.GetByID(tenantID, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, staff)
}

// UpdateStaffHandler handles PUT /api/tenants/:tenantID/staff/:id.
func (h *StaffHandler) UpdateStaffHandler(c *gin.Context) {
	logger := utils.GetLogger()
	tenantID := c.GetString("tenantID")
	id := c.Param("id")

	staff, err := h.Repo.GetByID(tenantID, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Name   *string `json:"name"`
		Active *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != nil {
		staff.Name = *req.Name
	}
	if req.Active != nil {
		staff.Active = *req.Active
	}

	if err := h.Repo.Update(staff); err != nil {
		logger.Error("failed to update staff", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, staff)
}

// DeleteStaffHandler handles DELETE /api/tenants/:tenantID/staff/:id.
func (h *StaffHandler) DeleteStaffHandler(c *gin.Context) {
	logger := utils.GetLogger()
	tenantID := c.GetString("tenantID")
	id := c.Param("id")

	if err := h.Repo.Delete(tenantID, id); err != nil {
		logger.Error("failed to delete staff", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Staff deleted"})
}

// ListStaffHandler handles GET /api/tenants/:tenantID/staff.
func (h *StaffHandler) ListStaffHandler(c *gin.Context) {
	logger := utils.GetLogger()
	tenantID := c.GetString("tenantID")

	staff, err := h.Repo.ListByTenant(tenantID)
	if err != nil {
		logger.Error("failed to list staff", zap.String("tenantId", tenantID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, staff)
}
