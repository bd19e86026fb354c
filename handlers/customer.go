package handlers

import (
	"net/http"

	customerRepo "reserva/database/repository/customer"
	"reserva/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CustomerHandler exposes customer endpoints. Customers are created lazily by
// the conversation flow; the API only reads and annotates them.
type CustomerHandler struct {
	Repo customerRepo.CustomerRepository
}

// NewCustomerHandler creates a CustomerHandler.
func NewCustomerHandler(repo customerRepo.CustomerRepository) *CustomerHandler {
	return &CustomerHandler{Repo: repo}
}

// GetCustomerHandler handles GET /api/tenants/:tenantID/customers/:id.
func (h *CustomerHandler) GetCustomerHandler(c *gin.Context) {
	tenantID := c.GetString("tenantID")
	id := c.Param("id")

	customer, err := h.Repo.GetByID(tenantID, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, customer)
}

// UpdateCustomerHandler handles PUT /api/tenants/:tenantID/customers/:id.
func (h *CustomerHandler) UpdateCustomerHandler(c *gin.Context) {
	logger := utils.GetLogger()
	tenantID := c.GetString("tenantID")
	id := c.Param("id")

	customer, err := h.Repo.GetByID(tenantID, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Name  *string `json:"name"`
		Phone *string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}

	if err := h.Repo.Update(customer); err != nil {
		logger.Error("failed to update customer", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomerHandler handles DELETE /api/tenants/:tenantID/customers/:id.
func (h *CustomerHandler) DeleteCustomerHandler(c *gin.Context) {
	logger := utils.GetLogger()
	tenantID := c.GetString("tenantID")
	id := c.Param("id")

	if err := h.Repo.Delete(tenantID, id); err != nil {
		logger.Error("failed to delete customer", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}

// ListCustomersHandler handles GET /api/tenants/:tenantID/customers.
func (h *CustomerHandler) ListCustomersHandler(c *gin.Context) {
	logger := utils.GetLogger()
	tenantID := c.GetString("tenantID")

	customers, err := h.Repo.ListByTenant(tenantID)
	if err != nil {
		logger.Error("failed to list customers", zap.String("tenantId", tenantID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, customers)
}
