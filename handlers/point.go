package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"reserva/services/point"
	"reserva/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PointHandler exposes tenant point-balance endpoints.
type PointHandler struct {
	Svc point.PointService
}

// NewPointHandler creates a PointHandler.
func NewPointHandler(svc point.PointService) *PointHandler {
	return &PointHandler{Svc: svc}
}

type pointMutationRequest struct {
	Amount int64  `json:"amount" binding:"required,gt=0"`
	Reason string `json:"reason" binding:"required"`
}

// CreditPointsHandler handles POST /api/tenants/:tenantID/points/credit.
func (h *PointHandler) CreditPointsHandler(c *gin.Context) {
	logger := utils.GetLogger()
	tenantID := c.GetString("tenantID")

	var req pointMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.Svc.Credit(tenantID, req.Amount, req.Reason)
	if err != nil {
		if errors.Is(err, point.ErrSystemBusy) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		logger.Error("failed to credit points", zap.String("tenantId", tenantID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, account)
}

// DebitPointsHandler handles POST /api/tenants/:tenantID/points/debit.
func (h *PointHandler) DebitPointsHandler(c *gin.Context) {
	logger := utils.GetLogger()
	tenantID := c.GetString("tenantID")

	var req pointMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.Svc.Debit(tenantID, req.Amount, req.Reason)
	if err != nil {
		var insufficient *point.InsufficientBalanceError
		switch {
		case errors.As(err, &insufficient):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, point.ErrSystemBusy):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			logger.Error("failed to debit points", zap.String("tenantId", tenantID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, account)
}

// GetPointBalanceHandler handles GET /api/tenants/:tenantID/points.
func (h *PointHandler) GetPointBalanceHandler(c *gin.Context) {
	logger := utils.GetLogger()
	tenantID := c.GetString("tenantID")

	account, err := h.Svc.Balance(tenantID)
	if err != nil {
		logger.Error("failed to fetch point balance", zap.String("tenantId", tenantID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, account)
}

// ListPointEntriesHandler handles GET /api/tenants/:tenantID/points/history.
func (h *PointHandler) ListPointEntriesHandler(c *gin.Context) {
	logger := utils.GetLogger()
	tenantID := c.GetString("tenantID")

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	entries, err := h.Svc.History(tenantID, limit)
	if err != nil {
		logger.Error("failed to list point entries", zap.String("tenantId", tenantID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}
