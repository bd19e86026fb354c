package handlers

import (
	"errors"
	"net/http"

	"reserva/services/booking"
	"reserva/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes booking management endpoints.
type BookingHandler struct {
	Svc booking.BookingService
}

// NewBookingHandler creates a BookingHandler.
func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Svc: svc}
}

// GetBookingHandler handles GET /api/tenants/:tenantID/bookings/:id.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	logger := utils.GetLogger()
	tenantID := c.GetString("tenantID")
	id := c.Param("id")

	b, err := h.Svc.GetBooking(tenantID, id)
	if err != nil {
		logger.Error("booking not found", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListBookingsHandler handles GET /api/tenants/:tenantID/bookings?date=YYYY-MM-DD.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	logger := utils.GetLogger()
	tenantID := c.GetString("tenantID")

	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	bookings, err := h.Svc.ListByDate(tenantID, date)
	if err != nil {
		logger.Error("failed to list bookings", zap.String("date", date), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// UpdateBookingStatusHandler handles PATCH /api/tenants/:tenantID/bookings/:id/status.
func (h *BookingHandler) UpdateBookingStatusHandler(c *gin.Context) {
	logger := utils.GetLogger()
	tenantID := c.GetString("tenantID")
	id := c.Param("id")

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Svc.UpdateStatus(tenantID, id, req.Status); err != nil {
		if errors.Is(err, booking.ErrInvalidStatusChange) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		logger.Error("failed to update booking status",
			zap.String("id", id), zap.String("status", req.Status), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking status updated"})
}
