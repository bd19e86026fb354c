package middleware

import (
	"net/http"

	tenantRepo "reserva/database/repository/tenant"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TenantMiddleware resolves the tenant from the :tenantID path parameter and
// stores it in the request-scoped gin context. The tenant id travels through
// explicit values from here on, never through ambient state.
func TenantMiddleware(repo tenantRepo.TenantRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := zap.L()

		tenantID := c.Param("tenantID")
		if tenantID == "" {
			tenantID = c.GetHeader("X-Tenant-ID")
		}
		if tenantID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing tenant identifier"})
			return
		}

		tenant, err := repo.GetByID(tenantID)
		if err != nil {
			logger.Warn("unknown tenant", zap.String("tenantId", tenantID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Unknown tenant"})
			return
		}
		if !tenant.Active {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Tenant is deactivated"})
			return
		}

		c.Set("tenantID", tenant.ID)
		c.Next()
	}
}
