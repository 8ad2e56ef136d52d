package middleware

import (
	"net/http"
	"strings"

	recordsRepo "patitas/database/repository/records"
	"patitas/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWTAuthProfessionalMiddleware guards the clinic-facing endpoints. The token
// is issued by the auth collaborator; here we only verify the signature and
// that the subject is a known professional, then stash the ID in the context.
func JWTAuthProfessionalMiddleware(records recordsRepo.RecordsRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			return
		}

		professionalID, err := utils.ExtractIDFromToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			logger.Warn("Rejected invalid token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		if _, err := records.GetProfessional(c.Request.Context(), professionalID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown professional"})
			return
		}

		c.Set("professionalID", professionalID)
		c.Next()
	}
}
