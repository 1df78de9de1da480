package middleware

import (
	"stayhub/internal/domain"

	"github.com/gin-gonic/gin"
)

// AdminRequired gates a route on the ADMIN role.
func AdminRequired() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
