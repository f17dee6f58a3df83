package middleware

import (
	"errors"
	"net/http"
	"strings"

	"appointly/database"
	userRepo "appointly/database/repository/user"
	"appointly/models"
	"appointly/utils"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// JWTAuthMiddleware validates the bearer token and resolves the caller's
// current role. Roles come from the cache when present and from the user
// store otherwise; the token's own role claim is never trusted.
func JWTAuthMiddleware(users userRepo.UserRepository, roles utils.RoleCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		claimed, err := utils.PrincipalFromToken(tokenString)
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		ctx := c.Request.Context()
		if roles != nil {
			if role, ok := roles.Role(ctx, claimed.UserID); ok {
				c.Set(principalKey, models.Principal{UserID: claimed.UserID, Role: role})
				c.Next()
				return
			}
		}

		u, err := users.GetByID(ctx, claimed.UserID)
		if errors.Is(err, database.ErrNotFound) {
			abortUnauthorized(c, "Account no longer exists")
			return
		}
		if err != nil {
			utils.RespondError(c, utils.InternalError("failed to resolve caller", err))
			c.Abort()
			return
		}

		if roles != nil {
			roles.Remember(ctx, u.ID, u.Role)
		}
		c.Set(principalKey, models.Principal{UserID: u.ID, Role: u.Role})
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: message})
}

// AdminOnly rejects callers without the admin role. It must run after
// JWTAuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			abortUnauthorized(c, "Insufficient authorization")
			return
		}
		if !principal.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{Message: "Admin access required"})
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the caller set by JWTAuthMiddleware.
func GetPrincipal(c *gin.Context) (models.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return models.Principal{}, false
	}
	p, ok := v.(models.Principal)
	return p, ok
}

// SetPrincipal stores the caller on the context.
func SetPrincipal(c *gin.Context, p models.Principal) {
	c.Set(principalKey, p)
}
