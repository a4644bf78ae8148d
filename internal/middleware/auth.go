package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mediqore/hospital-api/internal/models"
	"github.com/mediqore/hospital-api/internal/response"
	"github.com/mediqore/hospital-api/internal/utils"
)

// Context keys set by Authenticate.
const (
	CtxUserID   = "userID"
	CtxUserRole = "userRole"
)

// UserSource resolves a token subject to a live user record.
type UserSource interface {
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Authenticate validates the bearer token and attaches the caller's id and
// role to the context. A subject that no longer exists is rejected, so a
// deleted account cannot keep using an unexpired token.
func Authenticate(users UserSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Fail("Authorization header required"))
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Fail("Invalid authorization header format"))
			return
		}

		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Fail("Invalid or expired token"))
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Fail("Invalid token subject"))
			return
		}

		user, err := users.FindUserByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Fail("Account no longer exists"))
			return
		}

		c.Set(CtxUserID, user.ID)
		c.Set(CtxUserRole, user.Role)
		c.Next()
	}
}

// RequireRoles rejects callers whose role is outside the endpoint's
// allow-list. Runs after Authenticate.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxUserRole)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, response.Fail("You don't have permission to access this resource"))
	}
}

// CallerID returns the authenticated user's id from the context.
func CallerID(c *gin.Context) primitive.ObjectID {
	id, _ := c.Get(CtxUserID)
	oid, _ := id.(primitive.ObjectID)
	return oid
}

// CallerRole returns the authenticated user's role from the context.
func CallerRole(c *gin.Context) string {
	return c.GetString(CtxUserRole)
}
