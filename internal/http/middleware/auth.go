package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/knexpress/dev-kn-system-sub001/internal/domain"
)

const authUserKey = "authUser"

// RequireAuth validates the bearer token and stores the authenticated
// user's RequestContext for downstream handlers.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}
		var rc domain.RequestContext
		if id, ok := claims["user_id"].(float64); ok {
			rc.UserID = domain.ID(id)
		}
		if role, ok := claims["role"].(string); ok {
			rc.Role = role
		}
		c.Set(authUserKey, rc)
		c.Next()
	}
}

// RequireRoles only lets requests through whose authenticated role is in
// allowedRoles. Assumes RequireAuth ran earlier in the chain.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		rc, ok := authUser(c)
		if !ok || rc.Role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized: role not set on context"})
			return
		}
		if _, ok := allowed[strings.ToLower(strings.TrimSpace(rc.Role))]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: role not allowed"})
			return
		}
		c.Next()
	}
}

func authUser(c *gin.Context) (domain.RequestContext, bool) {
	v, ok := c.Get(authUserKey)
	if !ok {
		return domain.RequestContext{}, false
	}
	rc, ok := v.(domain.RequestContext)
	return rc, ok
}

// GetUserID returns the authenticated user id, 0 when anonymous.
func GetUserID(c *gin.Context) int64 {
	if rc, ok := authUser(c); ok {
		return int64(rc.UserID)
	}
	return 0
}
