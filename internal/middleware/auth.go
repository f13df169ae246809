package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/services"
)

// UserKey is the gin context key carrying the authenticated admin user.
const UserKey = "authUser"

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(baseLog *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: baseLog.With("middleware", "AuthMiddleware"), authService: authService}
}

// RequireAdmin guards the admin API with a bearer JWT.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}
		user, err := m.authService.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}
		c.Set(UserKey, user)
		c.Next()
	}
}

// RequireClientToken guards the client API with static SDK tokens. An
// empty token list leaves the client API open, for development setups.
func (m *AuthMiddleware) RequireClientToken(tokens []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		if token = strings.TrimSpace(token); token != "" {
			allowed[token] = struct{}{}
		}
	}
	return func(c *gin.Context) {
		if len(allowed) == 0 {
			c.Next()
			return
		}
		if _, ok := allowed[bearerToken(c)]; !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid client token"})
			return
		}
		c.Next()
	}
}

// UserFrom returns the admin user set by RequireAdmin, or a fallback for
// unauthenticated paths.
func UserFrom(c *gin.Context) string {
	if user, ok := c.Get(UserKey); ok {
		if name, ok := user.(string); ok && name != "" {
			return name
		}
	}
	return "unknown"
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
