package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/HarshitSharma-h8/messmate/utils"
)

// ContextClaims is the gin context key holding the authenticated claims.
const ContextClaims = "claims"

// Auth verifies the Authorization: Bearer <token> header and stores the
// parsed claims in the context for handlers.
func Auth(jwt *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, utils.ErrUnauthorized("Access denied. No token provided."))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			utils.RespondError(c, utils.ErrUnauthorized("Authorization header format must be Bearer {token}"))
			c.Abort()
			return
		}

		claims, err := jwt.Parse(parts[1])
		if err != nil {
			utils.RespondError(c, utils.ErrUnauthorized("Invalid or expired token"))
			c.Abort()
			return
		}

		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// CurrentClaims fetches the claims set by Auth.
func CurrentClaims(c *gin.Context) (*utils.Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.Claims)
	return claims, ok
}
