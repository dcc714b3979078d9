package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vietbevis/kma-training-support-sub000/pkg/jwt"
)

// Identity attributes writes to the operator behind a bearer token
// minted by the main identity service. The token is optional: requests
// without one (or with a stale one) proceed anonymously, they just
// leave created_by/updated_by empty.
func Identity(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			if claims, err := jwtMgr.ParseToken(token); err == nil {
				c.Set("user_id", claims.UserID)
				c.Set("role", claims.Role)
			}
		}
		c.Next()
	}
}
