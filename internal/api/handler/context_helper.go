package handler

import "github.com/gin-gonic/gin"

// operatorID extracts the optional operator identity injected by the
// Identity middleware. Nil when the request came in anonymously.
func operatorID(c *gin.Context) *string {
	v, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}
