package middleware

import "github.com/gin-gonic/gin"

// SecurityHeaders adds the response headers every shell response carries
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		// session and cart views are per user
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
