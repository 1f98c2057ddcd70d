package middleware

import (
	"github.com/gin-gonic/gin"
)

// NoStore marks responses as private to the caller. Grades must never land
// in a shared cache.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "private, no-store")
		c.Next()
	}
}
