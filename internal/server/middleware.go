package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware menambahkan header CORS permisif dan menangani preflight OPTIONS.
// Aplikasi mobile dan Snap widget memanggil endpoint ini lintas origin.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatusJSON(http.StatusOK, gin.H{})
			return
		}

		c.Next()
	}
}
