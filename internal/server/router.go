// internal/server/router.go
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fitripay.id/backend/internal/domain/payment"
)

func NewRouter(paymentHandler *payment.Handler) *gin.Engine {
	r := gin.Default()

	// Balas 405 (bukan 404) untuk method yang salah di path terdaftar
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Method Not Allowed"})
	})

	r.Use(CORSMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Server Go FitriPay Backend Berjalan!"})
	})

	// Endpoint pembayaran: dipanggil aplikasi mobile dan webhook Midtrans
	r.POST("/create-transaction", paymentHandler.CreateTransaction)
	r.POST("/notification", paymentHandler.HandleNotification)

	return r
}
