// internal/domain/payment/handler.go
package payment

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

// NewHandler membuat instance baru dari Handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateTransaction menangani POST /create-transaction dari aplikasi mobile
func (h *Handler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if strings.Contains(err.Error(), "required") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		}
		return
	}

	resp, err := h.service.CreateTransaction(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found or unauthorized"})
		case errors.Is(err, ErrAmountMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount mismatch"})
		default:
			// Error gateway/datastore sudah di-log di service
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create transaction"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleNotification menerima notifikasi webhook dari Midtrans
func (h *Handler) HandleNotification(c *gin.Context) {
	// Body dibaca mentah karena payload asli ikut disimpan untuk audit
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid JSON payload"})
		return
	}

	var notification Notification
	if err := json.Unmarshal(body, &notification); err != nil {
		log.Printf("Error parsing Midtrans notification JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid JSON payload"})
		return
	}

	if err := h.service.ProcessNotification(c.Request.Context(), &notification, body); err != nil {
		switch {
		case errors.Is(err, ErrMissingOrderID):
			c.JSON(http.StatusBadRequest, gin.H{"message": "order_id missing in payload"})
		case errors.Is(err, ErrInvalidSignature):
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid signature"})
		case errors.Is(err, ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process notification"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Notification processed successfully",
	})
}
