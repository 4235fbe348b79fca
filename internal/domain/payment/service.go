// internal/domain/payment/service.go
package payment

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound    = errors.New("order tidak ditemukan")
	ErrAmountMismatch   = errors.New("jumlah pembayaran tidak sesuai dengan order")
	ErrInvalidSignature = errors.New("signature key notifikasi tidak valid")
	ErrMissingOrderID   = errors.New("order_id tidak ada di payload")
)

// Definisikan interface agar service bergantung pada abstraksi, bukan implementasi
type OrderRepository interface {
	FindByOrderIDAndUser(ctx context.Context, orderID, userID string) (*Order, error)
	FindByOrderID(ctx context.Context, orderID string) (*Order, error)
	UpdateStatus(ctx context.Context, recordID, status, estimatedTime string) error
}

type PaymentRepository interface {
	FindByOrderID(ctx context.Context, orderID string) (*Payment, error)
	Save(ctx context.Context, p *Payment) error
	UpdateFromNotification(ctx context.Context, recordID, status, transactionID, paymentMethod, rawResponse string) error
}

// SnapGateway membuat sesi transaksi Snap di Midtrans
type SnapGateway interface {
	CreateTransaction(req *CreateTransactionRequest) (*CreateTransactionResponse, error)
}

// Notifier mengirim notifikasi in-app ke user (opsional, boleh nil)
type Notifier interface {
	SendPaymentNotification(userID, orderID, status string) error
}

type Service struct {
	orderRepo   OrderRepository
	paymentRepo PaymentRepository
	gateway     SnapGateway
	notifier    Notifier
	serverKey   string // Server Key Midtrans, dipakai untuk verifikasi signature webhook
}

func NewService(orderRepo OrderRepository, paymentRepo PaymentRepository, gateway SnapGateway, notifier Notifier, serverKey string) *Service {
	return &Service{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		gateway:     gateway,
		notifier:    notifier,
		serverKey:   serverKey,
	}
}

// CreateTransaction memvalidasi order lalu membuat sesi Snap di Midtrans.
// Record payment "pending" disimpan best-effort setelah token terbit.
func (s *Service) CreateTransaction(ctx context.Context, req *CreateTransactionRequest) (*CreateTransactionResponse, error) {
	order, err := s.orderRepo.FindByOrderIDAndUser(ctx, req.OrderID, req.UserID)
	if err != nil {
		log.Printf("Error finding order %s: %v", req.OrderID, err)
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.TotalAmount != req.Amount {
		return nil, ErrAmountMismatch
	}

	resp, err := s.gateway.CreateTransaction(req)
	if err != nil {
		log.Printf("Error creating Snap transaction for order %s: %v", req.OrderID, err)
		return nil, err
	}
	resp.OrderID = req.OrderID

	// Simpan payment "pending"; gagal simpan tidak menggagalkan response
	// karena token Snap sudah terbit di Midtrans
	pending := &Payment{
		PaymentID: "PAY-" + uuid.NewString(),
		OrderID:   req.OrderID,
		UserID:    req.UserID,
		Amount:    req.Amount,
		Status:    StatusPending,
	}
	if err := s.paymentRepo.Save(ctx, pending); err != nil {
		log.Printf("Error saving pending payment for order %s: %v", req.OrderID, err)
	}

	return resp, nil
}

// MapTransactionStatus memetakan status transaksi Midtrans ke status internal.
// Pemetaan case-sensitive dan total: status yang tidak dikenali dianggap gagal.
func MapTransactionStatus(transactionStatus string) string {
	switch transactionStatus {
	case "capture", "settlement":
		return StatusCompleted
	case "pending":
		return StatusPending
	default:
		return StatusFailed
	}
}

// ProcessNotification memvalidasi dan memproses notifikasi webhook dari Midtrans
func (s *Service) ProcessNotification(ctx context.Context, notification *Notification, rawPayload []byte) error {
	orderID := notification.OrderID
	if orderID == "" {
		// Beberapa payload hanya membawa transaction_id
		orderID = notification.TransactionID
	}
	if orderID == "" {
		return ErrMissingOrderID
	}

	if err := s.validateSignature(notification); err != nil {
		log.Printf("Midtrans webhook signature validation failed: %v", err)
		return ErrInvalidSignature
	}

	status := MapTransactionStatus(notification.TransactionStatus)
	log.Printf("Processing notification for Order ID: %s, Midtrans status: %s, internal status: %s",
		orderID, notification.TransactionStatus, status)

	order, err := s.orderRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		log.Printf("Error finding order %s: %v", orderID, err)
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}

	// estimatedTime hanya di-set saat pembayaran selesai (estimasi pesanan siap)
	estimatedTime := ""
	if status == StatusCompleted {
		estimatedTime = time.Now().Add(30 * time.Minute).UTC().Format(time.RFC3339)
	}
	if err := s.orderRepo.UpdateStatus(ctx, order.ID, status, estimatedTime); err != nil {
		log.Printf("Error updating order status for Order ID %s: %v", orderID, err)
		return err
	}

	amount, err := strconv.ParseFloat(notification.GrossAmount, 64)
	if err != nil {
		amount = order.TotalAmount
	}

	// Update record pending dari create-transaction jika ada,
	// kalau tidak ada buat record audit baru
	existing, err := s.paymentRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		log.Printf("Error finding payment for Order ID %s: %v", orderID, err)
		return err
	}

	paymentMethod := notification.PaymentType
	if paymentMethod == "" {
		paymentMethod = "unknown"
	}

	if existing != nil {
		err = s.paymentRepo.UpdateFromNotification(ctx, existing.ID, status,
			notification.TransactionID, paymentMethod, string(rawPayload))
	} else {
		err = s.paymentRepo.Save(ctx, &Payment{
			PaymentID:     "PAY-" + uuid.NewString(),
			OrderID:       orderID,
			UserID:        order.UserID,
			TransactionID: notification.TransactionID,
			Amount:        amount,
			Status:        status,
			PaymentMethod: paymentMethod,
			RawResponse:   string(rawPayload),
		})
	}
	if err != nil {
		log.Printf("Error saving payment record for Order ID %s: %v", orderID, err)
		return err
	}

	// Notifikasi in-app best-effort, hanya saat pembayaran selesai
	if s.notifier != nil && status == StatusCompleted {
		if err := s.notifier.SendPaymentNotification(order.UserID, orderID, status); err != nil {
			log.Printf("Error sending payment notification for Order ID %s: %v", orderID, err)
		}
	}

	log.Printf("Successfully processed notification for Order ID: %s", orderID)
	return nil
}

// validateSignature memverifikasi signature key dari Midtrans.
// String yang di-hash: order_id + status_code + gross_amount + ServerKey
func (s *Service) validateSignature(notification *Notification) error {
	input := notification.OrderID + notification.StatusCode + notification.GrossAmount + s.serverKey
	hasher := sha512.New()
	hasher.Write([]byte(input))
	calculatedSignature := hex.EncodeToString(hasher.Sum(nil))

	if calculatedSignature != notification.SignatureKey {
		return fmt.Errorf("invalid signature. Expected: %s, Got: %s", calculatedSignature, notification.SignatureKey)
	}
	return nil
}
