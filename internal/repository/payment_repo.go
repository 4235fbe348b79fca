// internal/repository/payment_repo.go
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"fitripay.id/backend/internal/datastore"
	"fitripay.id/backend/internal/domain/payment"
)

const paymentsCollection = "payments"

type PaymentRepository struct {
	ds *datastore.Client
}

// NewPaymentRepository membuat instance baru dari PaymentRepository
func NewPaymentRepository(ds *datastore.Client) *PaymentRepository {
	return &PaymentRepository{ds: ds}
}

// FindByOrderID mencari record payment berdasarkan order_id bisnis
func (r *PaymentRepository) FindByOrderID(ctx context.Context, orderID string) (*payment.Payment, error) {
	filter := fmt.Sprintf(`order_id = "%s"`, datastore.EscapeFilterValue(orderID))
	result, err := r.ds.List(ctx, paymentsCollection, filter, 1, 1)
	if err != nil {
		log.Printf("Error listing payments with filter %s: %v", filter, err)
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, nil // Tidak ditemukan
	}

	var p payment.Payment
	if err := json.Unmarshal(result.Items[0], &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save menyimpan record payment baru ke PocketBase dan mengisi record ID-nya
func (r *PaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	now := time.Now().UTC().Format(time.RFC3339)
	fields := map[string]interface{}{
		"payment_id":     p.PaymentID,
		"order_id":       p.OrderID,
		"user_id":        p.UserID,
		"transaction_id": p.TransactionID,
		"amount":         p.Amount,
		"status":         p.Status,
		"payment_method": p.PaymentMethod,
		"raw_response":   p.RawResponse,
		"created":        now,
		"updated":        now,
	}

	record, err := r.ds.Create(ctx, paymentsCollection, fields)
	if err != nil {
		log.Printf("Error saving payment %s: %v", p.PaymentID, err)
		return err
	}

	var created payment.Payment
	if err := json.Unmarshal(record, &created); err == nil {
		p.ID = created.ID
	}

	log.Printf("Payment %s for order %s successfully saved.", p.PaymentID, p.OrderID)
	return nil
}

// UpdateFromNotification mengupdate record payment dengan data dari webhook Midtrans
func (r *PaymentRepository) UpdateFromNotification(ctx context.Context, recordID, status, transactionID, paymentMethod, rawResponse string) error {
	fields := map[string]interface{}{
		"status":         status,
		"transaction_id": transactionID,
		"payment_method": paymentMethod,
		"raw_response":   rawResponse,
		"updated":        time.Now().UTC().Format(time.RFC3339),
	}

	_, err := r.ds.Update(ctx, paymentsCollection, recordID, fields)
	if err != nil {
		log.Printf("Error updating payment record %s: %v", recordID, err)
		return err
	}
	return nil
}
