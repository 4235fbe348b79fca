// internal/repository/order_repo.go
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"fitripay.id/backend/internal/datastore"
	"fitripay.id/backend/internal/domain/payment"
)

const ordersCollection = "orders"

type OrderRepository struct {
	ds *datastore.Client
}

// NewOrderRepository membuat instance baru dari OrderRepository
func NewOrderRepository(ds *datastore.Client) *OrderRepository {
	return &OrderRepository{ds: ds}
}

// FindByOrderIDAndUser mencari order milik user tertentu berdasarkan order_id
func (r *OrderRepository) FindByOrderIDAndUser(ctx context.Context, orderID, userID string) (*payment.Order, error) {
	filter := fmt.Sprintf(`order_id = "%s" && user_id = "%s"`,
		datastore.EscapeFilterValue(orderID), datastore.EscapeFilterValue(userID))
	return r.findFirst(ctx, filter)
}

// FindByOrderID mencari order berdasarkan order_id saja (dipakai oleh webhook)
func (r *OrderRepository) FindByOrderID(ctx context.Context, orderID string) (*payment.Order, error) {
	filter := fmt.Sprintf(`order_id = "%s"`, datastore.EscapeFilterValue(orderID))
	return r.findFirst(ctx, filter)
}

func (r *OrderRepository) findFirst(ctx context.Context, filter string) (*payment.Order, error) {
	result, err := r.ds.List(ctx, ordersCollection, filter, 1, 1)
	if err != nil {
		log.Printf("Error listing orders with filter %s: %v", filter, err)
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, nil // Tidak ditemukan
	}

	var o payment.Order
	if err := json.Unmarshal(result.Items[0], &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateStatus mengupdate status order.
// estimatedTime hanya ikut di-update jika tidak kosong.
func (r *OrderRepository) UpdateStatus(ctx context.Context, recordID, status, estimatedTime string) error {
	fields := map[string]interface{}{
		"status": status,
	}
	if estimatedTime != "" {
		fields["estimatedTime"] = estimatedTime
	}

	_, err := r.ds.Update(ctx, ordersCollection, recordID, fields)
	if err != nil {
		log.Printf("Error updating order record %s: %v", recordID, err)
		return err
	}
	return nil
}
