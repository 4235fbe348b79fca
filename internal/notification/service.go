package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"fitripay.id/backend/internal/domain/payment"
)

type NotificationService struct {
	firestoreClient *firestore.Client
}

// NewNotificationService menginisialisasi Firebase Admin SDK dan klien Firestore
func NewNotificationService(credentialsFile string) (*NotificationService, error) {
	ctx := context.Background()
	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase Admin SDK: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firestore client: %w", err)
	}

	log.Println("Firebase Admin SDK and Firestore client initialized successfully.")
	return &NotificationService{firestoreClient: client}, nil
}

// SendPaymentNotification menulis notifikasi status pembayaran ke koleksi user di Firestore
func (s *NotificationService) SendPaymentNotification(userID, orderID, status string) error {
	ctx := context.Background()

	title := "Status Pembayaran"
	body := fmt.Sprintf("Status pembayaran pesanan %s: %s.", orderID, status)
	if status == payment.StatusCompleted {
		title = "Pembayaran Berhasil"
		body = fmt.Sprintf("Pembayaran untuk pesanan %s telah diterima.", orderID)
	}

	notificationData := map[string]interface{}{
		"title":     title,
		"body":      body,
		"order_id":  orderID,
		"type":      "payment_" + status,
		"is_read":   false,
		"timestamp": time.Now(),
	}

	// Gunakan ID user sebagai nama koleksi agar mudah di-query dari aplikasi
	collectionPath := fmt.Sprintf("notifications_user_%s", userID)
	_, _, err := s.firestoreClient.Collection(collectionPath).Add(ctx, notificationData)
	if err != nil {
		log.Printf("Error sending notification to Firestore for user %s: %v", userID, err)
		return err
	}

	log.Printf("Notification sent successfully to Firestore for user %s", userID)
	return nil
}
