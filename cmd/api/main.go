package main

import (
	"context"
	"log"

	"fitripay.id/backend/internal/config"
	"fitripay.id/backend/internal/datastore"
	"fitripay.id/backend/internal/domain/payment"
	"fitripay.id/backend/internal/midtrans"
	"fitripay.id/backend/internal/notification"
	"fitripay.id/backend/internal/repository"
	"fitripay.id/backend/internal/server"
)

func main() {
	config.LoadConfig()

	// Klien PocketBase: autentikasi sekali saat start, token di-refresh otomatis
	ds := datastore.NewClient(
		config.GetPocketBaseURL(),
		config.GetPocketBaseUserEmail(),
		config.GetPocketBaseUserPassword(),
	)
	if err := ds.Authenticate(context.Background()); err != nil {
		log.Fatal("PocketBase user authentication failed:", err)
	}
	log.Println("PocketBase user authenticated")

	orderRepo := repository.NewOrderRepository(ds)
	paymentRepo := repository.NewPaymentRepository(ds)

	snapService := midtrans.NewSnapService(config.GetMidtransServerKey(), config.IsMidtransProduction())

	// Notifikasi Firestore opsional, hanya aktif jika kredensial Firebase di-set
	var notifier payment.Notifier
	if credentialsFile := config.GetFirebaseCredentialsFile(); credentialsFile != "" {
		notificationService, err := notification.NewNotificationService(credentialsFile)
		if err != nil {
			log.Printf("WARNING: Firestore notification disabled: %v", err)
		} else {
			notifier = notificationService
		}
	}

	paymentService := payment.NewService(orderRepo, paymentRepo, snapService, notifier, config.GetMidtransServerKey())
	paymentHandler := payment.NewHandler(paymentService)

	router := server.NewRouter(paymentHandler)
	if err := router.Run(":" + config.GetServerPort()); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
