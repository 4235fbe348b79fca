// internal/config/config.go
package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadConfig memuat variabel dari file .env
func LoadConfig() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}
}

// GetMidtransServerKey mengambil nilai MIDTRANS_SERVER_KEY dari environment
func GetMidtransServerKey() string {
	key := os.Getenv("MIDTRANS_SERVER_KEY")
	if key == "" {
		log.Fatal("MIDTRANS_SERVER_KEY must be set in .env file")
	}
	return key
}

// IsMidtransProduction menentukan environment Midtrans (sandbox atau production)
func IsMidtransProduction() bool {
	return os.Getenv("MIDTRANS_IS_PRODUCTION") == "true"
}

// GetPocketBaseURL mengembalikan base URL PocketBase.
// Untuk development lokal, default ke instance lokal jika tidak di-set.
func GetPocketBaseURL() string {
	baseURL := os.Getenv("POCKETBASE_URL")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8090"
		log.Println("WARNING: POCKETBASE_URL not set in .env, using local default.")
	}
	// Pastikan tidak ada trailing slash agar mudah di-join
	return strings.TrimRight(baseURL, "/")
}

// GetPocketBaseUserEmail mengambil email akun PocketBase untuk autentikasi
func GetPocketBaseUserEmail() string {
	email := os.Getenv("POCKETBASE_USER_EMAIL")
	if email == "" {
		log.Fatal("POCKETBASE_USER_EMAIL must be set in .env file")
	}
	return email
}

// GetPocketBaseUserPassword mengambil password akun PocketBase untuk autentikasi
func GetPocketBaseUserPassword() string {
	password := os.Getenv("POCKETBASE_USER_PASSWORD")
	if password == "" {
		log.Fatal("POCKETBASE_USER_PASSWORD must be set in .env file")
	}
	return password
}

// GetServerPort mengembalikan port HTTP server (default: 3000)
func GetServerPort() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	return port
}

// GetFirebaseCredentialsFile mengembalikan path file service account Firebase.
// Opsional: jika kosong, notifikasi Firestore dinonaktifkan.
func GetFirebaseCredentialsFile() string {
	return os.Getenv("FIREBASE_CREDENTIALS_FILE")
}
