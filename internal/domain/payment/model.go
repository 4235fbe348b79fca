package payment

// Status internal untuk order dan payment
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Order adalah record pesanan di koleksi "orders" PocketBase.
// Dibuat oleh alur pemesanan di aplikasi, di sini hanya dibaca dan di-update.
type Order struct {
	ID            string  `json:"id"` // Record ID PocketBase
	OrderID       string  `json:"order_id"`
	UserID        string  `json:"user_id"`
	TotalAmount   float64 `json:"total_amount"`
	Status        string  `json:"status"`
	EstimatedTime string  `json:"estimatedTime,omitempty"`
}

// Payment adalah record pembayaran di koleksi "payments" PocketBase
type Payment struct {
	ID            string  `json:"id"` // Record ID PocketBase
	PaymentID     string  `json:"payment_id"`
	OrderID       string  `json:"order_id"` // Order ID bisnis, bukan record ID
	UserID        string  `json:"user_id"`
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"payment_method"`
	RawResponse   string  `json:"raw_response,omitempty"`
	Created       string  `json:"created,omitempty"`
	Updated       string  `json:"updated,omitempty"`
}

// CreateTransactionRequest adalah body request dari aplikasi mobile
type CreateTransactionRequest struct {
	OrderID  string  `json:"order_id" binding:"required"`
	Amount   float64 `json:"amount" binding:"required"`
	UserID   string  `json:"user_id" binding:"required"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	ItemName string  `json:"item_name"`
}

// CreateTransactionResponse berisi Snap token untuk widget pembayaran di frontend
type CreateTransactionResponse struct {
	Token       string `json:"token"`
	OrderID     string `json:"order_id"`
	RedirectURL string `json:"redirect_url"`
}

// Notification adalah payload webhook pembayaran dari Midtrans
// Referensi: https://docs.midtrans.com/en/after-payment/http-notification
type Notification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"` // "capture", "settlement", "pending", "deny", "cancel", "expire", "failure"
	TransactionID     string `json:"transaction_id"`
	StatusMessage     string `json:"status_message"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"` // Hash untuk validasi
	PaymentType       string `json:"payment_type"`  // Metode pembayaran (e.g., "gopay", "bank_transfer")
	OrderID           string `json:"order_id"`
	MerchantID        string `json:"merchant_id"`
	GrossAmount       string `json:"gross_amount"` // Jumlah total (sebagai string)
	FraudStatus       string `json:"fraud_status,omitempty"`
	Currency          string `json:"currency"`
}
