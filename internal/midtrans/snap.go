// internal/midtrans/snap.go
package midtrans

import (
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"fitripay.id/backend/internal/domain/payment"
)

// SnapService membungkus klien Snap Midtrans
type SnapService struct {
	client snap.Client
}

// NewSnapService menginisialisasi klien Snap (sekali saja saat bootstrap)
func NewSnapService(serverKey string, isProduction bool) *SnapService {
	env := midtrans.Sandbox
	if isProduction {
		env = midtrans.Production
	}

	var client snap.Client
	client.New(serverKey, env)
	return &SnapService{client: client}
}

// CreateTransaction membuat sesi transaksi Snap dan mengembalikan token + redirect URL
func (s *SnapService) CreateTransaction(req *payment.CreateTransactionRequest) (*payment.CreateTransactionResponse, error) {
	resp, midErr := s.client.CreateTransaction(buildSnapRequest(req))
	if midErr != nil {
		return nil, midErr
	}

	return &payment.CreateTransactionResponse{
		Token:       resp.Token,
		OrderID:     req.OrderID,
		RedirectURL: resp.RedirectURL,
	}, nil
}

// buildSnapRequest memetakan request aplikasi ke parameter Snap.
// Field customer yang kosong diisi fallback dari user_id.
func buildSnapRequest(req *payment.CreateTransactionRequest) *snap.Request {
	firstName := req.Name
	if firstName == "" {
		firstName = req.UserID
	}
	email := req.Email
	if email == "" {
		email = req.UserID + "@example.com"
	}
	itemName := req.ItemName
	if itemName == "" {
		itemName = "Product"
	}

	amount := int64(req.Amount)
	return &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: firstName,
			Email: email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    "item-1",
				Price: amount,
				Qty:   1,
				Name:  itemName,
			},
		},
		EnabledPayments: []snap.SnapPaymentType{
			snap.PaymentTypeCreditCard,
			snap.PaymentTypeGopay,
			snap.PaymentTypeShopeepay,
			snap.PaymentTypeBankTransfer,
		},
		// Sesi pembayaran kedaluwarsa 15 menit setelah dibuat
		Expiry: &snap.ExpiryDetails{
			Unit:     "minutes",
			Duration: 15,
		},
	}
}
