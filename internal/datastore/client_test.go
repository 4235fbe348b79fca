package datastore_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"fitripay.id/backend/internal/datastore"
)

// makeToken membuat JWT ala PocketBase dengan klaim exp tertentu
func makeToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	assert.NoError(t, err)
	return signed
}

func TestClient_Authenticate(t *testing.T) {
	validToken := makeToken(t, time.Now().Add(time.Hour))
	authCalls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/collections/users/auth-with-password":
			authCalls++
			assert.Equal(t, http.MethodPost, r.Method)

			var creds map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "admin@example.com", creds["identity"])
			assert.Equal(t, "rahasia123", creds["password"])

			json.NewEncoder(w).Encode(map[string]string{"token": validToken})
		case "/api/collections/orders/records":
			assert.Equal(t, validToken, r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]interface{}{
				"page": 1, "perPage": 1, "totalItems": 0, "items": []interface{}{},
			})
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := datastore.NewClient(server.URL, "admin@example.com", "rahasia123")
	assert.NoError(t, client.Authenticate(context.Background()))

	// Token masih valid: request berikutnya tidak login ulang
	_, err := client.List(context.Background(), "orders", "", 1, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, authCalls)
}

func TestClient_AuthenticateFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  400,
			"message": "Failed to authenticate.",
		})
	}))
	defer server.Close()

	client := datastore.NewClient(server.URL, "admin@example.com", "salah")
	err := client.Authenticate(context.Background())

	var apiErr *datastore.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Failed to authenticate.", apiErr.Message)
}

func TestClient_ReauthenticatesWhenTokenExpired(t *testing.T) {
	expiredToken := makeToken(t, time.Now().Add(-time.Hour))
	freshToken := makeToken(t, time.Now().Add(time.Hour))
	tokens := []string{expiredToken, freshToken}
	authCalls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/collections/users/auth-with-password":
			token := tokens[authCalls]
			authCalls++
			json.NewEncoder(w).Encode(map[string]string{"token": token})
		case "/api/collections/orders/records":
			assert.Equal(t, freshToken, r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]interface{}{
				"page": 1, "perPage": 1, "totalItems": 0, "items": []interface{}{},
			})
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := datastore.NewClient(server.URL, "admin@example.com", "rahasia123")
	assert.NoError(t, client.Authenticate(context.Background()))

	// Token pertama sudah kedaluwarsa, klien harus login ulang sebelum request
	_, err := client.List(context.Background(), "orders", "", 1, 1)
	assert.NoError(t, err)
	assert.Equal(t, 2, authCalls)
}

func TestClient_List(t *testing.T) {
	validToken := makeToken(t, time.Now().Add(time.Hour))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/collections/users/auth-with-password":
			json.NewEncoder(w).Encode(map[string]string{"token": validToken})
		case "/api/collections/orders/records":
			query := r.URL.Query()
			assert.Equal(t, `order_id = "O1"`, query.Get("filter"))
			assert.Equal(t, "1", query.Get("page"))
			assert.Equal(t, "1", query.Get("perPage"))

			json.NewEncoder(w).Encode(map[string]interface{}{
				"page": 1, "perPage": 1, "totalItems": 1,
				"items": []map[string]interface{}{
					{"id": "rec1", "order_id": "O1", "total_amount": 10000},
				},
			})
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := datastore.NewClient(server.URL, "admin@example.com", "rahasia123")
	result, err := client.List(context.Background(), "orders", `order_id = "O1"`, 1, 1)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.TotalItems)
	assert.Len(t, result.Items, 1)

	var record map[string]interface{}
	assert.NoError(t, json.Unmarshal(result.Items[0], &record))
	assert.Equal(t, "rec1", record["id"])
}

func TestClient_CreateAndUpdate(t *testing.T) {
	validToken := makeToken(t, time.Now().Add(time.Hour))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/collections/users/auth-with-password":
			json.NewEncoder(w).Encode(map[string]string{"token": validToken})
		case r.URL.Path == "/api/collections/payments/records" && r.Method == http.MethodPost:
			var fields map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
			assert.Equal(t, "pending", fields["status"])

			json.NewEncoder(w).Encode(map[string]interface{}{"id": "payrec1", "status": "pending"})
		case r.URL.Path == "/api/collections/payments/records/payrec1" && r.Method == http.MethodPatch:
			var fields map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
			assert.Equal(t, "completed", fields["status"])

			json.NewEncoder(w).Encode(map[string]interface{}{"id": "payrec1", "status": "completed"})
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := datastore.NewClient(server.URL, "admin@example.com", "rahasia123")

	record, err := client.Create(context.Background(), "payments", map[string]interface{}{"status": "pending"})
	assert.NoError(t, err)

	var created map[string]interface{}
	assert.NoError(t, json.Unmarshal(record, &created))
	assert.Equal(t, "payrec1", created["id"])

	_, err = client.Update(context.Background(), "payments", "payrec1", map[string]interface{}{"status": "completed"})
	assert.NoError(t, err)
}

func TestClient_UpdateNotFound(t *testing.T) {
	validToken := makeToken(t, time.Now().Add(time.Hour))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/collections/users/auth-with-password" {
			json.NewEncoder(w).Encode(map[string]string{"token": validToken})
			return
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  404,
			"message": "The requested resource wasn't found.",
		})
	}))
	defer server.Close()

	client := datastore.NewClient(server.URL, "admin@example.com", "rahasia123")
	_, err := client.Update(context.Background(), "orders", "hilang", map[string]interface{}{"status": "completed"})

	var apiErr *datastore.APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestEscapeFilterValue(t *testing.T) {
	assert.Equal(t, `O1`, datastore.EscapeFilterValue(`O1`))
	assert.Equal(t, `O\"1`, datastore.EscapeFilterValue(`O"1`))
	assert.Equal(t, `O\\1`, datastore.EscapeFilterValue(`O\1`))
	assert.Equal(t, `\\\"`, datastore.EscapeFilterValue(`\"`))
}
