// internal/datastore/client.go
package datastore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Client adalah klien REST untuk PocketBase. Satu sesi user diautentikasi
// sekali saat proses start dan dipakai ulang untuk semua request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	identity   string
	password   string

	mu    sync.Mutex // Melindungi token dari akses bersamaan
	token string
}

// APIError adalah error dari API PocketBase (response non-2xx)
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pocketbase error (status %d): %s", e.Status, e.Message)
}

// ListResult adalah response list records dari PocketBase.
// Items dibiarkan sebagai raw JSON agar repository yang men-decode ke struct-nya.
type ListResult struct {
	Page       int               `json:"page"`
	PerPage    int               `json:"perPage"`
	TotalItems int               `json:"totalItems"`
	Items      []json.RawMessage `json:"items"`
}

type authResponse struct {
	Token string `json:"token"`
}

// NewClient membuat instance baru dari Client
func NewClient(baseURL, identity, password string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		identity:   identity,
		password:   password,
	}
}

// Authenticate melakukan auth-with-password ke koleksi users dan menyimpan token
func (c *Client) Authenticate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticate(ctx)
}

// authenticate harus dipanggil dengan c.mu sudah di-lock
func (c *Client) authenticate(ctx context.Context) error {
	payload, err := json.Marshal(map[string]string{
		"identity": c.identity,
		"password": c.password,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/collections/users/auth-with-password", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}

	var ar authResponse
	if err := json.Unmarshal(data, &ar); err != nil {
		return err
	}
	if ar.Token == "" {
		return fmt.Errorf("pocketbase auth response tidak berisi token")
	}

	c.token = ar.Token
	return nil
}

// bearerToken mengembalikan token sesi, re-autentikasi jika token hampir kedaluwarsa
func (c *Client) bearerToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token == "" || tokenNearExpiry(c.token) {
		if err := c.authenticate(ctx); err != nil {
			return "", err
		}
	}
	return c.token, nil
}

// tokenNearExpiry mengecek klaim exp token tanpa verifikasi signature.
// Verifikasi tidak diperlukan di sini: token diterbitkan PocketBase dan
// hanya dipakai untuk menentukan kapan harus login ulang.
func tokenNearExpiry(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return time.Until(exp.Time) < time.Minute
}

// List mengambil records dari sebuah koleksi dengan filter field
func (c *Client) List(ctx context.Context, collection, filter string, page, perPage int) (*ListResult, error) {
	query := url.Values{}
	if filter != "" {
		query.Set("filter", filter)
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("perPage", strconv.Itoa(perPage))

	var result ListResult
	err := c.do(ctx, http.MethodGet, "/api/collections/"+collection+"/records", query, nil, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Create membuat record baru di sebuah koleksi
func (c *Client) Create(ctx context.Context, collection string, fields map[string]interface{}) (json.RawMessage, error) {
	var record json.RawMessage
	err := c.do(ctx, http.MethodPost, "/api/collections/"+collection+"/records", nil, fields, &record)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Update mengubah field-field sebuah record
func (c *Client) Update(ctx context.Context, collection, recordID string, fields map[string]interface{}) (json.RawMessage, error) {
	var record json.RawMessage
	err := c.do(ctx, http.MethodPatch, "/api/collections/"+collection+"/records/"+recordID, nil, fields, &record)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out interface{}) error {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}
	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	apiErr.Status = status
	return apiErr
}

// EscapeFilterValue meng-escape backslash dan tanda kutip agar nilai aman
// disisipkan ke ekspresi filter PocketBase
func EscapeFilterValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `"`, `\"`)
}
