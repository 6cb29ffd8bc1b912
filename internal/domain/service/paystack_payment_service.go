package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"roomlink/pkg/logger"
)

// PaystackPaymentService talks to the Paystack REST API.
type PaystackPaymentService struct {
	secretKey     string
	baseURL       string
	preferredBank string
	httpClient    *http.Client
}

func NewPaystackPaymentService(secretKey, baseURL, preferredBank string) *PaystackPaymentService {
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}

	return &PaystackPaymentService{
		secretKey:     secretKey,
		baseURL:       strings.TrimRight(baseURL, "/"),
		preferredBank: preferredBank,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

// paystackEnvelope is the {status, message, data} wrapper every endpoint returns.
type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type paystackCustomer struct {
	CustomerCode string `json:"customer_code"`
	Email        string `json:"email"`
}

// PaystackTransaction is the transaction object shared by verify responses and charge webhooks.
type PaystackTransaction struct {
	Reference string                 `json:"reference"`
	Status    string                 `json:"status"`
	Amount    int64                  `json:"amount"`
	Channel   string                 `json:"channel"`
	PaidAt    string                 `json:"paid_at"`
	Customer  paystackCustomer       `json:"customer"`
	Metadata  map[string]interface{} `json:"-"`
	RawMeta   json.RawMessage        `json:"metadata"`
}

// decodeMetadata copes with Paystack sending metadata as an object, a JSON string or "".
func (t *PaystackTransaction) decodeMetadata() {
	t.Metadata = map[string]interface{}{}
	raw := bytes.TrimSpace(t.RawMeta)
	if len(raw) == 0 || string(raw) == "null" {
		return
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		raw = []byte(asString)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err == nil && m != nil {
		t.Metadata = m
	}
}

func (t *PaystackTransaction) toVerifyResponse() *VerifyResponse {
	t.decodeMetadata()
	paidAt, _ := time.Parse(time.RFC3339, t.PaidAt)
	return &VerifyResponse{
		Reference:    t.Reference,
		Status:       t.Status,
		Amount:       t.Amount,
		Channel:      t.Channel,
		CustomerCode: t.Customer.CustomerCode,
		Email:        t.Customer.Email,
		PaidAt:       paidAt,
		Metadata:     t.Metadata,
	}
}

func (s *PaystackPaymentService) InitializeTransaction(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	logger.Info("Initializing Paystack transaction: reference=%s amount=%d", req.Reference, req.Amount)

	payload := map[string]interface{}{
		"email":     req.Email,
		"amount":    req.Amount,
		"reference": req.Reference,
	}
	if req.CallbackURL != "" {
		payload["callback_url"] = req.CallbackURL
	}
	if len(req.Metadata) > 0 {
		payload["metadata"] = req.Metadata
	}

	var data struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	}
	if err := s.do(ctx, http.MethodPost, "/transaction/initialize", payload, &data); err != nil {
		return nil, err
	}

	return &InitializeResponse{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

func (s *PaystackPaymentService) VerifyTransaction(ctx context.Context, reference string) (*VerifyResponse, error) {
	logger.Info("Verifying Paystack transaction: %s", reference)

	var txn PaystackTransaction
	if err := s.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &txn); err != nil {
		return nil, err
	}

	return txn.toVerifyResponse(), nil
}

func (s *PaystackPaymentService) CreateCustomer(ctx context.Context, req CustomerRequest) (string, error) {
	payload := map[string]interface{}{
		"email":      req.Email,
		"first_name": req.FirstName,
		"last_name":  req.LastName,
	}
	if req.Phone != "" {
		payload["phone"] = req.Phone
	}

	var data paystackCustomer
	if err := s.do(ctx, http.MethodPost, "/customer", payload, &data); err != nil {
		return "", err
	}
	if data.CustomerCode == "" {
		return "", fmt.Errorf("paystack: customer created without customer_code")
	}

	return data.CustomerCode, nil
}

func (s *PaystackPaymentService) AssignDedicatedAccount(ctx context.Context, customerCode string) (*DedicatedAccount, error) {
	payload := map[string]interface{}{
		"customer":       customerCode,
		"preferred_bank": s.preferredBank,
	}

	var data struct {
		AccountName   string `json:"account_name"`
		AccountNumber string `json:"account_number"`
		Bank          struct {
			Name string `json:"name"`
		} `json:"bank"`
	}
	if err := s.do(ctx, http.MethodPost, "/dedicated_account", payload, &data); err != nil {
		return nil, err
	}

	return &DedicatedAccount{
		BankName:      data.Bank.Name,
		AccountName:   data.AccountName,
		AccountNumber: data.AccountNumber,
	}, nil
}

func (s *PaystackPaymentService) do(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.secretKey)
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var envelope paystackEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("paystack %s %s: unexpected response (%d): %w", method, path, resp.StatusCode, err)
	}
	if resp.StatusCode >= 300 || !envelope.Status {
		return fmt.Errorf("paystack %s %s: %d %s", method, path, resp.StatusCode, envelope.Message)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to parse response data: %w", err)
		}
	}
	return nil
}

// PaystackEvent is a webhook delivery.
type PaystackEvent struct {
	Event string              `json:"event"`
	Data  PaystackTransaction `json:"data"`
}

// ParsePaystackEvent decodes a webhook body that has already passed signature verification.
func ParsePaystackEvent(body []byte) (*PaystackEvent, *VerifyResponse, error) {
	var event PaystackEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, nil, fmt.Errorf("invalid webhook payload: %w", err)
	}
	return &event, event.Data.toVerifyResponse(), nil
}

// VerifyPaystackSignature checks x-paystack-signature: hex(HMAC-SHA512(secret, rawBody)).
func VerifyPaystackSignature(body []byte, signature, secretKey string) bool {
	if signature == "" || secretKey == "" {
		return false
	}

	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	expected := mac.Sum(nil)

	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}
	return hmac.Equal(expected, got)
}

// SignPaystackPayload produces the signature Paystack would send for body.
func SignPaystackPayload(body []byte, secretKey string) string {
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
