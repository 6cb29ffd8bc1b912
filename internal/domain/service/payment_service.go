package service

import (
	"context"
	"time"
)

type InitializeRequest struct {
	Email       string
	Amount      int64 // kobo
	Reference   string
	CallbackURL string
	Metadata    map[string]interface{}
}

type InitializeResponse struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

type VerifyResponse struct {
	Reference    string
	Status       string // "success", "failed", "abandoned", ...
	Amount       int64
	Channel      string
	CustomerCode string
	Email        string
	PaidAt       time.Time
	Metadata     map[string]interface{}
}

type CustomerRequest struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
}

type DedicatedAccount struct {
	BankName      string
	AccountName   string
	AccountNumber string
}

// PaymentGateway is the subset of Paystack the service relies on.
type PaymentGateway interface {
	InitializeTransaction(ctx context.Context, req InitializeRequest) (*InitializeResponse, error)
	VerifyTransaction(ctx context.Context, reference string) (*VerifyResponse, error)
	CreateCustomer(ctx context.Context, req CustomerRequest) (string, error)
	AssignDedicatedAccount(ctx context.Context, customerCode string) (*DedicatedAccount, error)
}
