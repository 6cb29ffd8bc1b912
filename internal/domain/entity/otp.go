package entity

import (
	"errors"
	"time"
)

var (
	ErrOTPExpired   = errors.New("otp expired")
	ErrOTPExhausted = errors.New("otp attempts exhausted")
)

type OTP struct {
	Email     string    `firestore:"email"`
	CodeHash  string    `firestore:"codeHash"`
	Attempts  int       `firestore:"attempts"`
	ExpiresAt time.Time `firestore:"expiresAt"`
	CreatedAt time.Time `firestore:"createdAt"`
}
