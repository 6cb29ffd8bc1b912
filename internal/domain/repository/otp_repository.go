package repository

import (
	"context"
	"time"

	"roomlink/internal/domain/entity"
)

type OTPRepository interface {
	Save(ctx context.Context, otp *entity.OTP) error
	Get(ctx context.Context, email string) (*entity.OTP, error)
	// ConsumeAttempt spends one verification attempt atomically and returns
	// the code as stored before the attempt. An expired or exhausted code is
	// deleted and reported as entity.ErrOTPExpired or entity.ErrOTPExhausted.
	ConsumeAttempt(ctx context.Context, email string, maxAttempts int, now time.Time) (*entity.OTP, error)
	Delete(ctx context.Context, email string) error
}
