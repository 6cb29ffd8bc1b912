package repository

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"roomlink/internal/domain/entity"
	"roomlink/internal/domain/repository"
	"roomlink/pkg/errors"
)

// OTPs are stored at otps/{email}; a new code replaces the previous one.
type firestoreOTPRepository struct {
	client *firestore.Client
}

func NewFirestoreOTPRepository(client *firestore.Client) repository.OTPRepository {
	return &firestoreOTPRepository{
		client: client,
	}
}

func (r *firestoreOTPRepository) doc(email string) *firestore.DocumentRef {
	return r.client.Collection("otps").Doc(strings.ToLower(strings.TrimSpace(email)))
}

func (r *firestoreOTPRepository) Save(ctx context.Context, otp *entity.OTP) error {
	if otp.CreatedAt.IsZero() {
		otp.CreatedAt = time.Now()
	}
	_, err := r.doc(otp.Email).Set(ctx, otp)
	if err != nil {
		return errors.Internal("Failed to store OTP", err)
	}
	return nil
}

func (r *firestoreOTPRepository) Get(ctx context.Context, email string) (*entity.OTP, error) {
	doc, err := r.doc(email).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("OTP", err)
		}
		return nil, errors.Internal("Failed to get OTP", err)
	}

	var otp entity.OTP
	if err := doc.DataTo(&otp); err != nil {
		return nil, errors.Internal("Failed to parse OTP data", err)
	}
	return &otp, nil
}

func (r *firestoreOTPRepository) ConsumeAttempt(ctx context.Context, email string, maxAttempts int, now time.Time) (*entity.OTP, error) {
	ref := r.doc(email)

	var otp entity.OTP
	var outcome error
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		otp = entity.OTP{}
		outcome = nil

		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		if err := doc.DataTo(&otp); err != nil {
			return err
		}

		// Spent codes are deleted in the same transaction, so the outcome is
		// reported after commit rather than by failing the transaction.
		switch {
		case now.After(otp.ExpiresAt):
			outcome = entity.ErrOTPExpired
			return tx.Delete(ref)
		case otp.Attempts >= maxAttempts:
			outcome = entity.ErrOTPExhausted
			return tx.Delete(ref)
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "attempts", Value: firestore.Increment(1)},
		})
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("OTP", err)
		}
		return nil, errors.Internal("Failed to record OTP attempt", err)
	}
	if outcome != nil {
		return nil, outcome
	}
	return &otp, nil
}

func (r *firestoreOTPRepository) Delete(ctx context.Context, email string) error {
	_, err := r.doc(email).Delete(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return errors.Internal("Failed to delete OTP", err)
	}
	return nil
}
