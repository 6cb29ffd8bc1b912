package errors

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsSetStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NotFound("Listing", nil).Status)
	assert.Equal(t, "Listing not found", NotFound("Listing", nil).Message)
	assert.Equal(t, http.StatusForbidden, Forbidden("no", nil).Status)
	assert.Equal(t, http.StatusConflict, Conflict("dup", nil).Status)
	assert.Equal(t, http.StatusPaymentRequired, PaymentRequired("pay").Status)
	assert.Equal(t, http.StatusBadGateway, Upstream("paystack", nil).Status)
}

func TestIsFollowsWrapping(t *testing.T) {
	err := fmt.Errorf("loading user: %w", NotFound("User", nil))
	assert.True(t, Is(err, CodeNotFound))
	assert.False(t, Is(err, CodeForbidden))
	assert.False(t, Is(fmt.Errorf("plain"), CodeNotFound))
}

func TestTooManyRequestsKeepsRetryAfter(t *testing.T) {
	err := TooManyRequests("slow down", 3*time.Second)
	assert.Equal(t, 3*time.Second, err.RetryAfter)
	assert.Equal(t, http.StatusTooManyRequests, err.Status)
}

func TestErrorIncludesCause(t *testing.T) {
	err := Internal("Failed to save", fmt.Errorf("deadline exceeded"))
	assert.Contains(t, err.Error(), "deadline exceeded")
	assert.Contains(t, err.Error(), CodeInternal)
}
