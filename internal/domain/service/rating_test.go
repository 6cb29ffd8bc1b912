package service

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"roomlink/pkg/errors"
)

func TestValidateRating(t *testing.T) {
	for _, r := range []float64{1, 2.5, 5} {
		assert.NoError(t, ValidateRating(r), "rating %v", r)
	}
	for _, r := range []float64{0, 0.99, 5.01, -3, math.NaN(), math.Inf(1)} {
		err := ValidateRating(r)
		assert.Error(t, err, "rating %v", r)
		assert.True(t, errors.Is(err, errors.CodeBadRequest))
	}
}

func TestApplyRatingFirstReview(t *testing.T) {
	avg, count := ApplyRating(0, 0, 4)
	assert.Equal(t, 4.0, avg)
	assert.Equal(t, 1, count)
}

func TestApplyRatingRunningAverage(t *testing.T) {
	avg, count := ApplyRating(4, 3, 2)
	assert.InDelta(t, 3.5, avg, 1e-9)
	assert.Equal(t, 4, count)
}

func TestApplyRatingIgnoresCorruptState(t *testing.T) {
	avg, count := ApplyRating(17, -2, 3)
	assert.Equal(t, 3.0, avg)
	assert.Equal(t, 1, count)
}

func TestApplyRatingStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	avg, count := 0.0, 0
	sum := 0.0

	for i := 0; i < 10000; i++ {
		r := float64(1 + rng.Intn(5))
		sum += r
		avg, count = ApplyRating(avg, count, r)

		assert.GreaterOrEqual(t, avg, MinRating)
		assert.LessOrEqual(t, avg, MaxRating)
	}

	assert.Equal(t, 10000, count)
	assert.InDelta(t, sum/10000, avg, 1e-6)
}
