package service

import (
	"math"

	"roomlink/pkg/errors"
)

const (
	MinRating = 1.0
	MaxRating = 5.0
)

// ValidateRating rejects anything that is not a finite number in [1,5].
func ValidateRating(rating float64) error {
	if math.IsNaN(rating) || math.IsInf(rating, 0) {
		return errors.BadRequest("Rating must be a number", nil)
	}
	if rating < MinRating || rating > MaxRating {
		return errors.BadRequest("Rating must be between 1 and 5", nil)
	}
	return nil
}

// ApplyRating folds one more rating into a running average.
//
// A stored count below zero is treated as zero, and the result is clamped to
// [1,5] so accumulated float error can never publish an out-of-range average.
func ApplyRating(oldAverage float64, oldCount int, rating float64) (float64, int) {
	if oldCount < 0 {
		oldCount = 0
	}
	if oldCount == 0 || math.IsNaN(oldAverage) {
		oldAverage = 0
	}

	newCount := oldCount + 1
	newAverage := (oldAverage*float64(oldCount) + rating) / float64(newCount)

	return clampRating(newAverage), newCount
}

func clampRating(v float64) float64 {
	if v < MinRating {
		return MinRating
	}
	if v > MaxRating {
		return MaxRating
	}
	return v
}
