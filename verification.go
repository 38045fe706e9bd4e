package creatorconnect

import (
	"time"

	"github.com/google/uuid"
)

// VerificationTokenTTL is how long a verification token stays valid
// after it was mailed out.
const VerificationTokenTTL = "24h"

// NewVerificationToken issues a single-use random token for email
// confirmation. Uniqueness comes from the underlying v4 UUID.
func NewVerificationToken() string {
	return uuid.NewString()
}

// IsWithinThresholdPeriod checks if the given time is within the threshold
func IsWithinThresholdPeriod(t time.Time, pattern string) (bool, error) {
	duration, err := time.ParseDuration(pattern)
	if err != nil {
		return false, err
	}

	threshold := time.Now().Add(-duration)
	if t.After(threshold) {
		return true, nil
	}

	return false, nil
}

// IsOutsideThresholdPeriod is the negation of IsWithinThresholdPeriod
func IsOutsideThresholdPeriod(t time.Time, pattern string) (bool, error) {
	valid, err := IsWithinThresholdPeriod(t, pattern)
	if err != nil {
		return false, err
	}

	return !valid, nil
}
