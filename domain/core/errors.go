package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Data sufficiency errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrZeroVariance     = fmt.Errorf("%w: zero variance", ErrInsufficientData)
	ErrPartitionEmpty   = errors.New("partition is empty")

	// Reshape errors
	ErrReshapeIntegrity = errors.New("reshape integrity violated")
	ErrUnknownContext   = errors.New("unknown context code")

	// Battery errors
	ErrInvalidDirection = errors.New("invalid alternative direction")
	ErrInvalidBattery   = errors.New("invalid battery plan")
)

// Error kinds as they appear in a report
const (
	KindInsufficientData = "insufficient_data"
	KindPartitionEmpty   = "partition_empty"
	KindReshapeIntegrity = "reshape_integrity"
	KindInternal         = "internal"
)

// Error constructors with context
func NewInsufficientDataError(test string, need, got int) error {
	return fmt.Errorf("%w: %s needs at least %d observations, got %d", ErrInsufficientData, test, need, got)
}

func NewPartitionEmptyError(key string) error {
	return fmt.Errorf("%w: %s", ErrPartitionEmpty, key)
}

func NewReshapeIntegrityError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrReshapeIntegrity, fmt.Sprintf(format, args...))
}

// ErrorKind classifies an error for per-record reporting
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientData):
		return KindInsufficientData
	case errors.Is(err, ErrPartitionEmpty):
		return KindPartitionEmpty
	case errors.Is(err, ErrReshapeIntegrity):
		return KindReshapeIntegrity
	default:
		return KindInternal
	}
}

// Error checking helpers
func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

// IsRecoverable reports whether a battery entry may fail without aborting the run
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrInsufficientData) || errors.Is(err, ErrPartitionEmpty)
}
