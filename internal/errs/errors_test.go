package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"direct", ErrInsufficientBalance, "INSUFFICIENT_BALANCE"},
		{"wrapped", fmt.Errorf("failed to withdraw: %w", ErrAuthorityMismatch), "AUTHORITY_MISMATCH"},
		{"drift", fmt.Errorf("cache native index: %w", ErrDerivationDrift), "DERIVATION_DRIFT"},
		{"unknown", errors.New("boom"), "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Code(tt.err))
		})
	}
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(fmt.Errorf("x: %w", ErrDerivationDrift)))
	assert.True(t, IsFatal(ErrCorruptAccount))
	assert.False(t, IsFatal(ErrInsufficientFunds))
}
