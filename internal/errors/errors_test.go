package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	t.Run("formats with field and value", func(t *testing.T) {
		err := NewValidationError(KindInvalidIP, "malformed address", "start_ip", "999.1.1.1")

		assert.Contains(t, err.Error(), "INVALID_IP")
		assert.Contains(t, err.Error(), "start_ip")
		assert.Contains(t, err.Error(), "999.1.1.1")
	})

	t.Run("formats without field", func(t *testing.T) {
		err := &ValidationError{Kind: KindInvalidTimeout, Message: "out of bounds"}

		assert.Equal(t, "[INVALID_TIMEOUT] out of bounds", err.Error())
	})
}

func TestProbeError(t *testing.T) {
	t.Run("unwraps cause", func(t *testing.T) {
		cause := fmt.Errorf("connection refused")
		err := NewProbeError(KindConnectionRefused, "192.168.1.10:5555", cause)

		assert.Contains(t, err.Error(), "192.168.1.10:5555")
		assert.Equal(t, cause, errors.Unwrap(err))
	})

	t.Run("nil cause is allowed", func(t *testing.T) {
		err := ErrHostUnreachable("10.0.0.1")

		require.NotNil(t, err)
		assert.Nil(t, errors.Unwrap(err))
		assert.Equal(t, KindUnreachableHost, err.Kind)
	})
}

func TestSessionError(t *testing.T) {
	cause := fmt.Errorf("all workers exited")
	err := WrapSessionError(KindScanFailed, "sweep aborted", cause)

	assert.Contains(t, err.Error(), "SCAN_FAILED")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestKindInspection(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
	}{
		{"validation error", NewValidationError(KindInvalidRange, "start > end", "ip_range", nil), KindInvalidRange},
		{"probe error", ErrConnectionTimeout("10.0.0.1:22", nil), KindConnectionTimeout},
		{"session error", NewSessionError(KindCanceled, "canceled by caller"), KindCanceled},
		{"plain error", fmt.Errorf("plain"), KindUnknown},
		{"nil error", nil, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, GetKind(tt.err))
			if tt.kind != KindUnknown {
				assert.True(t, IsKind(tt.err, tt.kind))
			}
		})
	}
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(NewValidationError(KindInvalidPort, "port 0", "ports", "0")))
	assert.False(t, IsValidation(ErrConnectionRefused("1.2.3.4:23", nil)))
	assert.False(t, IsValidation(errors.New("plain")))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(NewSessionError(KindScanFailed, "no workers remain")))
	assert.False(t, IsFatal(ErrHostUnreachable("10.0.0.1")))
	assert.False(t, IsFatal(NewSessionError(KindCanceled, "canceled")))
}
