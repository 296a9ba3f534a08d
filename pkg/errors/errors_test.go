package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{name: "not found", err: NewNotFoundError("feedback missing"), want: ErrorTypeNotFound},
		{name: "wrapped forbidden", err: fmt.Errorf("ack: %w", NewForbiddenError("not yours")), want: ErrorTypeForbidden},
		{name: "duplicate email", err: NewDuplicateEmailError("a@example.com"), want: ErrorTypeDuplicateEmail},
		{name: "plain error", err: stderrors.New("boom"), want: ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.err))
			assert.True(t, IsType(tt.err, tt.want))
		})
	}
}

func TestIsType_Nil(t *testing.T) {
	assert.False(t, IsType(nil, ErrorTypeInternal))
}

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewInternalError("failed to list feedback", cause)

	assert.Equal(t, "INTERNAL: failed to list feedback: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "NO_MANAGER_ASSIGNED: employee e-1 has no manager assigned", NewNoManagerAssignedError("e-1").Error())
}
