package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid argument", E(CodeInvalidArgument, "op", "bad", nil), http.StatusBadRequest},
		{"conflict", E(CodeConflict, "op", "busy", nil), http.StatusConflict},
		{"unavailable", E(CodeUnavailable, "op", "down", nil), http.StatusServiceUnavailable},
		{"overloaded", E(CodeOverloaded, "op", "busy model", nil), http.StatusServiceUnavailable},
		{"timeout", E(CodeTimeout, "op", "slow", nil), http.StatusGatewayTimeout},
		{"internal", E(CodeInternal, "op", "oops", nil), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("outer: %w", E(CodeInvalidArgument, "op", "bad", nil)), http.StatusBadRequest},
		{"plain error", errors.New("not found"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}

func TestSafeMessageHidesCause(t *testing.T) {
	err := E(CodeUnavailable, "Pipeline.extract", "failed to extract label", errors.New("secret upstream detail"))
	assert.Equal(t, "failed to extract label", SafeMessage(err, "fallback"))
	assert.Equal(t, "fallback", SafeMessage(errors.New("raw"), "fallback"))
	assert.True(t, IsCode(err, CodeUnavailable))
}
