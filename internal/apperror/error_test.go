package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestGetCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), CodeInternal},
		{"direct", New(CodeConflict, "dup"), CodeConflict},
		{"wrapped", fmt.Errorf("create: %w", NotFound("employee")), CodeNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := GetCode(tc.err); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	if msg := NotFound("Employee").Error(); msg != "Employee not found" {
		t.Fatalf("unexpected message %q", msg)
	}
}
