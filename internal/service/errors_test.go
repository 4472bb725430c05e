package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "metadata", Message: "must be at most 500 characters"}
	if got, want := err.Error(), "validation error on field metadata: must be at most 500 characters"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "failed to rank query") != nil {
		t.Error("WrapError(nil) should stay nil")
	}

	cause := &ValidationError{Field: "limit", Message: "must be between 0 and 100"}
	got := WrapError(cause, "failed to rank query")
	if got.Error() != "failed to rank query: validation error on field limit: must be between 0 and 100" {
		t.Errorf("WrapError() = %q", got.Error())
	}
	if !errors.Is(got, cause) || !errors.Is(got, ErrInvalidInput) {
		t.Errorf("WrapError() lost the cause chain: %v", got)
	}
}

func TestValidationError_Unwrap(t *testing.T) {
	err := WrapError(&ValidationError{Field: "query", Message: "cannot be empty"}, "context")
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ValidationError should match ErrInvalidInput")
	}
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "query" {
		t.Errorf("errors.As() = %v, want field query", validationErr)
	}
}

func TestValidationErrorFrom(t *testing.T) {
	validate := validator.New()

	tests := []struct {
		name      string
		req       any
		wantField string
		wantMsg   string
	}{
		{
			name:      "required",
			req:       ProcessRequest{},
			wantField: "query",
			wantMsg:   "cannot be empty",
		},
		{
			name:      "too long",
			req:       ProcessRequest{Query: strings.Repeat("a", 10001)},
			wantField: "query",
			wantMsg:   "must be at most 10000 characters",
		},
		{
			name:      "limit out of range",
			req:       RankRequest{Query: "q", Limit: 101},
			wantField: "limit",
			wantMsg:   "must be between 0 and 100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validationErrorFrom(validate.Struct(tt.req))
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("validationErrorFrom() = %v, want *ValidationError", err)
			}
			if validationErr.Field != tt.wantField || validationErr.Message != tt.wantMsg {
				t.Errorf("validationErrorFrom() = %+v, want %s: %s", validationErr, tt.wantField, tt.wantMsg)
			}
		})
	}

	if err := validationErrorFrom(errors.New("boom")); errors.Is(err, ErrInvalidInput) {
		t.Error("non-validator errors should not become validation errors")
	}
}
