package validation

import (
	"errors"
	"testing"
)

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=8"`
}

func TestCheckReportsFirstViolation(t *testing.T) {
	cases := []struct {
		name    string
		input   credentials
		field   string
		message string
	}{
		{"missing email", credentials{Password: "longenough"}, "email", "Invalid email address"},
		{"malformed email", credentials{Email: "nope", Password: "longenough"}, "email", "Invalid email address"},
		{"short password", credentials{Email: "a@b.co", Password: "short"}, "password", "Password must be at least 8 characters"},
		{"both invalid", credentials{Email: "nope", Password: "x"}, "email", "Invalid email address"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Check(tc.input)
			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if verr.Field != tc.field || verr.Message != tc.message {
				t.Fatalf("got %s/%q, want %s/%q", verr.Field, verr.Message, tc.field, tc.message)
			}
		})
	}
}

func TestCheckAcceptsValidInput(t *testing.T) {
	if err := Check(credentials{Email: "Test@Example.com", Password: "longenough"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMessageFallback(t *testing.T) {
	if got := Message("plan", "oneof"); got != "plan is invalid" {
		t.Fatalf("unexpected fallback %q", got)
	}
}
