package validation

import (
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid email", email: "user@example.com", wantErr: false},
		{name: "valid with plus", email: "user+tag@example.co.uk", wantErr: false},
		{name: "empty", email: "", wantErr: true},
		{name: "missing at", email: "userexample.com", wantErr: true},
		{name: "missing domain", email: "user@", wantErr: true},
		{name: "missing tld", email: "user@example", wantErr: true},
		{name: "whitespace only", email: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid password", password: "longenough", wantErr: false},
		{name: "empty", password: "", wantErr: true},
		{name: "too short", password: "short", wantErr: true},
		{name: "exactly 8 chars", password: "12345678", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePlanName(t *testing.T) {
	tests := []struct {
		name     string
		planName string
		wantErr  bool
	}{
		{name: "valid name", planName: "German Vocabulary B1", wantErr: false},
		{name: "empty", planName: "", wantErr: true},
		{name: "whitespace only", planName: "  ", wantErr: true},
		{name: "too long", planName: strings.Repeat("x", 201), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePlanName(tt.planName)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePlanName() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidationError{Field: "email", Message: "email is required"}
	if got := err.Error(); got != "email: email is required" {
		t.Errorf("Error() = %q", got)
	}
}
