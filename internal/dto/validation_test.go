package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestStrongPassword(t *testing.T) {
	v := validator.New()
	if err := v.RegisterValidation("strongpassword", StrongPassword); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"all classes present", "Abcdefgh1234!", true},
		{"minimum length boundary", "Aa1!aaaaaaaa", true},
		{"too short", "Aa1!aaaa", false},
		{"no uppercase", "abcdefgh1234!", false},
		{"no lowercase", "ABCDEFGH1234!", false},
		{"no digit", "Abcdefghijkl!", false},
		{"no special character", "Abcdefgh12345", false},
		{"special outside allowed set", "Abcdefgh1234~", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Var(tt.password, "strongpassword")
			got := err == nil
			if got != tt.want {
				t.Errorf("StrongPassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}
