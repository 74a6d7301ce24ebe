package auth

import (
	"errors"
	"testing"
)

func TestHMACVerifier_Disabled(t *testing.T) {
	v := NewHMACVerifier("status", "")
	if v.Enabled() {
		t.Fatal("expected verifier to be disabled")
	}
	if err := v.Verify(""); err != nil {
		t.Fatalf("expected disabled verifier to accept anything, got %v", err)
	}
}

func TestHMACVerifier_Verify(t *testing.T) {
	v := NewHMACVerifier("status", "secret")

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "match", token: "secret", want: nil},
		{name: "empty", token: "", want: ErrInvalidToken},
		{name: "prefix", token: "secre", want: ErrInvalidToken},
		{name: "longer", token: "secret-and-more", want: ErrInvalidToken},
		{name: "case", token: "SECRET", want: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := v.Verify(tt.token); !errors.Is(err, tt.want) {
				t.Fatalf("Verify(%q) = %v, want %v", tt.token, err, tt.want)
			}
		})
	}
}

func TestHMACVerifier_KeyedByName(t *testing.T) {
	a := NewHMACVerifier("status", "secret")
	b := NewHMACVerifier("webhook", "secret")
	if string(a.expected) == string(b.expected) {
		t.Fatal("expected digests to differ between verifiers")
	}
}
