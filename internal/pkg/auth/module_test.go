package auth

import (
	"testing"

	"github.com/polkiloo/voucherbot/internal/config"
)

func TestNewVerifiers(t *testing.T) {
	verifiers := newVerifiers(verifierParams{Config: &config.Config{StatusToken: "top-secret"}})
	if !verifiers.Status.Enabled() {
		t.Fatal("expected status verifier to be enabled")
	}
	if verifiers.Webhook.Enabled() {
		t.Fatal("expected webhook verifier to be disabled without a secret")
	}
	if verifiers.Status.Name() != "status" || verifiers.Webhook.Name() != "webhook" {
		t.Fatalf("unexpected names: %q %q", verifiers.Status.Name(), verifiers.Webhook.Name())
	}
}
