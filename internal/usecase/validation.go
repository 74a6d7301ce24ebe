package usecase

import (
	"strings"

	"github.com/polkiloo/voucherbot/internal/domain/model"
)

// ParseCodes splits a message into trimmed, non-empty voucher codes keeping their order.
func ParseCodes(text string) []string {
	var codes []string
	for _, line := range strings.Split(text, "\n") {
		if code := strings.TrimSpace(line); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// NormalizeSession collapses whitespace runs of a pasted cookie string into single spaces.
func NormalizeSession(raw string) model.Session {
	return model.Session(strings.Join(strings.Fields(raw), " "))
}
