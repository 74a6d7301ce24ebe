package usecase

import (
	"strings"

	"github.com/polkiloo/voucherbot/internal/domain/model"
)

type classifierRule struct {
	keywords []string
	status   model.Status
}

// classifierRules is evaluated top to bottom, first match wins.
// "used" must be checked before "eligible": messages often carry both.
var classifierRules = []classifierRule{
	{keywords: []string{"redeemed"}, status: model.StatusRedeemed},
	{keywords: []string{"applicable", "used", "checkout"}, status: model.StatusUsed},
	{keywords: []string{"eligible"}, status: model.StatusNotEligible},
	{keywords: []string{"invalid"}, status: model.StatusInvalid},
}

// Classify maps an apply-voucher answer to a status and the value reported by upstream.
func Classify(resp *model.ApplyResponse) (model.Status, int64) {
	if resp == nil {
		return model.StatusApplied, 0
	}
	if !resp.HasError {
		return model.StatusApplied, resp.SavedAmount
	}

	msg := strings.ToLower(resp.FirstMessage())
	for _, rule := range classifierRules {
		for _, kw := range rule.keywords {
			if strings.Contains(msg, kw) {
				return rule.status, 0
			}
		}
	}
	return model.StatusError, 0
}

// ResolveValue prefers the static tier value over the upstream reported amount.
func ResolveValue(tier, reported int64) int64 {
	if tier > 0 {
		return tier
	}
	if reported < 0 {
		return 0
	}
	return reported
}

// TierTable maps three letter voucher prefixes to face values.
type TierTable struct {
	values map[string]int64
}

const tierPrefixLen = 3

// NewTierTable copies the given prefix table. Prefixes are case-insensitive.
func NewTierTable(values map[string]int64) *TierTable {
	t := &TierTable{values: make(map[string]int64, len(values))}
	for prefix, v := range values {
		t.values[strings.ToUpper(strings.TrimSpace(prefix))] = v
	}
	return t
}

// Value returns the face value of the code tier or 0 when unknown.
func (t *TierTable) Value(code string) int64 {
	if t == nil || len(code) < tierPrefixLen {
		return 0
	}
	return t.values[strings.ToUpper(code[:tierPrefixLen])]
}
