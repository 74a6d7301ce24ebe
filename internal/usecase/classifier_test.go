package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polkiloo/voucherbot/internal/domain/model"
	testhelpers "github.com/polkiloo/voucherbot/internal/test"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		resp       *model.ApplyResponse
		wantStatus model.Status
		wantValue  int64
	}{
		{name: "absent response", resp: nil, wantStatus: model.StatusApplied},
		{name: "no error section", resp: &model.ApplyResponse{}, wantStatus: model.StatusApplied},
		{name: "saved amount", resp: &model.ApplyResponse{SavedAmount: 750}, wantStatus: model.StatusApplied, wantValue: 750},
		{name: "redeemed", resp: testhelpers.ErrorResponse("Voucher has been REDEEMED"), wantStatus: model.StatusRedeemed},
		{name: "not applicable", resp: testhelpers.ErrorResponse("Voucher not applicable on cart"), wantStatus: model.StatusUsed},
		{name: "used", resp: testhelpers.ErrorResponse("voucher already used"), wantStatus: model.StatusUsed},
		{name: "checkout", resp: testhelpers.ErrorResponse("Reserved during checkout"), wantStatus: model.StatusUsed},
		{name: "eligible", resp: testhelpers.ErrorResponse("You are not eligible"), wantStatus: model.StatusNotEligible},
		{name: "invalid", resp: testhelpers.ErrorResponse("Invalid voucher code"), wantStatus: model.StatusInvalid},
		{name: "unknown text", resp: testhelpers.ErrorResponse("something broke"), wantStatus: model.StatusError},
		{name: "error without messages", resp: &model.ApplyResponse{HasError: true}, wantStatus: model.StatusError},
		{name: "error ignores saved amount", resp: &model.ApplyResponse{HasError: true, Messages: []string{"invalid"}, SavedAmount: 99}, wantStatus: model.StatusInvalid},
		{name: "only first message counts", resp: &model.ApplyResponse{HasError: true, Messages: []string{"boom", "redeemed"}}, wantStatus: model.StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, value := Classify(tt.resp)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestClassifyKeywordPriority(t *testing.T) {
	cases := map[string]model.Status{
		"voucher used, you are no longer eligible":       model.StatusUsed,
		"already applied and not applicable":             model.StatusUsed,
		"redeemed voucher is invalid":                    model.StatusRedeemed,
		"not eligible: invalid user":                     model.StatusNotEligible,
		"invalid voucher, already used in checkout flow": model.StatusUsed,
	}
	for msg, want := range cases {
		status, _ := Classify(testhelpers.ErrorResponse(msg))
		assert.Equal(t, want, status, msg)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	resp := testhelpers.ErrorResponse("Not eligible for this offer")
	s1, v1 := Classify(resp)
	for i := 0; i < 10; i++ {
		s, v := Classify(resp)
		assert.Equal(t, s1, s)
		assert.Equal(t, v1, v)
	}
}

func TestTierTable(t *testing.T) {
	tiers := NewTierTable(map[string]int64{"SVH": 4000, "svd": 1000, "SVC": 2000, "SVA": 500})

	assert.Equal(t, int64(4000), tiers.Value("SVH1234"))
	assert.Equal(t, int64(4000), tiers.Value("svh1234"))
	assert.Equal(t, int64(1000), tiers.Value("SVDabc"))
	assert.Equal(t, int64(0), tiers.Value("XYZ999"))
	assert.Equal(t, int64(0), tiers.Value("SV"))
	assert.Equal(t, int64(0), tiers.Value(""))

	var missing *TierTable
	assert.Equal(t, int64(0), missing.Value("SVH1"))
}

func TestResolveValue(t *testing.T) {
	assert.Equal(t, int64(4000), ResolveValue(4000, 123))
	assert.Equal(t, int64(123), ResolveValue(0, 123))
	assert.Equal(t, int64(0), ResolveValue(0, 0))
	assert.Equal(t, int64(0), ResolveValue(0, -5))
}
