package conversation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/voucherbot/internal/domain/model"
)

func single(t *testing.T, parts []string) string {
	t.Helper()
	require.Len(t, parts, 1)
	return parts[0]
}

func TestRenderReport(t *testing.T) {
	var result model.BatchResult
	result.Add(model.Outcome{Code: "SVH1", Status: model.StatusApplied, Value: 4000})
	result.Add(model.Outcome{Code: "SVA2", Status: model.StatusUsed, Value: 500})
	result.Add(model.Outcome{Code: "SVC3", Status: model.StatusApplied, Value: 2000})
	result.Add(model.Outcome{Code: "XYZ4", Status: model.StatusError})
	result.ErrorCount = 1

	text := single(t, NewRenderer(25).Render(&result))

	assert.True(t, strings.HasPrefix(text, "✅ 2 VALID | ₹6,000\n\n"), text)
	assert.Contains(t, text, "✅WORKING SVH1 (₹4,000)")
	assert.Contains(t, text, "❌USED SVA2 (₹500)")
	assert.Contains(t, text, "❌ERROR XYZ4 (₹0)")
	assert.Contains(t, text, "📋 Copy:\n<pre>SVH1\nSVC3</pre>")
	assert.Contains(t, text, "⚠️ 1 request error(s)")
	assert.NotContains(t, text, "No working vouchers")
}

func TestRenderReportWithoutValidCodes(t *testing.T) {
	var result model.BatchResult
	result.Add(model.Outcome{Code: "SVH1", Status: model.StatusRedeemed, Value: 4000})

	text := single(t, NewRenderer(25).Render(&result))
	assert.True(t, strings.HasPrefix(text, "✅ 0 VALID | ₹0"), text)
	assert.Contains(t, text, "⚠️REDEEMED SVH1")
	assert.Contains(t, text, "😔 No working vouchers.")
	assert.NotContains(t, text, "<pre>")
	assert.NotContains(t, text, "request error")
}

func TestRenderTruncatesListingButNotTotals(t *testing.T) {
	var result model.BatchResult
	for i := 0; i < 20; i++ {
		result.Add(model.Outcome{Code: fmt.Sprintf("SVA%02d", i), Status: model.StatusApplied, Value: 500})
	}

	text := single(t, NewRenderer(15).Render(&result))
	assert.Contains(t, text, "✅ 20 VALID | ₹10,000")
	assert.Contains(t, text, "SVA14 (")
	assert.NotContains(t, text, "SVA15 (")
	assert.Contains(t, text, "… and 5 more")
	assert.Contains(t, text, "SVA19</pre>", "copy block lists every valid code")
}

func TestRenderEscapesCodes(t *testing.T) {
	var result model.BatchResult
	result.Add(model.Outcome{Code: "<b>x", Status: model.StatusApplied, Value: 1})

	text := single(t, NewRenderer(0).Render(&result))
	assert.Contains(t, text, "&lt;b&gt;x")
	assert.NotContains(t, text, "<b>x")
}

func TestRenderSessionExpiredNotice(t *testing.T) {
	result := model.BatchResult{SessionExpired: true, ErrorCount: 3}
	result.Add(model.Outcome{Code: "A", Status: model.StatusError})
	text := single(t, NewRenderer(10).Render(&result))
	assert.Contains(t, text, "Cookies look expired")
}

func TestRenderSplitsLargeCopyBlock(t *testing.T) {
	var result model.BatchResult
	for i := 0; i < 400; i++ {
		result.Add(model.Outcome{Code: fmt.Sprintf("SVH%012d", i), Status: model.StatusApplied, Value: 4000})
	}
	result.ErrorCount = 2

	parts := NewRenderer(25).Render(&result)
	require.Greater(t, len(parts), 1)

	var codes []string
	for i, part := range parts {
		assert.LessOrEqual(t, textLength(part), MaxMessageLength, "part %d too long", i)
		assert.Equal(t, strings.Count(part, "<pre>"), strings.Count(part, "</pre>"), "part %d has unbalanced pre", i)
		for _, line := range strings.Split(part, "\n") {
			line = strings.TrimSuffix(strings.TrimPrefix(line, "<pre>"), "</pre>")
			if strings.HasPrefix(line, "SVH") && !strings.Contains(line, " ") {
				codes = append(codes, line)
			}
		}
	}

	assert.True(t, strings.HasPrefix(parts[0], "✅ 400 VALID | ₹1,600,000"), parts[0])
	assert.Contains(t, parts[len(parts)-1], "⚠️ 2 request error(s)")
	require.Len(t, codes, 400, "every valid code appears once in the copy blocks")
	assert.Equal(t, "SVH000000000000", codes[0])
	assert.Equal(t, "SVH000000000399", codes[399])
}

func TestRenderSplitsOversizedCodeOutsideEntities(t *testing.T) {
	var result model.BatchResult
	result.Add(model.Outcome{Code: strings.Repeat("a&", 3000), Status: model.StatusApplied, Value: 1})

	parts := NewRenderer(1).Render(&result)
	require.Greater(t, len(parts), 1)
	for _, part := range parts {
		assert.LessOrEqual(t, textLength(part), MaxMessageLength)
		body := strings.ReplaceAll(part, "&amp;", "")
		assert.NotContains(t, body, "&", "entity cut in half")
	}
}

func TestTextLengthCountsUTF16Units(t *testing.T) {
	assert.Equal(t, 1, textLength("a"))
	assert.Equal(t, 1, textLength("₹"))
	assert.Equal(t, 2, textLength("📋"))
}
