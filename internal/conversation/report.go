package conversation

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/polkiloo/voucherbot/internal/domain/model"
)

const (
	currencySymbol = "₹"

	// MaxMessageLength is the Telegram limit for one message, in UTF-16 code units.
	MaxMessageLength = 4096

	preOpen  = "<pre>"
	preClose = "</pre>"
)

// Renderer formats batch results as Telegram HTML messages.
type Renderer struct {
	limit    int
	maxChunk int
	printer  *message.Printer
}

// NewRenderer creates Renderer listing at most limit outcomes per report.
func NewRenderer(limit int) *Renderer {
	if limit <= 0 {
		limit = 25
	}
	return &Renderer{limit: limit, maxChunk: MaxMessageLength, printer: message.NewPrinter(language.English)}
}

// Amount formats a currency value with thousands separators.
func (r *Renderer) Amount(v int64) string {
	return currencySymbol + r.printer.Sprintf("%d", v)
}

// Render builds the operator report as one or more messages, each within MaxMessageLength.
// Totals always cover the whole batch even when the listing is truncated.
func (r *Renderer) Render(result *model.BatchResult) []string {
	c := newChunker(r.maxChunk)
	c.add(fmt.Sprintf("✅ %d VALID | %s", len(result.ValidCodes), r.Amount(result.TotalValue)), false)
	c.add("", false)

	shown := result.Outcomes
	if len(shown) > r.limit {
		shown = shown[:r.limit]
	}
	for _, o := range shown {
		c.add(fmt.Sprintf("%s %s (%s)", o.Status.Marker(), html.EscapeString(o.Code), r.Amount(o.Value)), false)
	}
	if hidden := len(result.Outcomes) - len(shown); hidden > 0 {
		c.add(fmt.Sprintf("… and %d more", hidden), false)
	}

	c.add("", false)
	if len(result.ValidCodes) > 0 {
		c.add("📋 Copy:", false)
		for _, code := range result.ValidCodes {
			c.add(html.EscapeString(code), true)
		}
	} else {
		c.add("😔 No working vouchers.", false)
	}

	if result.ErrorCount > 0 {
		c.add("", false)
		c.add(fmt.Sprintf("⚠️ %d request error(s)", result.ErrorCount), false)
	}
	if result.SessionExpired {
		c.add("", false)
		c.add("🔑 Cookies look expired. Send fresh cookies to continue.", false)
	}
	return c.finish()
}

type chunkLine struct {
	text string
	pre  bool
}

// chunker packs lines into messages, cutting only between lines. Consecutive pre lines
// are wrapped in one <pre> block per message.
type chunker struct {
	limit  int
	chunks []string
	lines  []chunkLine
	size   int
}

func newChunker(limit int) *chunker {
	return &chunker{limit: limit}
}

func (c *chunker) add(text string, pre bool) {
	for _, part := range c.split(text, pre) {
		cost := c.cost(part, pre)
		if len(c.lines) > 0 && c.size+cost > c.limit {
			c.flush()
			cost = c.cost(part, pre)
		}
		if len(c.lines) == 0 && part == "" {
			continue
		}
		c.lines = append(c.lines, chunkLine{text: part, pre: pre})
		c.size += cost
	}
}

// cost is the length a line adds to the current message, including its newline and a
// new <pre></pre> pair when it opens a block.
func (c *chunker) cost(text string, pre bool) int {
	n := textLength(text) + 1
	if pre && (len(c.lines) == 0 || !c.lines[len(c.lines)-1].pre) {
		n += len(preOpen) + len(preClose)
	}
	return n
}

// split cuts a line that cannot fit in an empty message, never inside an HTML entity.
func (c *chunker) split(text string, pre bool) []string {
	budget := c.limit - 1
	if pre {
		budget -= len(preOpen) + len(preClose)
	}
	if textLength(text) <= budget {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > 0 {
		end, units := 0, 0
		for end < len(runes) {
			u := utf16.RuneLen(runes[end])
			if u < 0 {
				u = 1
			}
			if units+u > budget {
				break
			}
			units += u
			end++
		}
		if end < len(runes) {
			if amp := lastOpenEntity(runes[:end]); amp > 0 {
				end = amp
			}
		}
		parts = append(parts, string(runes[:end]))
		runes = runes[end:]
	}
	return parts
}

func (c *chunker) flush() {
	if len(c.lines) == 0 {
		return
	}
	var b strings.Builder
	for i, l := range c.lines {
		prevPre := i > 0 && c.lines[i-1].pre
		nextPre := i+1 < len(c.lines) && c.lines[i+1].pre
		if i > 0 {
			b.WriteByte('\n')
		}
		if l.pre && !prevPre {
			b.WriteString(preOpen)
		}
		b.WriteString(l.text)
		if l.pre && !nextPre {
			b.WriteString(preClose)
		}
	}
	if text := strings.TrimRight(b.String(), "\n"); text != "" {
		c.chunks = append(c.chunks, text)
	}
	c.lines = c.lines[:0]
	c.size = 0
}

func (c *chunker) finish() []string {
	c.flush()
	return c.chunks
}

// lastOpenEntity returns the index of an '&' not closed by ';' before the end, or -1.
func lastOpenEntity(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		switch runes[i] {
		case ';':
			return -1
		case '&':
			return i
		}
	}
	return -1
}

func textLength(s string) int {
	n := 0
	for _, r := range s {
		if u := utf16.RuneLen(r); u > 0 {
			n += u
		} else {
			n++
		}
	}
	return n
}
