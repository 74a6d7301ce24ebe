package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is the redemption outcome of a single voucher code.
type Status string

const (
	StatusApplied     Status = "APPLIED"
	StatusRedeemed    Status = "REDEEMED"
	StatusUsed        Status = "USED"
	StatusNotEligible Status = "NOT_ELIGIBLE"
	StatusInvalid     Status = "INVALID"
	StatusError       Status = "ERROR"
)

var statusMarkers = map[Status]string{
	StatusApplied:     "✅WORKING",
	StatusRedeemed:    "⚠️REDEEMED",
	StatusUsed:        "❌USED",
	StatusNotEligible: "🚧NOT_ELIGIBLE",
	StatusInvalid:     "👀INVALID",
	StatusError:       "❌ERROR",
}

// Marker returns the report label for the status.
func (s Status) Marker() string {
	if m, ok := statusMarkers[s]; ok {
		return m
	}
	return statusMarkers[StatusError]
}

// ApplyResponse is the decoded answer of the apply-voucher endpoint.
type ApplyResponse struct {
	// HasError is set when the payload carries an errorMessage section.
	HasError    bool
	Messages    []string
	SavedAmount int64
}

// FirstMessage returns the first upstream error text or an empty string.
func (r *ApplyResponse) FirstMessage() string {
	if r == nil || len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[0]
}

// Outcome is the classified result for one submitted code.
type Outcome struct {
	Code   string
	Status Status
	Value  int64
}

// Valid reports whether the outcome counts towards the batch total.
func (o Outcome) Valid() bool {
	return o.Status == StatusApplied && o.Value > 0
}

// BatchResult aggregates outcomes of one batch in submission order.
type BatchResult struct {
	ID             uuid.UUID
	Outcomes       []Outcome
	ValidCodes     []string
	TotalValue     int64
	ErrorCount     int
	AuthFailures   int
	SessionExpired bool
	StartedAt      time.Time
	Duration       time.Duration
}

// Add appends an outcome and updates the aggregates.
func (r *BatchResult) Add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	if o.Valid() {
		r.ValidCodes = append(r.ValidCodes, o.Code)
		r.TotalValue += o.Value
	}
}

// Summary returns the aggregate view used by status reporting.
func (r *BatchResult) Summary() BatchSummary {
	return BatchSummary{
		ID:             r.ID.String(),
		Codes:          len(r.Outcomes),
		Valid:          len(r.ValidCodes),
		TotalValue:     r.TotalValue,
		Errors:         r.ErrorCount,
		SessionExpired: r.SessionExpired,
		FinishedAt:     r.StartedAt.Add(r.Duration),
	}
}

// BatchSummary is a compact description of a finished batch.
type BatchSummary struct {
	ID             string    `json:"id"`
	Codes          int       `json:"codes"`
	Valid          int       `json:"valid"`
	TotalValue     int64     `json:"total_value"`
	Errors         int       `json:"errors"`
	SessionExpired bool      `json:"session_expired"`
	FinishedAt     time.Time `json:"finished_at"`
}
