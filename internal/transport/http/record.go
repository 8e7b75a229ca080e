package http

import (
	"github.com/zeeshan-nvmx/event-access-manager/internal/domain"
	"github.com/zeeshan-nvmx/event-access-manager/internal/timefmt"
)

// tokenRecord is the audit view of a token returned by scan, reset and
// lookup responses. Timestamps are rendered in the fixed display timezone.
type tokenRecord struct {
	SequenceNumber int64  `json:"sequence_number"`
	Category       string `json:"category,omitempty"`
	Redeemed       bool   `json:"redeemed"`
	RedeemedAt     string `json:"redeemed_at,omitempty"`
}

func newTokenRecord(t *domain.Token, format *timefmt.Formatter) *tokenRecord {
	if t == nil {
		return nil
	}
	rec := &tokenRecord{
		SequenceNumber: t.SequenceNumber,
		Category:       t.Category,
		Redeemed:       t.Redeemed,
	}
	if t.RedeemedAt != nil {
		rec.RedeemedAt = format.RFC3339(*t.RedeemedAt)
	}
	return rec
}
