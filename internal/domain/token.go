package domain

import "time"

// Token is one admission code issued for the event. Tokens are created by the
// issuance process; this service only redeems, resets and reports them.
type Token struct {
	Code           string
	SequenceNumber int64
	Category       string
	Redeemed       bool
	// RedeemedAt is set exactly when Redeemed is true.
	RedeemedAt *time.Time
}
