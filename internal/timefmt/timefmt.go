// Package timefmt renders redemption timestamps in the single timezone the
// event's audit trail is kept in, regardless of server or client locale.
package timefmt

import (
	"fmt"
	"time"
)

const tableLayout = "2006-01-02 15:04:05"

// Formatter renders instants in one fixed location.
type Formatter struct {
	loc *time.Location
}

// New loads the named IANA timezone.
func New(name string) (*Formatter, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return &Formatter{loc: loc}, nil
}

// RFC3339 renders t with the fixed zone's offset, for API payloads.
func (f *Formatter) RFC3339(t time.Time) string {
	return t.In(f.loc).Format(time.RFC3339)
}

// Table renders t for spreadsheet cells.
func (f *Formatter) Table(t time.Time) string {
	return t.In(f.loc).Format(tableLayout)
}
