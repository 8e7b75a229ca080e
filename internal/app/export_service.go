package app

import (
	"context"
	"fmt"

	"github.com/zeeshan-nvmx/event-access-manager/internal/clock"
	"github.com/zeeshan-nvmx/event-access-manager/internal/domain"
	"github.com/zeeshan-nvmx/event-access-manager/internal/timefmt"
)

// TokenLister enumerates every token for the audit export.
type TokenLister interface {
	ListAll(ctx context.Context) ([]domain.Token, error)
}

// SpreadsheetEncoder turns tabular rows into a downloadable binary blob.
type SpreadsheetEncoder interface {
	Encode(rows [][]any) ([]byte, error)
}

// ExportService produces the offline audit report of every token.
type ExportService struct {
	repo    TokenLister
	encoder SpreadsheetEncoder
	clock   clock.Clock
	format  *timefmt.Formatter
}

func NewExportService(repo TokenLister, enc SpreadsheetEncoder, clk clock.Clock, format *timefmt.Formatter) *ExportService {
	return &ExportService{
		repo:    repo,
		encoder: enc,
		clock:   clk,
		format:  format,
	}
}

type ExportFile struct {
	Name    string
	Content []byte
}

var exportHeader = []any{"Sequence Number", "Category", "Code", "Redeemed", "Redeemed At"}

// ExportAll snapshots every token into one spreadsheet. Rows are read
// committed; the report is not a transactional snapshot.
func (s *ExportService) ExportAll(ctx context.Context) (ExportFile, error) {
	tokens, err := s.repo.ListAll(ctx)
	if err != nil {
		return ExportFile{}, err
	}

	rows := make([][]any, 0, len(tokens)+1)
	rows = append(rows, exportHeader)
	for _, token := range tokens {
		redeemed := "No"
		if token.Redeemed {
			redeemed = "Yes"
		}
		redeemedAt := ""
		if token.RedeemedAt != nil {
			redeemedAt = s.format.Table(*token.RedeemedAt)
		}
		rows = append(rows, []any{token.SequenceNumber, token.Category, token.Code, redeemed, redeemedAt})
	}

	content, err := s.encoder.Encode(rows)
	if err != nil {
		return ExportFile{}, fmt.Errorf("encode export: %w", err)
	}

	name := fmt.Sprintf("tokens-export-%d.xlsx", s.clock.Now().UnixMilli())
	return ExportFile{Name: name, Content: content}, nil
}
