package app

import (
	"context"
	"time"

	"github.com/zeeshan-nvmx/event-access-manager/internal/clock"
	"github.com/zeeshan-nvmx/event-access-manager/internal/domain"
)

// TokenRepository is the store surface the redemption engine needs. All
// redemption-state writes go through CompareAndSetRedeemed; ClearRedemption
// is the administrative overwrite used by reset only.
type TokenRepository interface {
	FindByCode(ctx context.Context, code string) (domain.Token, error)
	CompareAndSetRedeemed(ctx context.Context, code string, expected, redeemed bool, redeemedAt *time.Time) error
	ClearRedemption(ctx context.Context, code string) (domain.Token, error)
}

// ScanService enforces the at-most-once admission contract.
type ScanService struct {
	repo  TokenRepository
	clock clock.Clock
}

func NewScanService(repo TokenRepository, clk clock.Clock) *ScanService {
	return &ScanService{
		repo:  repo,
		clock: clk,
	}
}

type ScanOutcome string

const (
	ScanOutcomeGranted     ScanOutcome = "granted"
	ScanOutcomeAlreadyUsed ScanOutcome = "already_used"
	ScanOutcomeInvalid     ScanOutcome = "invalid"
)

type ScanResult struct {
	Outcome ScanOutcome
	Token   *domain.Token
}

// Scan redeems code at most once. Under a race between two simultaneous scans
// of the same code exactly one gets Granted; the loser's conflict collapses
// into AlreadyUsed through a single re-read, never a retry loop.
func (s *ScanService) Scan(ctx context.Context, code string) (ScanResult, error) {
	if code == "" {
		return ScanResult{}, domain.ErrCodeRequired
	}

	token, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if err == domain.ErrTokenNotFound {
			return ScanResult{Outcome: ScanOutcomeInvalid}, nil
		}
		return ScanResult{}, err
	}
	if token.Redeemed {
		return ScanResult{Outcome: ScanOutcomeAlreadyUsed, Token: &token}, nil
	}

	redeemedAt := s.clock.Now()
	err = s.repo.CompareAndSetRedeemed(ctx, code, false, true, &redeemedAt)
	switch err {
	case nil:
		token.Redeemed = true
		token.RedeemedAt = &redeemedAt
		return ScanResult{Outcome: ScanOutcomeGranted, Token: &token}, nil
	case domain.ErrRedeemConflict:
		// The winner already holds the terminal state; report it.
		current, err := s.repo.FindByCode(ctx, code)
		if err != nil {
			if err == domain.ErrTokenNotFound {
				return ScanResult{Outcome: ScanOutcomeInvalid}, nil
			}
			return ScanResult{}, err
		}
		return ScanResult{Outcome: ScanOutcomeAlreadyUsed, Token: &current}, nil
	case domain.ErrTokenNotFound:
		return ScanResult{Outcome: ScanOutcomeInvalid}, nil
	default:
		return ScanResult{}, err
	}
}

type ResetOutcome string

const (
	ResetOutcomeReset    ResetOutcome = "reset"
	ResetOutcomeNotFound ResetOutcome = "not_found"
)

type ResetResult struct {
	Outcome ResetOutcome
	Token   *domain.Token
}

// Reset returns a token to its unredeemed state so it can be used again.
// It is an unconditional overwrite: against a concurrent scan the composition
// is last-write-wins.
func (s *ScanService) Reset(ctx context.Context, code string) (ResetResult, error) {
	if code == "" {
		return ResetResult{}, domain.ErrCodeRequired
	}

	token, err := s.repo.ClearRedemption(ctx, code)
	if err != nil {
		if err == domain.ErrTokenNotFound {
			return ResetResult{Outcome: ResetOutcomeNotFound}, nil
		}
		return ResetResult{}, err
	}
	return ResetResult{Outcome: ResetOutcomeReset, Token: &token}, nil
}
