package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/zeeshan-nvmx/event-access-manager/internal/domain"
	"github.com/zeeshan-nvmx/event-access-manager/internal/testutil"
)

func TestTokenRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewTokenRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("FindByCode returns token and ErrTokenNotFound", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateTokens(t, ctx, pool)
		testutil.InsertToken(t, ctx, pool, domain.Token{Code: "EVT-1", SequenceNumber: 1, Category: "vip"})

		token, err := repo.FindByCode(ctx, "EVT-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token.SequenceNumber != 1 || token.Category != "vip" || token.Redeemed || token.RedeemedAt != nil {
			t.Fatalf("unexpected token: %+v", token)
		}

		if _, err := repo.FindByCode(ctx, "missing"); err != domain.ErrTokenNotFound {
			t.Fatalf("expected ErrTokenNotFound, got %v", err)
		}
	})

	t.Run("FindBySequence returns token", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateTokens(t, ctx, pool)
		testutil.InsertToken(t, ctx, pool, domain.Token{Code: "EVT-2", SequenceNumber: 2})

		token, err := repo.FindBySequence(ctx, 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token.Code != "EVT-2" {
			t.Fatalf("unexpected token: %+v", token)
		}

		if _, err := repo.FindBySequence(ctx, 999); err != domain.ErrTokenNotFound {
			t.Fatalf("expected ErrTokenNotFound, got %v", err)
		}
	})

	t.Run("ListAll orders by sequence", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateTokens(t, ctx, pool)
		usedAt := time.Now().UTC().Truncate(time.Millisecond)
		testutil.InsertToken(t, ctx, pool, domain.Token{Code: "EVT-B", SequenceNumber: 20, Redeemed: true, RedeemedAt: &usedAt})
		testutil.InsertToken(t, ctx, pool, domain.Token{Code: "EVT-A", SequenceNumber: 10})

		tokens, err := repo.ListAll(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tokens) != 2 {
			t.Fatalf("expected 2 tokens, got %d", len(tokens))
		}
		if tokens[0].Code != "EVT-A" || tokens[1].Code != "EVT-B" {
			t.Fatalf("expected sequence order, got %+v", tokens)
		}
		if tokens[1].RedeemedAt == nil || !tokens[1].RedeemedAt.Equal(usedAt) {
			t.Fatalf("expected redeemed_at %v, got %v", usedAt, tokens[1].RedeemedAt)
		}
	})

	t.Run("CompareAndSetRedeemed success, conflict and not found", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateTokens(t, ctx, pool)
		testutil.InsertToken(t, ctx, pool, domain.Token{Code: "EVT-3", SequenceNumber: 3})
		now := time.Now().UTC()

		if err := repo.CompareAndSetRedeemed(ctx, "EVT-3", false, true, &now); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		token, err := repo.FindByCode(ctx, "EVT-3")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !token.Redeemed || token.RedeemedAt == nil {
			t.Fatalf("expected redeemed token, got %+v", token)
		}

		if err := repo.CompareAndSetRedeemed(ctx, "EVT-3", false, true, &now); err != domain.ErrRedeemConflict {
			t.Fatalf("expected ErrRedeemConflict, got %v", err)
		}
		if err := repo.CompareAndSetRedeemed(ctx, "missing", false, true, &now); err != domain.ErrTokenNotFound {
			t.Fatalf("expected ErrTokenNotFound, got %v", err)
		}
	})

	t.Run("concurrent CAS grants exactly once", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateTokens(t, ctx, pool)
		testutil.InsertToken(t, ctx, pool, domain.Token{Code: "EVT-RACE", SequenceNumber: 4})

		const attempts = 8
		errs := make(chan error, attempts)
		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				now := time.Now().UTC()
				errs <- repo.CompareAndSetRedeemed(ctx, "EVT-RACE", false, true, &now)
			}()
		}
		wg.Wait()
		close(errs)

		succeeded, conflicted := 0, 0
		for err := range errs {
			switch err {
			case nil:
				succeeded++
			case domain.ErrRedeemConflict:
				conflicted++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if succeeded != 1 {
			t.Fatalf("expected exactly one successful CAS, got %d", succeeded)
		}
		if conflicted != attempts-1 {
			t.Fatalf("expected %d conflicts, got %d", attempts-1, conflicted)
		}
	})

	t.Run("ClearRedemption resets and reports missing codes", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateTokens(t, ctx, pool)
		usedAt := time.Now().UTC()
		testutil.InsertToken(t, ctx, pool, domain.Token{Code: "EVT-5", SequenceNumber: 5, Redeemed: true, RedeemedAt: &usedAt})

		token, err := repo.ClearRedemption(ctx, "EVT-5")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token.Redeemed || token.RedeemedAt != nil {
			t.Fatalf("expected cleared token, got %+v", token)
		}

		// Idempotent on an already-unredeemed token.
		if _, err := repo.ClearRedemption(ctx, "EVT-5"); err != nil {
			t.Fatalf("expected no error on repeat reset, got %v", err)
		}

		if _, err := repo.ClearRedemption(ctx, "missing"); err != domain.ErrTokenNotFound {
			t.Fatalf("expected ErrTokenNotFound, got %v", err)
		}
	})
}
