package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zeeshan-nvmx/event-access-manager/internal/domain"
)

type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

func (r *TokenRepository) FindByCode(ctx context.Context, code string) (domain.Token, error) {
	const query = `SELECT code, sequence_number, category, used, used_at FROM tokens WHERE code = $1`
	return scanToken(r.pool.QueryRow(ctx, query, code), "find token by code")
}

func (r *TokenRepository) FindBySequence(ctx context.Context, sequence int64) (domain.Token, error) {
	const query = `SELECT code, sequence_number, category, used, used_at FROM tokens WHERE sequence_number = $1`
	return scanToken(r.pool.QueryRow(ctx, query, sequence), "find token by sequence")
}

func (r *TokenRepository) ListAll(ctx context.Context) ([]domain.Token, error) {
	const query = `SELECT code, sequence_number, category, used, used_at FROM tokens ORDER BY sequence_number`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	defer rows.Close()

	var tokens []domain.Token
	for rows.Next() {
		var t domain.Token
		if err := rows.Scan(&t.Code, &t.SequenceNumber, &t.Category, &t.Redeemed, &t.RedeemedAt); err != nil {
			return nil, fmt.Errorf("scan token row: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	return tokens, nil
}

// CompareAndSetRedeemed flips the redemption state only when the stored state
// matches expected. The guard and the write are a single statement, so two
// concurrent calls on the same code cannot both observe expected and succeed.
func (r *TokenRepository) CompareAndSetRedeemed(ctx context.Context, code string, expected, redeemed bool, redeemedAt *time.Time) error {
	const stmt = `UPDATE tokens SET used = $3, used_at = $4 WHERE code = $1 AND used = $2`

	tag, err := r.pool.Exec(ctx, stmt, code, expected, redeemed, redeemedAt)
	if err != nil {
		return fmt.Errorf("compare and set token: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Zero rows means either the guard failed or the row is gone.
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tokens WHERE code = $1)`, code).Scan(&exists); err != nil {
		return fmt.Errorf("probe token after conflict: %w", err)
	}
	if !exists {
		return domain.ErrTokenNotFound
	}
	return domain.ErrRedeemConflict
}

// ClearRedemption unconditionally returns the token to its unredeemed state.
// Against a concurrent scan it composes last-write-wins; the two are not
// linearized.
func (r *TokenRepository) ClearRedemption(ctx context.Context, code string) (domain.Token, error) {
	const stmt = `
UPDATE tokens SET used = FALSE, used_at = NULL
WHERE code = $1
RETURNING code, sequence_number, category, used, used_at`

	return scanToken(r.pool.QueryRow(ctx, stmt, code), "clear redemption")
}

func scanToken(row pgx.Row, op string) (domain.Token, error) {
	var t domain.Token
	err := row.Scan(&t.Code, &t.SequenceNumber, &t.Category, &t.Redeemed, &t.RedeemedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Token{}, domain.ErrTokenNotFound
		}
		return domain.Token{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}
