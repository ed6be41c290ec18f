package sale

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PrincessAkira/RestockIQ/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Record(ctx context.Context, in RecordInput) (*domain.SaleGroup, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	groupID := uuid.NewString()
	var total domain.Cents
	for _, l := range in.Lines {
		total += l.PriceCents * domain.Cents(l.Quantity)
	}

	const insertGroup = `
INSERT INTO sale_groups (id, idempotency_key, cashier, total_cents, currency, method)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at`
	group := domain.SaleGroup{
		ID:             groupID,
		IdempotencyKey: in.IdempotencyKey,
		Cashier:        in.Cashier,
		TotalCents:     total,
		Currency:       in.Currency,
		Method:         in.Method,
	}
	if err := tx.QueryRow(ctx, insertGroup,
		groupID, in.IdempotencyKey, in.Cashier, total, in.Currency, in.Method).Scan(&group.CreatedAt); err != nil {
		return nil, err
	}

	for _, l := range in.Lines {
		// Row lock so concurrent sales can't drive stock negative.
		const lockProduct = `
SELECT name, stock, is_blacklisted, date_deleted IS NOT NULL
FROM products WHERE id = $1 FOR UPDATE`
		var (
			name        string
			stock       int
			blacklisted bool
			deleted     bool
		)
		err := tx.QueryRow(ctx, lockProduct, l.ProductID).Scan(&name, &stock, &blacklisted, &deleted)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("product %d: %w", l.ProductID, domain.ErrNotFound)
			}
			return nil, err
		}
		if blacklisted || deleted {
			return nil, fmt.Errorf("%s: %w", name, domain.ErrInactiveProduct)
		}
		if stock < l.Quantity {
			return nil, fmt.Errorf("%w for %s", domain.ErrInsufficientStock, name)
		}

		if _, err := tx.Exec(ctx, `UPDATE products SET stock = stock - $2 WHERE id = $1`, l.ProductID, l.Quantity); err != nil {
			return nil, err
		}

		const insertLine = `
INSERT INTO sales (group_id, product_id, product_name, quantity, price_cents)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, timestamp`
		line := domain.SaleLine{
			GroupID:     groupID,
			ProductID:   l.ProductID,
			ProductName: name,
			Quantity:    l.Quantity,
			PriceCents:  l.PriceCents,
		}
		if err := tx.QueryRow(ctx, insertLine, groupID, l.ProductID, name, l.Quantity, l.PriceCents).Scan(&line.ID, &line.Timestamp); err != nil {
			return nil, err
		}
		group.Lines = append(group.Lines, line)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("sale repo: recorded group=%s lines=%d total=%s", groupID, len(group.Lines), total)
	return &group, nil
}

func (r *postgresRepo) Reverse(ctx context.Context, id string) (*domain.SaleGroup, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const lockGroup = `
SELECT reversed FROM sale_groups WHERE id = $1 FOR UPDATE`
	var reversed bool
	if err := tx.QueryRow(ctx, lockGroup, id).Scan(&reversed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if reversed {
		return nil, domain.ErrAlreadyReversed
	}

	const restore = `
UPDATE products p SET stock = p.stock + s.quantity
FROM sales s
WHERE s.group_id = $1 AND s.product_id = p.id`
	if _, err := tx.Exec(ctx, restore, id); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE sale_groups SET reversed = TRUE, reversed_at = now() WHERE id = $1`, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("sale repo: reversed group=%s", id)
	return r.GetByID(ctx, id)
}

const groupColumns = `
g.id, g.idempotency_key, g.cashier, g.total_cents, g.currency, g.method, g.reversed, g.created_at, g.reversed_at`

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.SaleGroup, error) {
	q := `SELECT ` + groupColumns + ` FROM sale_groups g WHERE g.id = $1`
	return r.getOne(ctx, q, id)
}

func (r *postgresRepo) GetByIdempotencyKey(ctx context.Context, key string) (*domain.SaleGroup, error) {
	q := `SELECT ` + groupColumns + ` FROM sale_groups g WHERE g.idempotency_key = $1`
	return r.getOne(ctx, q, key)
}

func (r *postgresRepo) getOne(ctx context.Context, q string, arg interface{}) (*domain.SaleGroup, error) {
	var g domain.SaleGroup
	err := r.pool.QueryRow(ctx, q, arg).Scan(
		&g.ID, &g.IdempotencyKey, &g.Cashier, &g.TotalCents, &g.Currency, &g.Method,
		&g.Reversed, &g.CreatedAt, &g.ReversedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	lines, err := r.lines(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	g.Lines = lines
	return &g, nil
}

func (r *postgresRepo) lines(ctx context.Context, groupID string) ([]domain.SaleLine, error) {
	// product_name is a snapshot taken at sale time; no join so a renamed
	// product does not rewrite old receipts.
	const q = `
SELECT s.id, s.group_id, s.product_id, s.product_name, s.quantity, s.price_cents, s.timestamp
FROM sales s
WHERE s.group_id = $1
ORDER BY s.id`
	rows, err := r.pool.Query(ctx, q, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SaleLine
	for rows.Next() {
		var l domain.SaleLine
		if err := rows.Scan(&l.ID, &l.GroupID, &l.ProductID, &l.ProductName, &l.Quantity, &l.PriceCents, &l.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *postgresRepo) ListRecent(ctx context.Context, limit int) ([]domain.SaleGroup, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT ` + groupColumns + ` FROM sale_groups g ORDER BY g.created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		r.logger.Printf("sale repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var out []domain.SaleGroup
	for rows.Next() {
		var g domain.SaleGroup
		if err := rows.Scan(
			&g.ID, &g.IdempotencyKey, &g.Cashier, &g.TotalCents, &g.Currency, &g.Method,
			&g.Reversed, &g.CreatedAt, &g.ReversedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
