package product

import (
	"context"
	"errors"
	"io"
	"log"

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

const productColumns = `
id, name, COALESCE(code, ''), COALESCE(category, ''), price_cents, stock, threshold,
last_restocked, reorder_lead_time, safety_stock, is_blacklisted, date_added, date_blacklisted, date_deleted`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Code, &p.Category, &p.PriceCents, &p.Stock, &p.Threshold,
		&p.LastRestocked, &p.ReorderLeadTime, &p.SafetyStock, &p.IsBlacklisted,
		&p.DateAdded, &p.DateBlacklisted, &p.DateDeleted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products ORDER BY id`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.Printf("product repo: get id=%d error=%v", id, err)
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	q := `
INSERT INTO products (name, code, category, price_cents, stock, threshold, reorder_lead_time, safety_stock)
VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6, $7, $8)
RETURNING ` + productColumns
	created, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.Name, p.Code, p.Category, p.PriceCents, p.Stock, p.Threshold, p.ReorderLeadTime, p.SafetyStock))
	if err != nil {
		r.logger.Printf("product repo: create name=%s error=%v", p.Name, err)
		return nil, err
	}
	r.logger.Printf("product repo: created id=%d name=%s", created.ID, created.Name)
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, id int64, in UpdateInput) (*domain.Product, error) {
	q := `
UPDATE products SET
    name = COALESCE($2, name),
    code = COALESCE($3, code),
    category = COALESCE($4, category),
    price_cents = COALESCE($5, price_cents)
WHERE id = $1
RETURNING ` + productColumns
	var price *int64
	if in.PriceCents != nil {
		v := int64(*in.PriceCents)
		price = &v
	}
	updated, err := scanProduct(r.pool.QueryRow(ctx, q, id, in.Name, in.Code, in.Category, price))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.Printf("product repo: update id=%d error=%v", id, err)
		}
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) UpdateStock(ctx context.Context, id int64, in StockInput) (*domain.Product, error) {
	q := `
UPDATE products SET
    stock = COALESCE($2, stock),
    threshold = COALESCE($3, threshold),
    last_restocked = CASE WHEN $2 IS NOT NULL THEN now() ELSE last_restocked END
WHERE id = $1
RETURNING ` + productColumns
	updated, err := scanProduct(r.pool.QueryRow(ctx, q, id, in.Stock, in.Threshold))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.Printf("product repo: stock update id=%d error=%v", id, err)
		}
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) SoftDelete(ctx context.Context, id int64) error {
	const q = `UPDATE products SET date_deleted = now() WHERE id = $1 AND date_deleted IS NULL`
	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		r.logger.Printf("product repo: delete id=%d error=%v", id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("product repo: soft-deleted id=%d", id)
	return nil
}

func (r *postgresRepo) SetBlacklisted(ctx context.Context, id int64, blacklisted bool) (*domain.Product, error) {
	q := `
UPDATE products SET
    is_blacklisted = $2,
    date_blacklisted = CASE WHEN $2 THEN now() ELSE NULL END
WHERE id = $1
RETURNING ` + productColumns
	updated, err := scanProduct(r.pool.QueryRow(ctx, q, id, blacklisted))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.Printf("product repo: blacklist id=%d error=%v", id, err)
		}
		return nil, err
	}
	r.logger.Printf("product repo: blacklist id=%d value=%t", id, blacklisted)
	return updated, nil
}
