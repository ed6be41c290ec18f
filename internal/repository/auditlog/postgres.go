package auditlog

import (
	"context"
	"io"
	"log"

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

func (r *postgresRepo) Append(ctx context.Context, entry domain.AuditLog) error {
	const q = `INSERT INTO audit_logs (username, action, details) VALUES ($1, $2, $3)`
	if _, err := r.pool.Exec(ctx, q, entry.User, entry.Action, entry.Details); err != nil {
		r.logger.Printf("audit repo: append action=%s error=%v", entry.Action, err)
		return err
	}
	return nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.AuditLog, error) {
	const q = `
SELECT id, username, action, COALESCE(details, ''), timestamp
FROM audit_logs
ORDER BY timestamp DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("audit repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditLog
	for rows.Next() {
		var e domain.AuditLog
		if err := rows.Scan(&e.ID, &e.User, &e.Action, &e.Details, &e.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
