package auditlog

import (
	"context"

	"github.com/PrincessAkira/RestockIQ/internal/domain"
)

// Repository appends and reads audit-log entries.
type Repository interface {
	Append(ctx context.Context, entry domain.AuditLog) error
	List(ctx context.Context) ([]domain.AuditLog, error)
}
