package sale

import (
	"context"

	"github.com/PrincessAkira/RestockIQ/internal/domain"
)

// RecordLine is one cart line to record.
type RecordLine struct {
	ProductID  int64
	Quantity   int
	PriceCents domain.Cents
}

// RecordInput captures one checkout submission.
type RecordInput struct {
	IdempotencyKey *string
	Cashier        string
	Currency       string
	Method         string
	Lines          []RecordLine
}

// Repository persists sale groups. Record and Reverse run atomically: stock
// and sale rows move together or not at all.
type Repository interface {
	Record(ctx context.Context, in RecordInput) (*domain.SaleGroup, error)
	Reverse(ctx context.Context, id string) (*domain.SaleGroup, error)
	GetByID(ctx context.Context, id string) (*domain.SaleGroup, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.SaleGroup, error)
	ListRecent(ctx context.Context, limit int) ([]domain.SaleGroup, error)
}
