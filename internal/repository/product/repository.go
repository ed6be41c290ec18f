package product

import (
	"context"

	"github.com/PrincessAkira/RestockIQ/internal/domain"
)

// UpdateInput carries the mutable catalog fields of a product. Nil pointers
// leave the column untouched.
type UpdateInput struct {
	Name       *string
	Code       *string
	Category   *string
	PriceCents *domain.Cents
}

// StockInput carries a stock/threshold update.
type StockInput struct {
	Stock     *int
	Threshold *int
}

// Repository persists and fetches products.
type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id int64, in UpdateInput) (*domain.Product, error)
	UpdateStock(ctx context.Context, id int64, in StockInput) (*domain.Product, error)
	SoftDelete(ctx context.Context, id int64) error
	SetBlacklisted(ctx context.Context, id int64, blacklisted bool) (*domain.Product, error)
}
