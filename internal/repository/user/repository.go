package user

import (
	"context"

	"github.com/PrincessAkira/RestockIQ/internal/domain"
)

// Repository persists and fetches operators.
type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
