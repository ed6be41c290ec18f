package sale

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/PrincessAkira/RestockIQ/internal/domain"
	salerepo "github.com/PrincessAkira/RestockIQ/internal/repository/sale"
)

var (
	// ErrEmptyCart rejects a submission with no lines.
	ErrEmptyCart = errors.New("cart cannot be empty")
	// ErrInvalidQuantity rejects a non-positive line quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")
)

type saleRepo interface {
	Record(ctx context.Context, in salerepo.RecordInput) (*domain.SaleGroup, error)
	Reverse(ctx context.Context, id string) (*domain.SaleGroup, error)
	GetByID(ctx context.Context, id string) (*domain.SaleGroup, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.SaleGroup, error)
	ListRecent(ctx context.Context, limit int) ([]domain.SaleGroup, error)
}

type auditRepo interface {
	Append(ctx context.Context, entry domain.AuditLog) error
}

// Service records and reverses sales.
type Service struct {
	repo   saleRepo
	audit  auditRepo
	logger *log.Logger
}

// New creates a sale Service.
func New(repo salerepo.Repository, audit auditRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, audit: audit, logger: logger}
}

// ItemInput is one cart line as posted by the register.
type ItemInput struct {
	ID       int64   `json:"id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// ProcessInput is one checkout submission.
type ProcessInput struct {
	Cart           []ItemInput
	Currency       string
	Method         string
	Cashier        string
	IdempotencyKey string
}

// Process validates and records a sale. When the idempotency key was already
// recorded, the stored group is returned with replayed=true and nothing is
// charged twice.
func (s *Service) Process(ctx context.Context, in ProcessInput) (group *domain.SaleGroup, replayed bool, err error) {
	if len(in.Cart) == 0 {
		return nil, false, ErrEmptyCart
	}
	for _, item := range in.Cart {
		if item.Quantity <= 0 {
			return nil, false, fmt.Errorf("%w for product %d", ErrInvalidQuantity, item.ID)
		}
	}

	if in.IdempotencyKey != "" {
		existing, err := s.repo.GetByIdempotencyKey(ctx, in.IdempotencyKey)
		if err == nil {
			s.logger.Printf("sale service: replayed idempotency key %s -> group %s", in.IdempotencyKey, existing.ID)
			return existing, true, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, false, err
		}
	}

	rec := salerepo.RecordInput{
		Cashier:  in.Cashier,
		Currency: in.Currency,
		Method:   in.Method,
	}
	if in.IdempotencyKey != "" {
		key := in.IdempotencyKey
		rec.IdempotencyKey = &key
	}
	for _, item := range in.Cart {
		rec.Lines = append(rec.Lines, salerepo.RecordLine{
			ProductID:  item.ID,
			Quantity:   item.Quantity,
			PriceCents: domain.CentsFromFloat(item.Price),
		})
	}

	group, err = s.repo.Record(ctx, rec)
	if err != nil {
		return nil, false, err
	}

	s.appendAudit(ctx, in.Cashier, "Sale", fmt.Sprintf("sale %s: %d line(s), total %s %s", group.ID, len(group.Lines), group.TotalCents, group.Currency))
	return group, false, nil
}

// Reverse undoes a recorded sale and restores its stock.
func (s *Service) Reverse(ctx context.Context, id, actor string) (*domain.SaleGroup, error) {
	group, err := s.repo.Reverse(ctx, id)
	if err != nil {
		return nil, err
	}
	s.appendAudit(ctx, actor, "Sale Reversal", fmt.Sprintf("sale %s reversed, stock restored", id))
	return group, nil
}

// Recent lists the latest recorded sale groups.
func (s *Service) Recent(ctx context.Context, limit int) ([]domain.SaleGroup, error) {
	return s.repo.ListRecent(ctx, limit)
}

// Get fetches one sale group with its lines.
func (s *Service) Get(ctx context.Context, id string) (*domain.SaleGroup, error) {
	return s.repo.GetByID(ctx, id)
}

// appendAudit is best effort: a failed audit write never fails the sale.
func (s *Service) appendAudit(ctx context.Context, actor, action, details string) {
	if actor == "" {
		actor = "Cashier"
	}
	if err := s.audit.Append(ctx, domain.AuditLog{User: actor, Action: action, Details: details}); err != nil {
		s.logger.Printf("sale service: audit append failed: %v", err)
	}
}
