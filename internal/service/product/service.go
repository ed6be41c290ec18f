package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/PrincessAkira/RestockIQ/internal/domain"
	productrepo "github.com/PrincessAkira/RestockIQ/internal/repository/product"
)

type auditRepo interface {
	Append(ctx context.Context, entry domain.AuditLog) error
}

// Service implements product registration and stock management rules.
type Service struct {
	repo   productrepo.Repository
	audit  auditRepo
	logger *log.Logger
}

// New creates a product Service.
func New(repo productrepo.Repository, audit auditRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, audit: audit, logger: logger}
}

// CreateInput captures a product registration.
type CreateInput struct {
	Name            string  `json:"name"`
	Code            string  `json:"code"`
	Category        string  `json:"category"`
	Price           float64 `json:"price"`
	Stock           int     `json:"stock"`
	Threshold       int     `json:"threshold"`
	ReorderLeadTime int     `json:"reorder_lead_time"`
	SafetyStock     int     `json:"safety_stock"`
}

// List returns every product, active or not; the caller decides what to show.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// Get fetches one product.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Create registers a new product.
func (s *Service) Create(ctx context.Context, in CreateInput, actor string) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.New("name required")
	}
	if in.Price < 0 {
		return nil, errors.New("price must not be negative")
	}
	if in.Stock < 0 || in.Threshold < 0 {
		return nil, errors.New("stock and threshold must not be negative")
	}
	leadTime := in.ReorderLeadTime
	if leadTime <= 0 {
		leadTime = 3
	}
	safety := in.SafetyStock
	if safety <= 0 {
		safety = 10
	}

	created, err := s.repo.Create(ctx, domain.Product{
		Name:            name,
		Code:            strings.TrimSpace(in.Code),
		Category:        strings.TrimSpace(in.Category),
		PriceCents:      domain.CentsFromFloat(in.Price),
		Stock:           in.Stock,
		Threshold:       in.Threshold,
		ReorderLeadTime: leadTime,
		SafetyStock:     safety,
	})
	if err != nil {
		return nil, err
	}
	s.appendAudit(ctx, actor, "Product Registered", fmt.Sprintf("%s (id %d)", created.Name, created.ID))
	return created, nil
}

// UpdateInput captures a catalog edit; nil fields stay unchanged.
type UpdateInput struct {
	Name     *string  `json:"name"`
	Code     *string  `json:"code"`
	Category *string  `json:"category"`
	Price    *float64 `json:"price"`
}

// Update edits a product's catalog fields.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput, actor string) (*domain.Product, error) {
	repoIn := productrepo.UpdateInput{
		Name:     in.Name,
		Code:     in.Code,
		Category: in.Category,
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, errors.New("name required")
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, errors.New("price must not be negative")
		}
		cents := domain.CentsFromFloat(*in.Price)
		repoIn.PriceCents = &cents
	}
	updated, err := s.repo.Update(ctx, id, repoIn)
	if err != nil {
		return nil, err
	}
	s.appendAudit(ctx, actor, "Product Updated", fmt.Sprintf("%s (id %d)", updated.Name, updated.ID))
	return updated, nil
}

// Delete soft-deletes a product; it stops being sellable but history keeps it.
func (s *Service) Delete(ctx context.Context, id int64, actor string) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.appendAudit(ctx, actor, "Product Deleted", fmt.Sprintf("product id %d soft-deleted", id))
	return nil
}

// SetBlacklisted toggles the product's blacklist flag.
func (s *Service) SetBlacklisted(ctx context.Context, id int64, value bool, actor string) (*domain.Product, error) {
	updated, err := s.repo.SetBlacklisted(ctx, id, value)
	if err != nil {
		return nil, err
	}
	action := "Product Blacklisted"
	if !value {
		action = "Product Unblacklisted"
	}
	s.appendAudit(ctx, actor, action, fmt.Sprintf("%s (id %d)", updated.Name, updated.ID))
	return updated, nil
}

// StockInput carries a stock/threshold change; nil fields stay unchanged.
type StockInput struct {
	Stock     *int `json:"stock"`
	Threshold *int `json:"threshold"`
}

// UpdateStock changes stock and/or threshold for an active product, logging a
// low-stock warning when the result sits at or below the threshold.
func (s *Service) UpdateStock(ctx context.Context, id int64, in StockInput, actor string) (*domain.Product, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Active() {
		return nil, fmt.Errorf("%s: %w", current.Name, domain.ErrInactiveProduct)
	}
	if in.Stock == nil && in.Threshold == nil {
		return current, nil
	}
	if in.Stock != nil && *in.Stock < 0 {
		return nil, errors.New("stock must not be negative")
	}
	if in.Threshold != nil && *in.Threshold < 0 {
		return nil, errors.New("threshold must not be negative")
	}

	updated, err := s.repo.UpdateStock(ctx, id, productrepo.StockInput{Stock: in.Stock, Threshold: in.Threshold})
	if err != nil {
		return nil, err
	}
	if updated.Stock <= updated.Threshold {
		s.logger.Printf("low stock for %q: %d (threshold %d)", updated.Name, updated.Stock, updated.Threshold)
	}

	var fields []string
	if in.Stock != nil {
		fields = append(fields, "stock")
	}
	if in.Threshold != nil {
		fields = append(fields, "threshold")
	}
	s.appendAudit(ctx, actor, "Stock Update", fmt.Sprintf("%s: updated %s", updated.Name, strings.Join(fields, ", ")))
	return updated, nil
}

// BatchStockItem is one entry of a batch stock update.
type BatchStockItem struct {
	ID        int64 `json:"id"`
	Stock     *int  `json:"stock"`
	Threshold *int  `json:"threshold"`
}

// BatchUpdateStock applies stock updates in bulk, silently skipping unknown
// or inactive products, and reports how many were updated.
func (s *Service) BatchUpdateStock(ctx context.Context, items []BatchStockItem, actor string) (int, error) {
	updated := 0
	for _, item := range items {
		_, err := s.UpdateStock(ctx, item.ID, StockInput{Stock: item.Stock, Threshold: item.Threshold}, actor)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInactiveProduct) {
				continue
			}
			return updated, err
		}
		updated++
	}
	return updated, nil
}

func (s *Service) appendAudit(ctx context.Context, actor, action, details string) {
	if actor == "" {
		actor = "admin"
	}
	if err := s.audit.Append(ctx, domain.AuditLog{User: actor, Action: action, Details: details}); err != nil {
		s.logger.Printf("product service: audit append failed: %v", err)
	}
}
