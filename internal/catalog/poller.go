// Package catalog keeps a periodically refreshed, read-only snapshot of the
// product list for the register's search box and product grid.
package catalog

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/PrincessAkira/RestockIQ/internal/domain"
)

// Lister is the read side of the product catalog service.
type Lister interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// DefaultInterval matches the original register's 10-second refresh.
const DefaultInterval = 10 * time.Second

// Poller refreshes the catalog on a fixed interval. It never mutates anything
// beyond its own snapshot, so cart state is untouched by a refresh landing
// mid-checkout.
type Poller struct {
	source   Lister
	interval time.Duration
	logger   *log.Logger

	mu       sync.RWMutex
	products []domain.Product
	lastSync time.Time
}

// NewPoller builds a poller; a zero interval falls back to DefaultInterval
// and a nil logger discards.
func NewPoller(source Lister, interval time.Duration, logger *log.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Poller{source: source, interval: interval, logger: logger}
}

// Run refreshes immediately, then on every tick until the context is
// cancelled. A failed refresh keeps the previous snapshot.
func (p *Poller) Run(ctx context.Context) {
	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	products, err := p.source.ListProducts(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Printf("catalog refresh failed: %v", err)
		}
		return
	}
	p.mu.Lock()
	p.products = products
	p.lastSync = time.Now()
	p.mu.Unlock()
	p.logger.Printf("catalog refreshed, %d products", len(products))
}

// Products returns a copy of the current snapshot.
func (p *Poller) Products() []domain.Product {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.Product, len(p.products))
	copy(out, p.products)
	return out
}

// Get looks a product up by id in the snapshot.
func (p *Poller) Get(id int64) (domain.Product, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, prod := range p.products {
		if prod.ID == id {
			return prod, true
		}
	}
	return domain.Product{}, false
}

// Search filters the snapshot by a case-insensitive match on name or code.
// An empty query returns everything.
func (p *Poller) Search(query string) []domain.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return p.Products()
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []domain.Product
	for _, prod := range p.products {
		if strings.Contains(strings.ToLower(prod.Name), query) ||
			(prod.Code != "" && strings.Contains(strings.ToLower(prod.Code), query)) {
			out = append(out, prod)
		}
	}
	return out
}

// LastSync reports when the snapshot was last refreshed successfully.
func (p *Poller) LastSync() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastSync
}
