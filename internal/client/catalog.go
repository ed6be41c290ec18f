package client

import (
	"context"
	"net/http"
	"time"

	"github.com/PrincessAkira/RestockIQ/internal/domain"
)

// productPayload mirrors the product list wire format; prices travel as JSON
// numbers and are converted to cents at this edge.
type productPayload struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Code            string     `json:"code"`
	Category        string     `json:"category"`
	Price           float64    `json:"price"`
	Stock           int        `json:"stock"`
	Threshold       int        `json:"threshold"`
	IsBlacklisted   bool       `json:"is_blacklisted"`
	DateAdded       time.Time  `json:"date_added"`
	DateBlacklisted *time.Time `json:"date_blacklisted"`
	DateDeleted     *time.Time `json:"date_deleted"`
}

// ListProducts fetches the current catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var payload []productPayload
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, nil, &payload); err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(payload))
	for _, p := range payload {
		products = append(products, domain.Product{
			ID:              p.ID,
			Name:            p.Name,
			Code:            p.Code,
			Category:        p.Category,
			PriceCents:      domain.CentsFromFloat(p.Price),
			Stock:           p.Stock,
			Threshold:       p.Threshold,
			IsBlacklisted:   p.IsBlacklisted,
			DateAdded:       p.DateAdded,
			DateBlacklisted: p.DateBlacklisted,
			DateDeleted:     p.DateDeleted,
		})
	}
	return products, nil
}
