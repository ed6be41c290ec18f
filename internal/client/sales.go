package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PrincessAkira/RestockIQ/internal/pos"
)

type saleItem struct {
	ID       int64   `json:"id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type saleRequest struct {
	Cart     []saleItem `json:"cart"`
	Currency string     `json:"currency,omitempty"`
	Method   string     `json:"method,omitempty"`
	Cashier  string     `json:"cashier,omitempty"`
}

type saleResponse struct {
	Message string `json:"message"`
	SaleID  string `json:"saleId"`
}

// SubmitSale posts a checkout snapshot to the sales service. It satisfies
// pos.SalesService; the idempotency key travels as a request header so a
// retried submission is recorded at most once.
func (c *Client) SubmitSale(ctx context.Context, sub pos.SaleSubmission) (string, error) {
	req := saleRequest{
		Cart:     make([]saleItem, 0, len(sub.Lines)),
		Currency: string(sub.Currency),
		Method:   string(sub.Method),
		Cashier:  sub.Cashier,
	}
	for _, l := range sub.Lines {
		req.Cart = append(req.Cart, saleItem{
			ID:       l.ProductID,
			Quantity: l.Quantity,
			Price:    l.UnitPrice.Float(),
		})
	}

	headers := map[string]string{}
	if sub.IdempotencyKey != "" {
		headers["Idempotency-Key"] = sub.IdempotencyKey
	}

	var resp saleResponse
	if err := c.do(ctx, http.MethodPost, "/api/sales", headers, req, &resp); err != nil {
		return "", err
	}
	return resp.SaleID, nil
}

// ReverseSale undoes a previously recorded sale, restoring stock server-side.
func (c *Client) ReverseSale(ctx context.Context, saleID string) error {
	return c.do(ctx, http.MethodDelete, "/api/sales/"+saleID, nil, nil, nil)
}

// RecentSale is one entry of the register's recent-sales screen.
type RecentSale struct {
	ID        string    `json:"id"`
	Cashier   string    `json:"cashier"`
	Total     float64   `json:"total"`
	Currency  string    `json:"currency"`
	Method    string    `json:"method"`
	Reversed  bool      `json:"reversed"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListSales fetches the most recent sale groups.
func (c *Client) ListSales(ctx context.Context) ([]RecentSale, error) {
	var out []RecentSale
	if err := c.do(ctx, http.MethodGet, "/api/sales", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return out, nil
}
