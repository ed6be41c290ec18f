package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PrincessAkira/RestockIQ/internal/domain"
	authsvc "github.com/PrincessAkira/RestockIQ/internal/service/auth"
	salesvc "github.com/PrincessAkira/RestockIQ/internal/service/sale"
)

type productResponse struct {
	ID            int64   `json:"id"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Price         float64 `json:"price"`
	Stock         int     `json:"stock"`
	Threshold     int     `json:"threshold"`
	LeadTimeDays  int     `json:"leadTimeDays"`
	SafetyStock   int     `json:"safetyStock"`
	IsBlacklisted bool    `json:"isBlacklisted"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		Category:      p.Category,
		Price:         p.PriceCents.Float(),
		Stock:         p.Stock,
		Threshold:     p.Threshold,
		LeadTimeDays:  p.ReorderLeadTime,
		SafetyStock:   p.SafetyStock,
		IsBlacklisted: p.IsBlacklisted,
	}
}

type saleLineResponse struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type saleResponse struct {
	ID        string             `json:"id"`
	Cashier   string             `json:"cashier"`
	Total     float64            `json:"total"`
	Currency  string             `json:"currency"`
	Method    string             `json:"method"`
	Reversed  bool               `json:"reversed"`
	CreatedAt string             `json:"createdAt"`
	Lines     []saleLineResponse `json:"lines"`
}

func toSaleResponse(g domain.SaleGroup) saleResponse {
	out := saleResponse{
		ID:        g.ID,
		Cashier:   g.Cashier,
		Total:     g.TotalCents.Float(),
		Currency:  g.Currency,
		Method:    g.Method,
		Reversed:  g.Reversed,
		CreatedAt: g.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Lines:     make([]saleLineResponse, 0, len(g.Lines)),
	}
	for _, l := range g.Lines {
		out.Lines = append(out.Lines, saleLineResponse{
			ProductID: l.ProductID,
			Name:      l.ProductName,
			Quantity:  l.Quantity,
			Price:     l.PriceCents.Float(),
		})
	}
	return out
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
}

func statusFromErr(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInactiveProduct):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrAlreadyReversed), errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, salesvc.ErrEmptyCart),
		errors.Is(err, salesvc.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, authsvc.ErrInvalidCredentials), errors.Is(err, authsvc.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
