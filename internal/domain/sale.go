package domain

import "time"

// SaleLine is one sold product within a sale group.
type SaleLine struct {
	ID          int64     `json:"id"`
	GroupID     string    `json:"groupId"`
	ProductID   int64     `json:"productId"`
	ProductName string    `json:"productName"`
	Quantity    int       `json:"quantity"`
	PriceCents  Cents     `json:"-"`
	Timestamp   time.Time `json:"timestamp"`
}

// SaleGroup is one recorded checkout: every line sold in a single
// POST /api/sales call, reversed as a unit.
type SaleGroup struct {
	ID             string     `json:"id"`
	IdempotencyKey *string    `json:"-"`
	Cashier        string     `json:"cashier"`
	TotalCents     Cents      `json:"-"`
	Currency       string     `json:"currency"`
	Method         string     `json:"method"`
	Reversed       bool       `json:"reversed"`
	CreatedAt      time.Time  `json:"createdAt"`
	ReversedAt     *time.Time `json:"reversedAt,omitempty"`
	Lines          []SaleLine `json:"lines,omitempty"`
}
