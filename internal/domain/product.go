package domain

import "time"

type Product struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Code            string     `json:"code,omitempty"`
	Category        string     `json:"category,omitempty"`
	PriceCents      Cents      `json:"-"`
	Stock           int        `json:"stock"`
	Threshold       int        `json:"threshold"`
	LastRestocked   *time.Time `json:"last_restocked,omitempty"`
	ReorderLeadTime int        `json:"reorder_lead_time"`
	SafetyStock     int        `json:"safety_stock"`
	IsBlacklisted   bool       `json:"is_blacklisted"`
	DateAdded       time.Time  `json:"date_added"`
	DateBlacklisted *time.Time `json:"date_blacklisted,omitempty"`
	DateDeleted     *time.Time `json:"date_deleted,omitempty"`
}

// Active reports whether the product may be sold or restocked.
func (p Product) Active() bool {
	return !p.IsBlacklisted && p.DateDeleted == nil
}
