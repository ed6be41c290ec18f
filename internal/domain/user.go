package domain

// Operator roles.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// User is a store operator (admin or cashier).
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}
