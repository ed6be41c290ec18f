package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/PrincessAkira/RestockIQ/internal/domain"
)

type productSeed struct {
	code      string
	name      string
	category  string
	price     domain.Cents
	stock     int
	threshold int
}

var products = []productSeed{
	{"MILK-1L", "Milk 1L", "Dairy", 115, 40, 10},
	{"BRD-700", "Bread 700g", "Bakery", 250, 25, 8},
	{"EGG-12", "Eggs (dozen)", "Dairy", 349, 30, 6},
	{"RICE-2K", "Rice 2kg", "Grains", 520, 18, 5},
	{"SUG-1K", "Sugar 1kg", "Pantry", 199, 22, 5},
	{"OIL-750", "Cooking Oil 750ml", "Pantry", 430, 15, 4},
	{"SOAP-B", "Bath Soap", "Household", 89, 50, 12},
}

type userSeed struct {
	name     string
	email    string
	password string
	role     string
}

var users = []userSeed{
	{"Store Admin", "admin@restockiq.local", "changeme-admin", domain.RoleAdmin},
	{"Thandi M", "thandi@restockiq.local", "changeme-cashier", domain.RoleCashier},
}

// Apply inserts demo products and operator accounts. Safe to run repeatedly.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	for _, p := range products {
		const q = `
INSERT INTO products (code, name, category, price_cents, stock, threshold)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (code) DO NOTHING`
		if _, err := pool.Exec(ctx, q, p.code, p.name, p.category, p.price, p.stock, p.threshold); err != nil {
			return fmt.Errorf("seed product %s: %w", p.code, err)
		}
	}

	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", u.email, err)
		}
		const q = `
INSERT INTO users (name, email, password_hash, role)
VALUES ($1, $2, $3, $4)
ON CONFLICT (email) DO NOTHING`
		if _, err := pool.Exec(ctx, q, u.name, u.email, string(hash), u.role); err != nil {
			return fmt.Errorf("seed user %s: %w", u.email, err)
		}
	}
	return nil
}
