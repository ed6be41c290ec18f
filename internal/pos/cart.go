package pos

import (
	"github.com/shopspring/decimal"

	"github.com/PrincessAkira/RestockIQ/internal/domain"
)

// DefaultTaxRate is the VAT applied to every sale unless the register is
// configured otherwise.
var DefaultTaxRate = decimal.New(15, -2)

// Line is one product in the cart. Quantity never drops below 1; removing a
// product entirely is a separate operation.
type Line struct {
	ProductID int64
	Name      string
	UnitPrice domain.Cents
	Quantity  int
}

// Subtotal is unit price times quantity.
func (l Line) Subtotal() domain.Cents {
	return l.UnitPrice * domain.Cents(l.Quantity)
}

// Totals are derived from the cart on every read, never stored.
type Totals struct {
	Subtotal domain.Cents
	Tax      domain.Cents
	Total    domain.Cents
}

// Cart holds the in-progress selection for one sale. Lines keep insertion
// order; at most one line exists per product.
type Cart struct {
	lines []Line
}

// AddItem appends a line for the product with quantity 1, or increments the
// existing line's quantity.
func (c *Cart) AddItem(p domain.Product) {
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.PriceCents,
		Quantity:  1,
	})
}

// SetQuantity sets the line's quantity, clamping values below 1 to 1.
// Unknown products are ignored.
func (c *Cart) SetQuantity(productID int64, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// RemoveItem drops the line for the product, if present.
func (c *Cart) RemoveItem(productID int64) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Lines returns a copy of the cart's lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Clear removes every line.
func (c *Cart) Clear() {
	c.lines = nil
}

// Totals computes subtotal, tax and total at the given tax rate. It is pure:
// calling it any number of times does not change the cart.
func (c *Cart) Totals(taxRate decimal.Decimal) Totals {
	var subtotal domain.Cents
	for _, l := range c.lines {
		subtotal += l.Subtotal()
	}
	tax := subtotal.MulRate(taxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}
