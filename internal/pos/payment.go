package pos

import (
	"errors"

	"github.com/PrincessAkira/RestockIQ/internal/domain"
)

// Currency codes accepted at the register.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyZAR Currency = "ZAR"
	CurrencyZiG Currency = "ZiG"
)

// Method is how the customer pays.
type Method string

const (
	MethodCash        Method = "Cash"
	MethodCard        Method = "Card"
	MethodMobileMoney Method = "MobileMoney"
)

// ErrInsufficientPayment signals that the tendered amount does not cover the
// total. Checkout is blocked while this holds.
var ErrInsufficientPayment = errors.New("amount tendered is less than total")

// Payment is the operator's payment entry for one checkout.
type Payment struct {
	Tendered domain.Cents
	Currency Currency
	Method   Method
}

// ValidatePayment returns the change due (tendered minus total). A negative
// change is returned alongside ErrInsufficientPayment.
func ValidatePayment(tendered, total domain.Cents) (domain.Cents, error) {
	change := tendered - total
	if change < 0 {
		return change, ErrInsufficientPayment
	}
	return change, nil
}
