package pos

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PrincessAkira/RestockIQ/internal/domain"
)

// State of the register's checkout cycle.
type State string

const (
	StateEmpty        State = "EMPTY"
	StatePopulated    State = "POPULATED"
	StateSubmitting   State = "SUBMITTING"
	StateReceiptReady State = "RECEIPT_READY"
)

var (
	// ErrEmptyCart blocks checkout of an empty cart unless the register was
	// built with AllowEmptyCart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrCheckoutInFlight rejects a second checkout while one is outstanding.
	ErrCheckoutInFlight = errors.New("checkout already in progress")
	// ErrNoReceipt is returned when no completed sale is ready to show.
	ErrNoReceipt = errors.New("no completed sale")
)

// SaleSubmission is the snapshot handed to the sales service at checkout.
type SaleSubmission struct {
	Lines          []Line
	Totals         Totals
	Currency       Currency
	Method         Method
	Cashier        string
	IdempotencyKey string
}

// SalesService records and reverses sales remotely.
type SalesService interface {
	SubmitSale(ctx context.Context, sub SaleSubmission) (saleID string, err error)
	ReverseSale(ctx context.Context, saleID string) error
}

// Transaction is the immutable receipt of a completed checkout.
type Transaction struct {
	ID        string
	SaleID    string
	Lines     []Line
	Subtotal  domain.Cents
	Tax       domain.Cents
	Total     domain.Cents
	Tendered  domain.Cents
	Change    domain.Cents
	Currency  Currency
	Method    Method
	Cashier   string
	CreatedAt time.Time
}

// Option configures a Register.
type Option func(*Register)

// WithTaxRate overrides the default VAT rate.
func WithTaxRate(rate decimal.Decimal) Option {
	return func(r *Register) { r.taxRate = rate }
}

// WithSession attaches the operator's session. A nil session is valid and
// renders as the placeholder cashier name.
func WithSession(s *Session) Option {
	return func(r *Register) { r.session = s }
}

// AllowEmptyCart permits checkout of an empty cart as an explicit zero-total
// sale. Off by default.
func AllowEmptyCart() Option {
	return func(r *Register) { r.allowEmpty = true }
}

// WithClock overrides the time source used for receipts and txn numbers.
func WithClock(now func() time.Time) Option {
	return func(r *Register) { r.now = now }
}

// Register drives one operator's checkout cycle: Empty -> Populated ->
// Submitting -> ReceiptReady -> Empty, reused for the whole shift. Edits are
// ignored while a submission is outstanding or a receipt is showing, so a
// failed checkout always returns to exactly the cart that was submitted.
type Register struct {
	sales      SalesService
	taxRate    decimal.Decimal
	session    *Session
	allowEmpty bool
	now        func() time.Time

	mu         sync.Mutex
	state      State
	cart       *Cart
	pendingKey string
	seq        int
	receipt    *Transaction
}

// NewRegister builds a register in the Empty state.
func NewRegister(sales SalesService, opts ...Option) *Register {
	r := &Register{
		sales:   sales,
		taxRate: DefaultTaxRate,
		now:     time.Now,
		state:   StateEmpty,
		cart:    &Cart{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current checkout state.
func (r *Register) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Operator returns the display name of the session behind the register.
func (r *Register) Operator() string {
	return r.session.DisplayName()
}

// AddItem puts one unit of the product in the cart.
func (r *Register) AddItem(p domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.editable() {
		return
	}
	r.cart.AddItem(p)
	r.cartChanged()
}

// SetQuantity updates a line's quantity (values below 1 clamp to 1).
func (r *Register) SetQuantity(productID int64, quantity int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.editable() {
		return
	}
	r.cart.SetQuantity(productID, quantity)
	r.cartChanged()
}

// RemoveItem drops a line from the cart.
func (r *Register) RemoveItem(productID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.editable() {
		return
	}
	r.cart.RemoveItem(productID)
	r.cartChanged()
}

// Lines returns a copy of the current cart lines.
func (r *Register) Lines() []Line {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cart.Lines()
}

// Totals recomputes subtotal, tax and total for the current cart.
func (r *Register) Totals() Totals {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cart.Totals(r.taxRate)
}

// ValidatePayment returns the change the payment would produce against the
// current total, or ErrInsufficientPayment.
func (r *Register) ValidatePayment(p Payment) (domain.Cents, error) {
	return ValidatePayment(p.Tendered, r.Totals().Total)
}

// Checkout submits the cart exactly once for this confirmation. On success
// the cart is cleared and the receipt becomes available; on failure the cart
// is untouched and the same operation may be retried by the operator.
func (r *Register) Checkout(ctx context.Context, payment Payment) (*Transaction, error) {
	r.mu.Lock()
	if r.state == StateSubmitting {
		r.mu.Unlock()
		return nil, ErrCheckoutInFlight
	}
	if r.cart.Empty() && !r.allowEmpty {
		r.mu.Unlock()
		return nil, ErrEmptyCart
	}

	totals := r.cart.Totals(r.taxRate)
	change, err := ValidatePayment(payment.Tendered, totals.Total)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}

	// The key survives a failed attempt so a retry of the same cart+payment
	// state cannot double-charge; any cart edit discards it.
	if r.pendingKey == "" {
		r.pendingKey = uuid.NewString()
	}
	sub := SaleSubmission{
		Lines:          r.cart.Lines(),
		Totals:         totals,
		Currency:       payment.Currency,
		Method:         payment.Method,
		Cashier:        r.session.DisplayName(),
		IdempotencyKey: r.pendingKey,
	}
	r.state = StateSubmitting
	r.mu.Unlock()

	saleID, err := r.sales.SubmitSale(ctx, sub)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.state = StatePopulated
		if r.cart.Empty() {
			r.state = StateEmpty
		}
		return nil, fmt.Errorf("submit sale: %w", err)
	}

	r.seq++
	txn := &Transaction{
		ID:        fmt.Sprintf("TXN-%s-%05d", r.now().UTC().Format("20060102"), r.seq),
		SaleID:    saleID,
		Lines:     sub.Lines,
		Subtotal:  totals.Subtotal,
		Tax:       totals.Tax,
		Total:     totals.Total,
		Tendered:  payment.Tendered,
		Change:    change,
		Currency:  payment.Currency,
		Method:    payment.Method,
		Cashier:   sub.Cashier,
		CreatedAt: r.now().UTC(),
	}
	r.cart.Clear()
	r.pendingKey = ""
	r.receipt = txn
	r.state = StateReceiptReady
	return txn, nil
}

// Receipt returns the completed transaction while the register shows it.
func (r *Register) Receipt() (*Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateReceiptReady || r.receipt == nil {
		return nil, ErrNoReceipt
	}
	return r.receipt, nil
}

// Acknowledge dismisses the receipt and starts a fresh, empty cart that
// shares nothing with the previous sale.
func (r *Register) Acknowledge() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateReceiptReady {
		return
	}
	r.cart = &Cart{}
	r.receipt = nil
	r.pendingKey = ""
	r.state = StateEmpty
}

// Undo asks the sales service to reverse a recorded sale. The register only
// reports the outcome; it never rebuilds a cart from the reversed sale.
func (r *Register) Undo(ctx context.Context, saleID string) error {
	if err := r.sales.ReverseSale(ctx, saleID); err != nil {
		return fmt.Errorf("reverse sale %s: %w", saleID, err)
	}
	return nil
}

func (r *Register) editable() bool {
	return r.state == StateEmpty || r.state == StatePopulated
}

func (r *Register) cartChanged() {
	r.pendingKey = ""
	if r.cart.Empty() {
		r.state = StateEmpty
	} else {
		r.state = StatePopulated
	}
}
