package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PrincessAkira/RestockIQ/internal/domain"
	authsvc "github.com/PrincessAkira/RestockIQ/internal/service/auth"
	productsvc "github.com/PrincessAkira/RestockIQ/internal/service/product"
	salesvc "github.com/PrincessAkira/RestockIQ/internal/service/sale"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubProductService struct {
	products  []domain.Product
	createErr error
	stockErr  error
	lastActor string
}

func (s *stubProductService) List(context.Context) ([]domain.Product, error) {
	return s.products, nil
}

func (s *stubProductService) Get(_ context.Context, id int64) (*domain.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubProductService) Create(_ context.Context, in productsvc.CreateInput, actor string) (*domain.Product, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.lastActor = actor
	p := domain.Product{ID: 99, Name: in.Name, Code: in.Code, PriceCents: domain.CentsFromFloat(in.Price), Stock: in.Stock}
	return &p, nil
}

func (s *stubProductService) Update(_ context.Context, id int64, in productsvc.UpdateInput, actor string) (*domain.Product, error) {
	p, err := s.Get(context.Background(), id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	s.lastActor = actor
	return p, nil
}

func (s *stubProductService) Delete(_ context.Context, id int64, actor string) error {
	_, err := s.Get(context.Background(), id)
	s.lastActor = actor
	return err
}

func (s *stubProductService) SetBlacklisted(_ context.Context, id int64, value bool, actor string) (*domain.Product, error) {
	p, err := s.Get(context.Background(), id)
	if err != nil {
		return nil, err
	}
	p.IsBlacklisted = value
	s.lastActor = actor
	return p, nil
}

func (s *stubProductService) UpdateStock(_ context.Context, id int64, in productsvc.StockInput, actor string) (*domain.Product, error) {
	if s.stockErr != nil {
		return nil, s.stockErr
	}
	p, err := s.Get(context.Background(), id)
	if err != nil {
		return nil, err
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	s.lastActor = actor
	return p, nil
}

func (s *stubProductService) BatchUpdateStock(_ context.Context, items []productsvc.BatchStockItem, actor string) (int, error) {
	s.lastActor = actor
	return len(items), nil
}

type stubSaleService struct {
	group    *domain.SaleGroup
	replayed bool
	err      error
	lastIn   salesvc.ProcessInput
}

func (s *stubSaleService) Process(_ context.Context, in salesvc.ProcessInput) (*domain.SaleGroup, bool, error) {
	s.lastIn = in
	if s.err != nil {
		return nil, false, s.err
	}
	return s.group, s.replayed, nil
}

func (s *stubSaleService) Reverse(_ context.Context, id, _ string) (*domain.SaleGroup, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.group == nil || s.group.ID != id {
		return nil, domain.ErrNotFound
	}
	return s.group, nil
}

func (s *stubSaleService) Recent(context.Context, int) ([]domain.SaleGroup, error) {
	if s.group == nil {
		return nil, nil
	}
	return []domain.SaleGroup{*s.group}, nil
}

func (s *stubSaleService) Get(_ context.Context, id string) (*domain.SaleGroup, error) {
	return s.Reverse(context.Background(), id, "")
}

type stubAuthService struct {
	users map[string]*domain.User // token -> user
}

func (s *stubAuthService) Register(_ context.Context, in authsvc.RegisterInput) (*domain.User, error) {
	return &domain.User{ID: 10, Name: in.Name, Email: in.Email, Role: domain.RoleCashier}, nil
}

func (s *stubAuthService) Login(_ context.Context, email, password string) (*domain.User, string, error) {
	if password != "correct-horse" {
		return nil, "", authsvc.ErrInvalidCredentials
	}
	return &domain.User{ID: 1, Email: email, Role: domain.RoleAdmin}, "tok-admin", nil
}

func (s *stubAuthService) Authenticate(_ context.Context, token string) (*domain.User, error) {
	user, ok := s.users[token]
	if !ok {
		return nil, authsvc.ErrInvalidToken
	}
	return user, nil
}

func (s *stubAuthService) Logout(context.Context, string) error { return nil }

type stubAuditLogs struct {
	entries []domain.AuditLog
}

func (s *stubAuditLogs) List(context.Context) ([]domain.AuditLog, error) {
	return s.entries, nil
}

func testDeps() (Deps, *stubProductService, *stubSaleService, *stubAuthService) {
	products := &stubProductService{products: []domain.Product{
		{ID: 1, Code: "MILK-1L", Name: "Milk", Category: "Dairy", PriceCents: 115, Stock: 20, Threshold: 5},
		{ID: 2, Code: "BRD-700", Name: "Bread", Category: "Bakery", PriceCents: 250, Stock: 8, Threshold: 3},
	}}
	sales := &stubSaleService{group: &domain.SaleGroup{
		ID:         "TXN-20260115-00042",
		Cashier:    "Thandi",
		TotalCents: 230,
		Currency:   "USD",
		Method:     "cash",
		CreatedAt:  time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC),
	}}
	auth := &stubAuthService{users: map[string]*domain.User{
		"tok-admin":   {ID: 1, Email: "admin@store.test", Role: domain.RoleAdmin},
		"tok-cashier": {ID: 2, Email: "thandi@store.test", Role: domain.RoleCashier},
	}}
	return Deps{
		ProductSvc: products,
		SaleSvc:    sales,
		AuthSvc:    auth,
		AuditLogs:  &stubAuditLogs{},
	}, products, sales, auth
}

func newTestRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	router, err := buildRouter(logger, nil, deps, nil)
	if err != nil {
		t.Fatalf("buildRouter: %v", err)
	}
	return router
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestListProducts(t *testing.T) {
	deps, _, _, _ := testDeps()
	router := newTestRouter(t, deps)

	rec := doJSON(router, http.MethodGet, "/api/products", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body)
	}
	var got []productResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d products, want 2", len(got))
	}
	if got[0].Price != 1.15 {
		t.Errorf("price = %v, want 1.15", got[0].Price)
	}
}

func TestCreateProductRequiresAdmin(t *testing.T) {
	deps, _, _, _ := testDeps()
	router := newTestRouter(t, deps)

	body := map[string]any{"name": "Eggs", "code": "EGG-12", "price": 3.49, "stock": 30}

	rec := doJSON(router, http.MethodPost, "/api/products", "", body)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", rec.Code)
	}

	rec = doJSON(router, http.MethodPost, "/api/products", "tok-cashier", body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cashier status = %d, want 403", rec.Code)
	}

	rec = doJSON(router, http.MethodPost, "/api/products", "tok-admin", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin status = %d, want 201 (body %s)", rec.Code, rec.Body)
	}
}

func TestCreateProductRecordsActor(t *testing.T) {
	deps, products, _, _ := testDeps()
	router := newTestRouter(t, deps)

	rec := doJSON(router, http.MethodPost, "/api/products", "tok-admin", map[string]any{"name": "Eggs", "code": "EGG-12", "price": 3.49})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if products.lastActor != "admin@store.test" {
		t.Errorf("actor = %q, want admin email", products.lastActor)
	}
}

func TestInvalidTokenRejected(t *testing.T) {
	deps, _, _, _ := testDeps()
	router := newTestRouter(t, deps)

	rec := doJSON(router, http.MethodGet, "/api/products", "tok-bogus", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestProcessSale(t *testing.T) {
	deps, _, sales, _ := testDeps()
	router := newTestRouter(t, deps)

	body := map[string]any{
		"cart":    []map[string]any{{"id": 1, "quantity": 2, "price": 1.15}},
		"cashier": "Thandi",
		"method":  "cash",
	}
	req := httptest.NewRequest(http.MethodPost, "/api/sales", bytes.NewReader(mustJSON(t, body)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", "0d1f3c9a-idem")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body)
	}
	var resp struct {
		Message string `json:"message"`
		SaleID  string `json:"saleId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SaleID != "TXN-20260115-00042" {
		t.Errorf("saleId = %q", resp.SaleID)
	}
	if sales.lastIn.IdempotencyKey != "0d1f3c9a-idem" {
		t.Errorf("idempotency key = %q, not propagated", sales.lastIn.IdempotencyKey)
	}
	if len(sales.lastIn.Cart) != 1 || sales.lastIn.Cart[0].Quantity != 2 {
		t.Errorf("cart not propagated: %+v", sales.lastIn.Cart)
	}
}

func TestProcessSaleReplayReturns200(t *testing.T) {
	deps, _, sales, _ := testDeps()
	sales.replayed = true
	router := newTestRouter(t, deps)

	rec := doJSON(router, http.MethodPost, "/api/sales", "", map[string]any{
		"cart": []map[string]any{{"id": 1, "quantity": 1, "price": 1.15}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for replay", rec.Code)
	}
}

func TestProcessSaleErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"insufficient stock", fmt.Errorf("%w for Milk", domain.ErrInsufficientStock), http.StatusBadRequest},
		{"empty cart", salesvc.ErrEmptyCart, http.StatusBadRequest},
		{"unknown product", fmt.Errorf("product 9: %w", domain.ErrNotFound), http.StatusNotFound},
		{"blacklisted", fmt.Errorf("Milk: %w", domain.ErrInactiveProduct), http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deps, _, sales, _ := testDeps()
			sales.err = tc.err
			router := newTestRouter(t, deps)

			rec := doJSON(router, http.MethodPost, "/api/sales", "", map[string]any{
				"cart": []map[string]any{{"id": 1, "quantity": 1, "price": 1.15}},
			})
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body)
			}
			var resp struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Error == "" {
				t.Errorf("error body missing: %s", rec.Body)
			}
		})
	}
}

func TestReverseSale(t *testing.T) {
	deps, _, _, _ := testDeps()
	router := newTestRouter(t, deps)

	rec := doJSON(router, http.MethodDelete, "/api/sales/TXN-20260115-00042", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body)
	}

	rec = doJSON(router, http.MethodDelete, "/api/sales/TXN-unknown", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown sale status = %d, want 404", rec.Code)
	}
}

func TestReverseSaleAlreadyReversed(t *testing.T) {
	deps, _, sales, _ := testDeps()
	sales.err = domain.ErrAlreadyReversed
	router := newTestRouter(t, deps)

	rec := doJSON(router, http.MethodDelete, "/api/sales/TXN-20260115-00042", "", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestStockRoutes(t *testing.T) {
	deps, _, _, _ := testDeps()
	router := newTestRouter(t, deps)

	rec := doJSON(router, http.MethodPut, "/api/stock/1", "tok-admin", map[string]any{"stock": 40})
	if rec.Code != http.StatusOK {
		t.Fatalf("single update status = %d (body %s)", rec.Code, rec.Body)
	}

	rec = doJSON(router, http.MethodPut, "/api/stock", "tok-admin", []map[string]any{
		{"id": 1, "stock": 10},
		{"id": 2, "threshold": 4},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("batch status = %d (body %s)", rec.Code, rec.Body)
	}
	var resp struct {
		Updated int `json:"updated"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Updated != 2 {
		t.Errorf("updated = %d, want 2 (body %s)", resp.Updated, rec.Body)
	}

	rec = doJSON(router, http.MethodPut, "/api/stock/1", "tok-cashier", map[string]any{"stock": 40})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cashier stock update status = %d, want 403", rec.Code)
	}
}

func TestLoginAndMe(t *testing.T) {
	deps, _, _, _ := testDeps()
	router := newTestRouter(t, deps)

	rec := doJSON(router, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "admin@store.test", "password": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", rec.Code)
	}

	rec = doJSON(router, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "admin@store.test", "password": "correct-horse"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d (body %s)", rec.Code, rec.Body)
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("token missing: %s", rec.Body)
	}

	rec = doJSON(router, http.MethodGet, "/api/auth/me", "tok-cashier", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d", rec.Code)
	}
	rec = doJSON(router, http.MethodGet, "/api/auth/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous me status = %d, want 401", rec.Code)
	}
}

func TestAuditLogsRequireLogin(t *testing.T) {
	deps, _, _, _ := testDeps()
	router := newTestRouter(t, deps)

	rec := doJSON(router, http.MethodGet, "/api/audit-logs", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", rec.Code)
	}
	rec = doJSON(router, http.MethodGet, "/api/audit-logs", "tok-cashier", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cashier status = %d, want 200", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	deps, _, _, _ := testDeps()
	router := newTestRouter(t, deps)

	rec := doJSON(router, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}
