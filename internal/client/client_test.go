package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PrincessAkira/RestockIQ/internal/domain"
	"github.com/PrincessAkira/RestockIQ/internal/pos"
)

func TestClient_ListProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/products" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"Milk","price":1.15,"stock":4,"code":"MLK-01"},
			{"id":2,"name":"Bread","price":2.5,"stock":9}]`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	products, err := c.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].PriceCents != domain.Cents(115) {
		t.Fatalf("price cents = %d, want 115", products[0].PriceCents)
	}
	if products[0].Code != "MLK-01" || products[1].PriceCents != domain.Cents(250) {
		t.Fatalf("unexpected products %+v", products)
	}
}

func TestClient_SubmitSale(t *testing.T) {
	var gotKey string
	var gotBody saleRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/sales" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotKey = r.Header.Get("Idempotency-Key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"Sale processed successfully","saleId":"grp-9"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	saleID, err := c.SubmitSale(context.Background(), pos.SaleSubmission{
		Lines: []pos.Line{
			{ProductID: 1, Name: "Milk", UnitPrice: 100, Quantity: 2},
		},
		Currency:       pos.CurrencyUSD,
		Method:         pos.MethodCash,
		Cashier:        "Tari",
		IdempotencyKey: "key-123",
	})
	if err != nil {
		t.Fatalf("SubmitSale: %v", err)
	}
	if saleID != "grp-9" {
		t.Fatalf("sale id = %s", saleID)
	}
	if gotKey != "key-123" {
		t.Fatalf("idempotency header = %q", gotKey)
	}
	if len(gotBody.Cart) != 1 || gotBody.Cart[0].ID != 1 || gotBody.Cart[0].Quantity != 2 || gotBody.Cart[0].Price != 1.0 {
		t.Fatalf("unexpected cart payload %+v", gotBody.Cart)
	}
	if gotBody.Cashier != "Tari" || gotBody.Currency != "USD" {
		t.Fatalf("unexpected payload %+v", gotBody)
	}
}

func TestClient_SubmitSaleServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Not enough stock for Milk"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.SubmitSale(context.Background(), pos.SaleSubmission{
		Lines: []pos.Line{{ProductID: 1, Quantity: 1, UnitPrice: 100}},
	})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "Not enough stock for Milk" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
}

func TestClient_ReverseSale(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Fatalf("unexpected method %s", r.Method)
		}
		gotPath = r.URL.Path
		w.Write([]byte(`{"message":"Sale reversed"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	if err := c.ReverseSale(context.Background(), "grp-9"); err != nil {
		t.Fatalf("ReverseSale: %v", err)
	}
	if gotPath != "/api/sales/grp-9" {
		t.Fatalf("path = %s", gotPath)
	}
}

func TestClient_LoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			w.Write([]byte(`{"message":"Login successful","token":"tok-1",
				"user":{"id":3,"name":"Tari","email":"tari@store.test","role":"cashier"}}`))
		case "/api/products":
			if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
				t.Fatalf("authorization header = %q", got)
			}
			w.Write([]byte(`[]`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	sess, err := c.Login(context.Background(), "tari@store.test", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.Name != "Tari" || sess.Role != "cashier" || sess.Token != "tok-1" {
		t.Fatalf("unexpected session %+v", sess)
	}
	if _, err := c.ListProducts(context.Background()); err != nil {
		t.Fatalf("ListProducts after login: %v", err)
	}
}

func TestClient_NetworkErrorIsNotAPIError(t *testing.T) {
	c := New("http://127.0.0.1:0")
	_, err := c.ListProducts(context.Background())
	if err == nil {
		t.Fatalf("expected transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failure mapped to APIError: %v", err)
	}
}
