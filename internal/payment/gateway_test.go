package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sudo-init-do/rentaskill/internal/config"
)

func TestRazorpayCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/orders" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key_id" || pass != "key_secret" {
			t.Errorf("basic auth = %q %q %v", user, pass, ok)
		}
		var req OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Amount != 30000 || req.Currency != "INR" || req.Receipt != "receipt_1" {
			t.Errorf("request = %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Order{ID: "order_abc", Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt, Status: "created"})
	}))
	defer srv.Close()

	rp := NewRazorpay(config.Razorpay{KeyID: "key_id", KeySecret: "key_secret", APIURL: srv.URL + "/v1/"})
	order, err := rp.CreateOrder(context.Background(), OrderRequest{Amount: 30000, Currency: "INR", Receipt: "receipt_1"})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.ID != "order_abc" || order.Amount != 30000 || order.Status != "created" {
		t.Fatalf("order = %+v", order)
	}
}

func TestRazorpayCreateOrderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"Order amount less than minimum amount allowed"}}`))
	}))
	defer srv.Close()

	rp := NewRazorpay(config.Razorpay{KeyID: "k", KeySecret: "s", APIURL: srv.URL})
	_, err := rp.CreateOrder(context.Background(), OrderRequest{Amount: 1, Currency: "INR"})
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("err = %v, want GatewayError", err)
	}
	if gwErr.StatusCode != http.StatusBadRequest || gwErr.Description != "Order amount less than minimum amount allowed" {
		t.Fatalf("gateway error = %+v", gwErr)
	}
}
