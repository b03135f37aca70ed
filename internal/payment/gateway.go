// Package payment creates gateway orders and verifies checkout signatures.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/sudo-init-do/rentaskill/internal/config"
)

// OrderRequest is the gateway order payload. Amount is in minor units.
type OrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// Order is the gateway-issued order.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// OrderCreator is the part of the gateway the handlers need.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req OrderRequest) (Order, error)
}

// GatewayError carries the description the gateway returned.
type GatewayError struct {
	StatusCode  int
	Description string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway returned %d: %s", e.StatusCode, e.Description)
}

// Razorpay talks to the Razorpay orders API.
type Razorpay struct {
	http *resty.Client
}

var _ OrderCreator = (*Razorpay)(nil)

func NewRazorpay(cfg config.Razorpay) *Razorpay {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.APIURL, "/")).
		SetBasicAuth(cfg.KeyID, cfg.KeySecret).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
	return &Razorpay{http: client}
}

func (r *Razorpay) CreateOrder(ctx context.Context, req OrderRequest) (Order, error) {
	var order Order
	resp, err := r.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&order).
		Post("/orders")
	if err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}
	if resp.IsError() {
		desc := gjson.Get(resp.String(), "error.description").String()
		if desc == "" {
			desc = resp.Status()
		}
		return Order{}, &GatewayError{StatusCode: resp.StatusCode(), Description: desc}
	}
	if order.ID == "" {
		return Order{}, errors.New("create order: gateway response has no order id")
	}
	return order, nil
}
