package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sudo-init-do/rentaskill/internal/models"
	"github.com/sudo-init-do/rentaskill/internal/money"
)

// ErrSignatureRejected is returned when the server refuses a checkout signature.
var ErrSignatureRejected = errors.New("payment signature rejected")

// Order is a gateway order ready for checkout. Amount is in minor units.
type Order struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CheckoutResult is what the gateway's checkout hands back on success.
type CheckoutResult struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type verifyResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	PaymentID string `json:"payment_id"`
	Error     string `json:"error"`
}

// CreateOrder opens a gateway order for amount in rupees.
func (c *Client) CreateOrder(ctx context.Context, amount float64, currency string) (Order, error) {
	var out Order
	body := map[string]any{"amount": money.ToMinorUnits(amount), "currency": currency}
	raw, err := c.do(ctx, http.MethodPost, "/payment/create-order", nil, body)
	if err != nil {
		return Order{}, err
	}
	return out, decodeInto(raw, &out)
}

// VerifyPayment asks the server to check the checkout signature and returns
// the verified payment id.
func (c *Client) VerifyPayment(ctx context.Context, res CheckoutResult) (string, error) {
	raw, err := c.do(ctx, http.MethodPost, "/payment/verify", nil, res)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest {
		return "", ErrSignatureRejected
	}
	if err != nil {
		return "", err
	}
	var out verifyResponse
	if err := decodeInto(raw, &out); err != nil {
		return "", err
	}
	if !out.Success {
		return "", ErrSignatureRejected
	}
	return out.PaymentID, nil
}

// Payment describes a checkout for a task.
type Payment struct {
	TaskID   string
	PayerID  string
	PayeeID  string
	Amount   float64
	Currency string
	Checkout CheckoutResult
}

// RecordPayment verifies the checkout and records a completed transaction
// with the 5% platform fee deducted.
func (c *Client) RecordPayment(ctx context.Context, p Payment) (models.Transaction, error) {
	paymentID, err := c.VerifyPayment(ctx, p.Checkout)
	if err != nil {
		return models.Transaction{}, err
	}
	fee := money.PlatformFee(p.Amount)
	net := money.Net(p.Amount, fee)
	return c.CreateTransaction(ctx, NewTransaction{
		TaskID:            p.TaskID,
		PayerID:           p.PayerID,
		PayeeID:           p.PayeeID,
		Amount:            p.Amount,
		PlatformFee:       &fee,
		NetAmount:         &net,
		Currency:          p.Currency,
		RazorpayOrderID:   p.Checkout.OrderID,
		RazorpayPaymentID: paymentID,
		RazorpaySignature: p.Checkout.Signature,
		Status:            models.TxCompleted,
		PaymentMethod:     "Razorpay",
		Description:       "Payment for task " + p.TaskID,
	})
}

// PartialCompletionError means the task was marked completed but recording
// its payment failed. The two writes are independent; nothing is rolled back.
type PartialCompletionError struct {
	Task models.Task
	Err  error
}

func (e *PartialCompletionError) Error() string {
	return fmt.Sprintf("task %s completed but payment was not recorded: %v", e.Task.ID, e.Err)
}

func (e *PartialCompletionError) Unwrap() error { return e.Err }

// CompleteTask marks the task completed and then records the verified
// checkout as a completed payment of amount from the seeker to the assigned
// provider.
func (c *Client) CompleteTask(ctx context.Context, taskID string, amount float64, checkout CheckoutResult) (models.Task, models.Transaction, error) {
	status := models.StatusCompleted
	t, err := c.UpdateTask(ctx, taskID, models.TaskUpdate{Status: &status})
	if err != nil {
		return models.Task{}, models.Transaction{}, err
	}
	if t.ProviderID == nil {
		return t, models.Transaction{}, &PartialCompletionError{Task: t, Err: errors.New("task has no provider")}
	}

	fee := money.PlatformFee(amount)
	net := money.Net(amount, fee)
	tx, err := c.CreateTransaction(ctx, NewTransaction{
		TaskID:            t.ID,
		PayerID:           t.SeekerID,
		PayeeID:           *t.ProviderID,
		Amount:            amount,
		PlatformFee:       &fee,
		NetAmount:         &net,
		RazorpayOrderID:   checkout.OrderID,
		RazorpayPaymentID: checkout.PaymentID,
		RazorpaySignature: checkout.Signature,
		Status:            models.TxCompleted,
		PaymentMethod:     "Razorpay",
		Description:       "Payment for task " + t.ID,
	})
	if err != nil {
		return t, models.Transaction{}, &PartialCompletionError{Task: t, Err: err}
	}
	return t, tx, nil
}
