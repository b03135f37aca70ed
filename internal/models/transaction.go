package models

import "time"

// Transaction statuses
const (
	TxPending    = "pending"
	TxProcessing = "processing"
	TxCompleted  = "completed"
	TxFailed     = "failed"
	TxRefunded   = "refunded"
)

// Transaction is an immutable record of one payment attempt.
type Transaction struct {
	ID                string         `json:"id"`
	TaskID            string         `json:"task_id"`
	PayerID           string         `json:"payer_id"`
	PayeeID           string         `json:"payee_id"`
	Amount            float64        `json:"amount"`
	PlatformFee       float64        `json:"platform_fee"`
	NetAmount         float64        `json:"net_amount"`
	Currency          string         `json:"currency"`
	RazorpayOrderID   string         `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string         `json:"razorpay_payment_id,omitempty"`
	RazorpaySignature string         `json:"razorpay_signature,omitempty"`
	Status            string         `json:"status"`
	PaymentMethod     string         `json:"payment_method"`
	Description       string         `json:"description,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
}

// ValidTransactionStatus reports whether s is a known transaction status.
func ValidTransactionStatus(s string) bool {
	switch s {
	case TxPending, TxProcessing, TxCompleted, TxFailed, TxRefunded:
		return true
	}
	return false
}

// TransactionFilter selects transactions where the user is payer or payee.
type TransactionFilter struct {
	UserID string
	TaskID string
}

// Matches applies the filter to a single transaction.
func (f TransactionFilter) Matches(t Transaction) bool {
	if f.UserID != "" && t.PayerID != f.UserID && t.PayeeID != f.UserID {
		return false
	}
	if f.TaskID != "" && t.TaskID != f.TaskID {
		return false
	}
	return true
}
