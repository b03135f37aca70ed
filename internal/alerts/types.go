package alerts

import "time"

// Task type constants
const (
	TaskTaskAssigned        = "email:task_assigned"
	TaskTaskCompleted       = "email:task_completed"
	TaskPaymentReceived     = "email:payment_received"
	TaskWithdrawalRequested = "email:withdrawal_requested"
)

const queueEmails = "emails"

// Envelope is a rendered email-like notification.
type Envelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// TaskPayload is sent to the seeker when a provider is assigned or finishes.
type TaskPayload struct {
	TaskID     string    `json:"task_id"`
	Title      string    `json:"title"`
	SeekerID   string    `json:"seeker_id"`
	ProviderID string    `json:"provider_id"`
	Budget     float64   `json:"budget"`
	SentAt     time.Time `json:"sent_at"`
}

// PaymentPayload is sent to the payee of a completed transaction.
type PaymentPayload struct {
	TransactionID string    `json:"transaction_id"`
	TaskID        string    `json:"task_id"`
	PayeeID       string    `json:"payee_id"`
	NetAmount     float64   `json:"net_amount"`
	Currency      string    `json:"currency"`
	SentAt        time.Time `json:"sent_at"`
}

// WithdrawalPayload is sent to the user who requested a payout.
type WithdrawalPayload struct {
	WithdrawalID string    `json:"withdrawal_id"`
	UserID       string    `json:"user_id"`
	Amount       float64   `json:"amount"`
	NetAmount    float64   `json:"net_amount"`
	Method       string    `json:"method"`
	SentAt       time.Time `json:"sent_at"`
}
