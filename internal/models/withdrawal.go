package models

import "time"

// Withdrawal methods
const (
	WithdrawUPI  = "upi"
	WithdrawBank = "bank_transfer"
)

// Withdrawal statuses
const (
	WithdrawalPending   = "pending"
	WithdrawalCompleted = "completed"
	WithdrawalFailed    = "failed"
)

// Withdrawal moves part of a provider's available balance out of the platform.
type Withdrawal struct {
	ID             string            `json:"id"`
	UserID         string            `json:"user_id"`
	Amount         float64           `json:"amount"`
	ProcessingFee  float64           `json:"processing_fee"`
	NetAmount      float64           `json:"net_amount"`
	Method         string            `json:"method"`
	AccountDetails map[string]string `json:"account_details"`
	Status         string            `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
}
