package wallet

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/rentaskill/internal/apperr"
	"github.com/sudo-init-do/rentaskill/internal/identity"
	"github.com/sudo-init-do/rentaskill/internal/models"
	"github.com/sudo-init-do/rentaskill/internal/money"
	"github.com/sudo-init-do/rentaskill/internal/realtime"
)

// Account detail keys required per payout method.
var requiredAccountFields = map[string][]string{
	models.WithdrawUPI:  {"upi_id"},
	models.WithdrawBank: {"account_number", "ifsc_code", "account_holder_name"},
}

type withdrawalRequest struct {
	UserID         string            `json:"user_id"`
	Amount         float64           `json:"amount"`
	Method         string            `json:"method"`
	AccountDetails map[string]string `json:"account_details"`
}

// POST /withdrawals debits the provider's available balance.
func (h *Handler) CreateWithdrawal(c echo.Context) error {
	var req withdrawalRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Invalid("invalid request body")
	}
	if req.Amount <= 0 {
		return apperr.Invalid("amount must be greater than zero")
	}
	fields, ok := requiredAccountFields[req.Method]
	if !ok {
		return apperr.Invalid("method must be upi or bank_transfer")
	}
	for _, f := range fields {
		if strings.TrimSpace(req.AccountDetails[f]) == "" {
			return apperr.Invalid("account_details.%s is required for %s", f, req.Method)
		}
	}
	fee := money.WithdrawalFee(req.Amount)
	if fee >= req.Amount {
		return apperr.Invalid("amount must exceed the processing fee of %.2f", fee)
	}

	ctx := c.Request().Context()
	userID, ok := identity.Resolve(ctx, req.UserID)
	if !ok {
		return apperr.Forbidden("user_id does not match the signed-in user")
	}
	if userID == "" {
		return apperr.Invalid("user_id is required")
	}
	u, err := h.store.GetUser(ctx, userID)
	if err != nil {
		return apperr.FromStore(err, "user")
	}
	if !u.IsProvider() {
		return apperr.Forbidden("only providers can withdraw earnings")
	}

	w, err := h.store.CreateWithdrawal(ctx, models.Withdrawal{
		UserID:         userID,
		Amount:         req.Amount,
		ProcessingFee:  fee,
		NetAmount:      money.Net(req.Amount, fee),
		Method:         req.Method,
		AccountDetails: req.AccountDetails,
		Status:         models.WithdrawalPending,
	})
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Float64("amount", req.Amount).Msg("create withdrawal")
		return apperr.FromStore(err, "user")
	}

	if err := h.notify.WithdrawalRequested(ctx, w); err != nil {
		h.logger.Warn().Err(err).Str("withdrawal_id", w.ID).Msg("enqueue withdrawal notification")
	}
	h.events.Broadcast(realtime.EventWithdrawalCreated, w)
	return c.JSON(http.StatusCreated, w)
}
