package wallet

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/rentaskill/internal/apperr"
	"github.com/sudo-init-do/rentaskill/internal/identity"
	"github.com/sudo-init-do/rentaskill/internal/models"
	"github.com/sudo-init-do/rentaskill/internal/money"
	"github.com/sudo-init-do/rentaskill/internal/payment"
	"github.com/sudo-init-do/rentaskill/internal/realtime"
)

const defaultCurrency = "INR"

type createTransactionRequest struct {
	TaskID            string         `json:"task_id"`
	PayerID           string         `json:"payer_id"`
	PayeeID           string         `json:"payee_id"`
	Amount            float64        `json:"amount"`
	PlatformFee       *float64       `json:"platform_fee"`
	NetAmount         *float64       `json:"net_amount"`
	Currency          string         `json:"currency"`
	RazorpayOrderID   string         `json:"razorpay_order_id"`
	RazorpayPaymentID string         `json:"razorpay_payment_id"`
	RazorpaySignature string         `json:"razorpay_signature"`
	Status            string         `json:"status"`
	PaymentMethod     string         `json:"payment_method"`
	Description       string         `json:"description"`
	Metadata          map[string]any `json:"metadata"`
}

// POST /transactions records one payment. A completed payment credits the
// payee and must carry a verified checkout signature.
func (h *Handler) CreateTransaction(c echo.Context) error {
	var req createTransactionRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Invalid("invalid request body")
	}
	if req.Amount <= 0 {
		return apperr.Invalid("amount must be greater than zero")
	}
	if req.Status == "" {
		req.Status = models.TxPending
	}
	if !models.ValidTransactionStatus(req.Status) {
		return apperr.Invalid("unknown transaction status %q", req.Status)
	}
	if req.Currency == "" {
		req.Currency = defaultCurrency
	}

	payerID, ok := identity.Resolve(c.Request().Context(), req.PayerID)
	if !ok {
		return apperr.Forbidden("payer_id does not match the signed-in user")
	}
	if payerID != "" && payerID == req.PayeeID {
		return apperr.Invalid("payer_id and payee_id must differ")
	}
	if req.Status == models.TxCompleted {
		if err := h.checkCompleted(req); err != nil {
			return err
		}
	}

	fee, net, err := settle(req.Amount, req.PlatformFee, req.NetAmount)
	if err != nil {
		return err
	}

	tx, err := h.store.CreateTransaction(c.Request().Context(), models.Transaction{
		TaskID:            req.TaskID,
		PayerID:           payerID,
		PayeeID:           req.PayeeID,
		Amount:            req.Amount,
		PlatformFee:       fee,
		NetAmount:         net,
		Currency:          req.Currency,
		RazorpayOrderID:   req.RazorpayOrderID,
		RazorpayPaymentID: req.RazorpayPaymentID,
		RazorpaySignature: req.RazorpaySignature,
		Status:            req.Status,
		PaymentMethod:     req.PaymentMethod,
		Description:       req.Description,
		Metadata:          req.Metadata,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("task_id", req.TaskID).Msg("create transaction")
		return apperr.FromStore(err, "transaction")
	}

	if tx.Status == models.TxCompleted {
		if err := h.notify.PaymentReceived(c.Request().Context(), tx); err != nil {
			h.logger.Warn().Err(err).Str("transaction_id", tx.ID).Msg("enqueue payment notification")
		}
	}
	h.events.Broadcast(realtime.EventTransactionCreated, tx)
	return c.JSON(http.StatusCreated, tx)
}

// checkCompleted guards the payee credit: a completed transaction must carry a
// checkout signature the gateway secret verifies.
func (h *Handler) checkCompleted(req createTransactionRequest) error {
	if req.PayeeID == "" {
		return apperr.Invalid("payee_id is required for a completed transaction")
	}
	if h.secret == "" {
		return apperr.Internal("payment verification unavailable", errors.New("gateway key secret not configured"))
	}
	if !payment.Verify(h.secret, req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		return apperr.Invalid("invalid payment signature")
	}
	return nil
}

// settle fills the platform fee and net amount when omitted and rejects a
// net amount that is not amount - fee.
func settle(amount float64, fee, net *float64) (float64, float64, error) {
	switch {
	case fee == nil && net == nil:
		f := money.PlatformFee(amount)
		return f, money.Net(amount, f), nil
	case fee == nil:
		return money.Net(amount, *net), *net, validateFee(amount, money.Net(amount, *net))
	case net == nil:
		return *fee, money.Net(amount, *fee), validateFee(amount, *fee)
	}
	if err := validateFee(amount, *fee); err != nil {
		return 0, 0, err
	}
	if !money.NetMatches(amount, *fee, *net) {
		return 0, 0, apperr.Invalid("net_amount must equal amount minus platform_fee")
	}
	return *fee, *net, nil
}

func validateFee(amount, fee float64) error {
	if fee < 0 || fee > amount {
		return apperr.Invalid("platform_fee must be between 0 and amount")
	}
	return nil
}

// GET /transactions?userId=&taskId=
func (h *Handler) ListTransactions(c echo.Context) error {
	userID := c.QueryParam("userId")
	if caller, ok := identity.From(c.Request().Context()); ok {
		if userID == "" {
			userID = caller.UserID
		} else if userID != caller.UserID {
			return apperr.Forbidden("cannot list another user's transactions")
		}
	}

	txs, err := h.store.ListTransactions(c.Request().Context(), models.TransactionFilter{
		UserID: userID,
		TaskID: c.QueryParam("taskId"),
	})
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("list transactions")
		return apperr.FromStore(err, "transactions")
	}
	return c.JSON(http.StatusOK, txs)
}
