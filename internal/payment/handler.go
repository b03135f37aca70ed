package payment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sudo-init-do/rentaskill/internal/apperr"
)

const defaultCurrency = "INR"

// Handler serves /payment/create-order and /payment/verify.
type Handler struct {
	orders OrderCreator
	secret string
	logger zerolog.Logger
}

func NewHandler(orders OrderCreator, secret string, logger zerolog.Logger) *Handler {
	return &Handler{orders: orders, secret: secret, logger: logger}
}

type createOrderRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type createOrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreateOrder forwards an already minor-unit amount to the gateway.
// Nothing is persisted locally.
func (h *Handler) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Warn().Err(err).Msg("undecodable create-order body")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create order"})
	}
	amount := decimal.NewFromFloat(req.Amount).Round(0).IntPart()
	if amount <= 0 {
		return apperr.Invalid("amount must be greater than zero")
	}
	if req.Currency == "" {
		req.Currency = defaultCurrency
	}

	order, err := h.orders.CreateOrder(c.Request().Context(), OrderRequest{
		Amount:   amount,
		Currency: req.Currency,
		Receipt:  "receipt_" + uuid.NewString(),
	})
	if err != nil {
		h.logger.Error().Err(err).Int64("amount", amount).Msg("gateway order creation failed")
		var gwErr *GatewayError
		if errors.As(err, &gwErr) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": gwErr.Description})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create order"})
	}

	return c.JSON(http.StatusOK, createOrderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
	})
}

type verifyRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// Verify checks the checkout callback signature. It never writes to storage;
// the caller records the transaction on success.
func (h *Handler) Verify(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error().Err(err).Msg("undecodable verification body")
		return verifyFailed(c)
	}
	if h.secret == "" {
		h.logger.Error().Msg("payment verification attempted without RAZORPAY_KEY_SECRET")
		return verifyFailed(c)
	}

	if !Verify(h.secret, req.OrderID, req.PaymentID, req.Signature) {
		h.logger.Warn().Str("order_id", req.OrderID).Msg("payment signature mismatch")
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Invalid payment signature",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"message":    "Payment verified successfully",
		"payment_id": req.PaymentID,
	})
}

func verifyFailed(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"success": false,
		"error":   "Payment verification failed",
	})
}
