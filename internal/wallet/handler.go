// Package wallet records payments between users and provider payouts.
package wallet

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sudo-init-do/rentaskill/internal/alerts"
	"github.com/sudo-init-do/rentaskill/internal/models"
	"github.com/sudo-init-do/rentaskill/internal/realtime"
	"github.com/sudo-init-do/rentaskill/internal/store"
)

type Store interface {
	store.Transactions
	store.Withdrawals
	GetUser(ctx context.Context, id string) (models.User, error)
}

type Handler struct {
	store  Store
	secret string
	notify alerts.Notifier
	events realtime.Publisher
	logger zerolog.Logger
}

// NewHandler builds the wallet routes. secret is the gateway key secret used to
// check signatures on completed transactions.
func NewHandler(s Store, secret string, notify alerts.Notifier, events realtime.Publisher, logger zerolog.Logger) *Handler {
	if notify == nil {
		notify = alerts.Nop{}
	}
	if events == nil {
		events = realtime.Discard{}
	}
	return &Handler{store: s, secret: secret, notify: notify, events: events, logger: logger}
}

func (h *Handler) Register(g *echo.Group) {
	g.GET("/transactions", h.ListTransactions)
	g.POST("/transactions", h.CreateTransaction)
	g.POST("/withdrawals", h.CreateWithdrawal)
}
