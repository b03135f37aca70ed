// Package server assembles the echo router.
package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/sudo-init-do/rentaskill/internal/alerts"
	"github.com/sudo-init-do/rentaskill/internal/apperr"
	"github.com/sudo-init-do/rentaskill/internal/config"
	"github.com/sudo-init-do/rentaskill/internal/marketplace"
	mware "github.com/sudo-init-do/rentaskill/internal/middleware"
	"github.com/sudo-init-do/rentaskill/internal/payment"
	"github.com/sudo-init-do/rentaskill/internal/realtime"
	"github.com/sudo-init-do/rentaskill/internal/store"
	"github.com/sudo-init-do/rentaskill/internal/user"
	"github.com/sudo-init-do/rentaskill/internal/wallet"
)

// Deps are the collaborators the routes are built from. Notifier, Hub and
// SkillCache are optional.
type Deps struct {
	Config     config.Config
	Logger     zerolog.Logger
	Store      store.Store
	Orders     payment.OrderCreator
	Notifier   alerts.Notifier
	Hub        *realtime.Hub
	SkillCache marketplace.SkillCache
}

func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(d.Logger, !d.Config.IsProduction())

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())
	e.Use(mware.RequestLogger(d.Logger))
	e.Use(mware.Session([]byte(d.Config.JWTSecret), d.Logger))
	e.Use(mware.RequireIdentity(d.Config.RequireAuth))

	notifier := d.Notifier
	if notifier == nil {
		notifier = alerts.Nop{}
	}
	var events realtime.Publisher = realtime.Discard{}
	if d.Hub != nil {
		events = d.Hub
		e.GET("/ws", d.Hub.Serve)
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", func(c echo.Context) error {
		if err := d.Store.Ping(c.Request().Context()); err != nil {
			d.Logger.Warn().Err(err).Msg("readiness check failed")
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "store unreachable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	api := e.Group("")

	opts := []marketplace.Option{
		marketplace.WithNotifier(notifier),
		marketplace.WithPublisher(events),
	}
	if d.SkillCache != nil {
		opts = append(opts, marketplace.WithSkillCache(d.SkillCache))
	}
	marketplace.NewHandler(d.Store, d.Logger, opts...).Register(api)
	user.NewHandler(d.Store, d.Logger).Register(api)
	wallet.NewHandler(d.Store, d.Config.Razorpay.KeySecret, notifier, events, d.Logger).Register(api)

	// Per-IP limit on gateway calls.
	pay := e.Group("/payment")
	pay.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      20,
			Burst:     40,
			ExpiresIn: 3 * time.Minute,
		}),
	}))
	payments := payment.NewHandler(d.Orders, d.Config.Razorpay.KeySecret, d.Logger)
	pay.POST("/create-order", payments.CreateOrder)
	pay.POST("/verify", payments.Verify)

	return e
}
