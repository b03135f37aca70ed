// Package marketplace serves tasks, the skill catalogue and provider search.
package marketplace

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sudo-init-do/rentaskill/internal/alerts"
	"github.com/sudo-init-do/rentaskill/internal/apperr"
	"github.com/sudo-init-do/rentaskill/internal/models"
	"github.com/sudo-init-do/rentaskill/internal/realtime"
	"github.com/sudo-init-do/rentaskill/internal/store"
)

// SkillCache is a read-through cache for skill listings.
type SkillCache interface {
	Get(ctx context.Context, f models.SkillFilter) ([]models.Skill, bool, error)
	Set(ctx context.Context, f models.SkillFilter, skills []models.Skill) error
}

type Store interface {
	store.Tasks
	store.Skills
	ListProviders(ctx context.Context, f models.ProviderFilter) ([]models.User, error)
}

type Handler struct {
	store  Store
	cache  SkillCache
	notify alerts.Notifier
	events realtime.Publisher
	logger zerolog.Logger
}

type Option func(*Handler)

// WithSkillCache enables caching of skill listings.
func WithSkillCache(c SkillCache) Option {
	return func(h *Handler) { h.cache = c }
}

func WithNotifier(n alerts.Notifier) Option {
	return func(h *Handler) { h.notify = n }
}

func WithPublisher(p realtime.Publisher) Option {
	return func(h *Handler) { h.events = p }
}

func NewHandler(s Store, logger zerolog.Logger, opts ...Option) *Handler {
	h := &Handler{
		store:  s,
		notify: alerts.Nop{},
		events: realtime.Discard{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the marketplace routes on g.
func (h *Handler) Register(g *echo.Group) {
	g.GET("/tasks", h.ListTasks)
	g.POST("/tasks", h.CreateTask)
	g.GET("/tasks/:id", h.GetTask)
	g.PUT("/tasks/:id", h.UpdateTask)
	g.GET("/skills", h.ListSkills)
	g.GET("/providers", h.ListProviders)
}

func optionalFloat(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, apperr.Invalid("%s must be a non-negative number", name)
	}
	return &v, nil
}
