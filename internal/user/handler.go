// Package user serves marketplace profiles.
package user

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sudo-init-do/rentaskill/internal/apperr"
	"github.com/sudo-init-do/rentaskill/internal/identity"
	"github.com/sudo-init-do/rentaskill/internal/models"
	"github.com/sudo-init-do/rentaskill/internal/store"
)

type Handler struct {
	users  store.Users
	logger zerolog.Logger
}

func NewHandler(users store.Users, logger zerolog.Logger) *Handler {
	return &Handler{users: users, logger: logger}
}

func (h *Handler) Register(g *echo.Group) {
	g.GET("/users", h.GetUsers)
	g.POST("/users", h.CreateUser)
	g.PUT("/users/:id", h.UpdateUser)
}

// GET /users lists every profile; GET /users?id= returns one.
func (h *Handler) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	if id := c.QueryParam("id"); id != "" {
		u, err := h.users.GetUser(ctx, id)
		if err != nil {
			return apperr.FromStore(err, "user")
		}
		return c.JSON(http.StatusOK, u)
	}

	users, err := h.users.ListUsers(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("list users")
		return apperr.FromStore(err, "users")
	}
	return c.JSON(http.StatusOK, users)
}

type createUserRequest struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	AvatarURL   string   `json:"avatar_url"`
	UserType    string   `json:"user_type"`
	ProfileType string   `json:"profile_type"`
	Bio         string   `json:"bio"`
	College     string   `json:"college"`
	Company     string   `json:"company"`
	Phone       string   `json:"phone"`
	Skills      []string `json:"skills"`
	HourlyRate  float64  `json:"hourly_rate"`
}

// POST /users creates a profile. Earnings, balance and rating start at zero.
func (h *Handler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Invalid("invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return apperr.Invalid("a valid email is required")
	}
	if req.UserType == "" {
		req.UserType = models.UserTypeSeeker
	}
	if req.ProfileType == "" {
		req.ProfileType = models.ProfileStudent
	}
	if err := validateProfile(req.UserType, req.ProfileType, req.HourlyRate); err != nil {
		return err
	}

	id, ok := identity.Resolve(c.Request().Context(), req.ID)
	if !ok {
		return apperr.Forbidden("id does not match the signed-in user")
	}

	u, err := h.users.CreateUser(c.Request().Context(), models.User{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Email:       req.Email,
		AvatarURL:   req.AvatarURL,
		UserType:    req.UserType,
		ProfileType: req.ProfileType,
		Bio:         req.Bio,
		College:     req.College,
		Company:     req.Company,
		Phone:       req.Phone,
		Skills:      req.Skills,
		HourlyRate:  req.HourlyRate,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("email", req.Email).Msg("create user")
		return apperr.FromStore(err, "user")
	}
	return c.JSON(http.StatusCreated, u)
}

// PUT /users/:id edits the profile fields a user controls.
func (h *Handler) UpdateUser(c echo.Context) error {
	id := c.Param("id")
	if _, ok := identity.Resolve(c.Request().Context(), id); !ok {
		return apperr.Forbidden("cannot edit another user's profile")
	}

	var up models.UserUpdate
	if err := c.Bind(&up); err != nil {
		return apperr.Invalid("invalid request body")
	}
	if err := validateUpdate(up); err != nil {
		return err
	}

	u, err := h.users.UpdateUser(c.Request().Context(), id, up)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", id).Msg("update user")
		return apperr.FromStore(err, "user")
	}
	return c.JSON(http.StatusOK, u)
}

func validateProfile(userType, profileType string, rate float64) error {
	switch {
	case !models.ValidUserType(userType):
		return apperr.Invalid("user_type must be seeker, provider or both")
	case !models.ValidProfileType(profileType):
		return apperr.Invalid("profile_type must be student, graduate or professional")
	case rate < 0:
		return apperr.Invalid("hourly_rate must not be negative")
	}
	return nil
}

func validateUpdate(up models.UserUpdate) error {
	switch {
	case up.UserType != nil && !models.ValidUserType(*up.UserType):
		return apperr.Invalid("user_type must be seeker, provider or both")
	case up.ProfileType != nil && !models.ValidProfileType(*up.ProfileType):
		return apperr.Invalid("profile_type must be student, graduate or professional")
	case up.HourlyRate != nil && *up.HourlyRate < 0:
		return apperr.Invalid("hourly_rate must not be negative")
	case up.Name != nil && strings.TrimSpace(*up.Name) == "":
		return apperr.Invalid("name must not be empty")
	}
	return nil
}
