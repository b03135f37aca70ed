package marketplace

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/rentaskill/internal/apperr"
	"github.com/sudo-init-do/rentaskill/internal/models"
)

// GET /skills?query=&category=&maxPrice=
func (h *Handler) ListSkills(c echo.Context) error {
	maxPrice, err := optionalFloat(c, "maxPrice")
	if err != nil {
		return err
	}
	f := models.SkillFilter{
		Query:    c.QueryParam("query"),
		Category: c.QueryParam("category"),
		MaxPrice: maxPrice,
	}
	ctx := c.Request().Context()

	if h.cache != nil {
		cached, ok, err := h.cache.Get(ctx, f)
		if err != nil {
			h.logger.Warn().Err(err).Msg("skills cache read")
		}
		if ok {
			return c.JSON(http.StatusOK, cached)
		}
	}

	skills, err := h.store.ListSkills(ctx, f)
	if err != nil {
		h.logger.Error().Err(err).Msg("list skills")
		return apperr.FromStore(err, "skills")
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, f, skills); err != nil {
			h.logger.Warn().Err(err).Msg("skills cache write")
		}
	}
	return c.JSON(http.StatusOK, skills)
}
