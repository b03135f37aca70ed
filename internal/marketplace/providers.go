package marketplace

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/rentaskill/internal/apperr"
	"github.com/sudo-init-do/rentaskill/internal/models"
)

// GET /providers?skillQuery=&maxRate=
func (h *Handler) ListProviders(c echo.Context) error {
	maxRate, err := optionalFloat(c, "maxRate")
	if err != nil {
		return err
	}
	providers, err := h.store.ListProviders(c.Request().Context(), models.ProviderFilter{
		SkillQuery: c.QueryParam("skillQuery"),
		MaxRate:    maxRate,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("list providers")
		return apperr.FromStore(err, "providers")
	}
	return c.JSON(http.StatusOK, providers)
}
