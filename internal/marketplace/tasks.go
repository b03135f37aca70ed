package marketplace

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/rentaskill/internal/apperr"
	"github.com/sudo-init-do/rentaskill/internal/identity"
	"github.com/sudo-init-do/rentaskill/internal/models"
	"github.com/sudo-init-do/rentaskill/internal/realtime"
)

// GET /tasks?userId=&type=seeker|provider&status=&category=
func (h *Handler) ListTasks(c echo.Context) error {
	var f models.TaskFilter
	userID, role := c.QueryParam("userId"), c.QueryParam("type")
	if userID != "" && role != "" {
		switch role {
		case models.UserTypeSeeker:
			f.SeekerID = userID
		case models.UserTypeProvider:
			f.ProviderID = userID
		default:
			return apperr.Invalid("type must be seeker or provider")
		}
	}
	if s := c.QueryParam("status"); s != "" {
		st, err := models.ParseStatus(s)
		if err != nil {
			return apperr.Invalid("%v", err)
		}
		f.Status = st
	}
	f.Category = c.QueryParam("category")

	tasks, err := h.store.ListTasks(c.Request().Context(), f)
	if err != nil {
		h.logger.Error().Err(err).Msg("list tasks")
		return apperr.FromStore(err, "tasks")
	}
	return c.JSON(http.StatusOK, tasks)
}

// GET /tasks/:id
func (h *Handler) GetTask(c echo.Context) error {
	t, err := h.store.GetTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return apperr.FromStore(err, "task")
	}
	return c.JSON(http.StatusOK, t)
}

type createTaskRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Category       string     `json:"category"`
	Budget         float64    `json:"budget"`
	Deadline       *time.Time `json:"deadline"`
	SeekerID       string     `json:"seeker_id"`
	IsUrgent       bool       `json:"is_urgent"`
	Requirements   []string   `json:"requirements"`
	VoiceNoteURL   string     `json:"voice_note_url"`
	AttachmentURLs []string   `json:"attachment_urls"`
}

// POST /tasks
func (h *Handler) CreateTask(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Invalid("invalid request body")
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.Budget <= 0 {
		return apperr.Invalid("title and a budget greater than zero are required")
	}

	seekerID, ok := identity.Resolve(c.Request().Context(), req.SeekerID)
	if !ok {
		return apperr.Forbidden("seeker_id does not match the signed-in user")
	}
	if seekerID == "" {
		return apperr.Invalid("seeker_id is required")
	}

	t, err := h.store.CreateTask(c.Request().Context(), models.Task{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Budget:         req.Budget,
		Deadline:       req.Deadline,
		Status:         models.StatusOpen,
		SeekerID:       seekerID,
		IsUrgent:       req.IsUrgent,
		Requirements:   req.Requirements,
		VoiceNoteURL:   req.VoiceNoteURL,
		AttachmentURLs: req.AttachmentURLs,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("seeker_id", seekerID).Msg("create task")
		return apperr.FromStore(err, "task")
	}

	h.events.Broadcast(realtime.EventTaskCreated, t)
	return c.JSON(http.StatusCreated, t)
}

// PUT /tasks/:id
func (h *Handler) UpdateTask(c echo.Context) error {
	var up models.TaskUpdate
	if err := c.Bind(&up); err != nil {
		return apperr.Invalid("invalid request body")
	}
	if up.IsEmpty() {
		return apperr.Invalid("no fields to update")
	}
	if up.Title != nil && strings.TrimSpace(*up.Title) == "" {
		return apperr.Invalid("title must not be empty")
	}
	if up.Budget != nil && *up.Budget <= 0 {
		return apperr.Invalid("budget must be greater than zero")
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	current, err := h.store.GetTask(ctx, id)
	if err != nil {
		return apperr.FromStore(err, "task")
	}
	if err := authorizeTaskUpdate(c, current, up); err != nil {
		return err
	}
	if err := validateTransition(current, up); err != nil {
		return err
	}

	t, err := h.store.UpdateTask(ctx, id, up)
	if err != nil {
		h.logger.Error().Err(err).Str("task_id", id).Msg("update task")
		return apperr.FromStore(err, "task")
	}

	if t.Status != current.Status {
		h.announceStatus(c, t)
	}
	h.events.Broadcast(realtime.EventTaskUpdated, t)
	return c.JSON(http.StatusOK, t)
}

// authorizeTaskUpdate lets the seeker edit any field. The assigned provider
// may only move the status, and a provider accepting an unassigned task may
// only send {status: assigned, provider_id: self}. Anonymous callers are not
// checked.
func authorizeTaskUpdate(c echo.Context, t models.Task, up models.TaskUpdate) error {
	caller, ok := identity.From(c.Request().Context())
	if !ok {
		return nil
	}
	switch {
	case caller.UserID == t.SeekerID:
		return nil
	case t.ProviderID != nil && *t.ProviderID == caller.UserID:
		if touchesDetails(up) {
			return apperr.Forbidden("only the seeker may edit task details")
		}
		return nil
	case t.ProviderID == nil && up.ProviderID != nil && *up.ProviderID == caller.UserID:
		if touchesDetails(up) || up.Status == nil || *up.Status != models.StatusAssigned {
			return apperr.Forbidden("accepting a task may only set status assigned and provider_id")
		}
		return nil
	}
	return apperr.Forbidden("only the task's seeker or provider may update it")
}

// touchesDetails reports whether up sets anything besides status and provider.
func touchesDetails(up models.TaskUpdate) bool {
	up.Status, up.ProviderID = nil, nil
	return !up.IsEmpty()
}

func validateTransition(t models.Task, up models.TaskUpdate) error {
	if t.ProviderID != nil && up.ProviderID != nil && *up.ProviderID != *t.ProviderID {
		return apperr.Invalid("provider_id cannot change once the task is assigned")
	}
	if up.Status == nil {
		return nil
	}
	next, err := models.ParseStatus(string(*up.Status))
	if err != nil {
		return apperr.Invalid("%v", err)
	}
	if !models.IsTransitionAllowed(t.Status, next) {
		return apperr.Invalid("cannot move task from %s to %s", t.Status, next)
	}
	if next == models.StatusAssigned && up.ProviderID == nil && t.ProviderID == nil {
		return apperr.Invalid("provider_id is required to assign a task")
	}
	return nil
}

func (h *Handler) announceStatus(c echo.Context, t models.Task) {
	ctx := c.Request().Context()
	var err error
	switch t.Status {
	case models.StatusAssigned:
		err = h.notify.TaskAssigned(ctx, t)
	case models.StatusCompleted:
		err = h.notify.TaskCompleted(ctx, t)
	default:
		return
	}
	if err != nil {
		h.logger.Warn().Err(err).Str("task_id", t.ID).Str("status", string(t.Status)).Msg("enqueue task notification")
	}
}
