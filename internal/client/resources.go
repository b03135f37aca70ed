package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sudo-init-do/rentaskill/internal/models"
)

// NewTask is the payload for CreateTask.
type NewTask struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Category       string   `json:"category,omitempty"`
	Budget         float64  `json:"budget"`
	Deadline       string   `json:"deadline,omitempty"`
	SeekerID       string   `json:"seeker_id,omitempty"`
	IsUrgent       bool     `json:"is_urgent"`
	Requirements   []string `json:"requirements,omitempty"`
	VoiceNoteURL   string   `json:"voice_note_url,omitempty"`
	AttachmentURLs []string `json:"attachment_urls,omitempty"`
}

func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var out []models.Task
	return out, c.read(ctx, collTasks, "/tasks", url.Values{}, &out)
}

// TasksByUser lists the tasks a user posted (role seeker) or works on (role provider).
func (c *Client) TasksByUser(ctx context.Context, userID, role string) ([]models.Task, error) {
	var out []models.Task
	q := url.Values{"userId": {userID}, "type": {role}}
	return out, c.read(ctx, collTasks, "/tasks", q, &out)
}

func (c *Client) GetTask(ctx context.Context, id string) (models.Task, error) {
	var out models.Task
	return out, c.read(ctx, collTasks, "/tasks/"+url.PathEscape(id), url.Values{}, &out)
}

func (c *Client) CreateTask(ctx context.Context, t NewTask) (models.Task, error) {
	var out models.Task
	return out, c.write(ctx, http.MethodPost, "/tasks", t, &out, collTasks)
}

func (c *Client) UpdateTask(ctx context.Context, id string, up models.TaskUpdate) (models.Task, error) {
	var out models.Task
	return out, c.write(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), up, &out, collTasks)
}

// AcceptTask assigns the task to providerID.
func (c *Client) AcceptTask(ctx context.Context, taskID, providerID string) (models.Task, error) {
	status := models.StatusAssigned
	return c.UpdateTask(ctx, taskID, models.TaskUpdate{Status: &status, ProviderID: &providerID})
}

// SkillQuery narrows SearchSkills. Zero values are ignored.
type SkillQuery struct {
	Query    string
	Category string
	MaxPrice float64
}

func (c *Client) SearchSkills(ctx context.Context, sq SkillQuery) ([]models.Skill, error) {
	q := url.Values{}
	if sq.Query != "" {
		q.Set("query", sq.Query)
	}
	if sq.Category != "" {
		q.Set("category", sq.Category)
	}
	if sq.MaxPrice > 0 {
		q.Set("maxPrice", strconv.FormatFloat(sq.MaxPrice, 'f', -1, 64))
	}
	var out []models.Skill
	return out, c.read(ctx, collSkills, "/skills", q, &out)
}

// SearchProviders finds providers with a matching skill and an hourly rate
// at or below maxRate. A zero maxRate means no limit.
func (c *Client) SearchProviders(ctx context.Context, skillQuery string, maxRate float64) ([]models.User, error) {
	q := url.Values{}
	if skillQuery != "" {
		q.Set("skillQuery", skillQuery)
	}
	if maxRate > 0 {
		q.Set("maxRate", strconv.FormatFloat(maxRate, 'f', -1, 64))
	}
	var out []models.User
	return out, c.read(ctx, collProviders, "/providers", q, &out)
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	return out, c.read(ctx, collUsers, "/users", url.Values{}, &out)
}

func (c *Client) GetUser(ctx context.Context, id string) (models.User, error) {
	var out models.User
	return out, c.read(ctx, collUsers, "/users", url.Values{"id": {id}}, &out)
}

func (c *Client) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	var out models.User
	return out, c.write(ctx, http.MethodPost, "/users", u, &out, collUsers, collProviders)
}

func (c *Client) UpdateUser(ctx context.Context, id string, up models.UserUpdate) (models.User, error) {
	var out models.User
	return out, c.write(ctx, http.MethodPut, "/users/"+url.PathEscape(id), up, &out, collUsers, collProviders)
}

// NewTransaction is the payload for CreateTransaction. Nil fee and net are
// computed by the server.
type NewTransaction struct {
	TaskID            string         `json:"task_id,omitempty"`
	PayerID           string         `json:"payer_id,omitempty"`
	PayeeID           string         `json:"payee_id,omitempty"`
	Amount            float64        `json:"amount"`
	PlatformFee       *float64       `json:"platform_fee,omitempty"`
	NetAmount         *float64       `json:"net_amount,omitempty"`
	Currency          string         `json:"currency,omitempty"`
	RazorpayOrderID   string         `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string         `json:"razorpay_payment_id,omitempty"`
	RazorpaySignature string         `json:"razorpay_signature,omitempty"`
	Status            string         `json:"status,omitempty"`
	PaymentMethod     string         `json:"payment_method,omitempty"`
	Description       string         `json:"description,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
}

// CreateTransaction records a payment. Balances change, so users are refetched too.
func (c *Client) CreateTransaction(ctx context.Context, t NewTransaction) (models.Transaction, error) {
	var out models.Transaction
	return out, c.write(ctx, http.MethodPost, "/transactions", t, &out, collTransactions, collUsers, collProviders)
}

func (c *Client) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	q := url.Values{}
	if userID != "" {
		q.Set("userId", userID)
	}
	var out []models.Transaction
	return out, c.read(ctx, collTransactions, "/transactions", q, &out)
}

// WithdrawalRequest is the payload for Withdraw.
type WithdrawalRequest struct {
	UserID         string            `json:"user_id,omitempty"`
	Amount         float64           `json:"amount"`
	Method         string            `json:"method"`
	AccountDetails map[string]string `json:"account_details"`
}

func (c *Client) Withdraw(ctx context.Context, req WithdrawalRequest) (models.Withdrawal, error) {
	var out models.Withdrawal
	return out, c.write(ctx, http.MethodPost, "/withdrawals", req, &out, collUsers, collProviders)
}
