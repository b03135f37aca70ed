// Package postgres implements store.Store on a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sudo-init-do/rentaskill/internal/models"
	"github.com/sudo-init-do/rentaskill/internal/store"
)

// Store is the Postgres-backed persistence gateway.
type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }
func (s *Store) Close()                         { s.pool.Close() }

// conditions accumulates WHERE clauses. Each clause carries a single %d that
// is replaced by the position of its argument.
type conditions struct {
	clauses []string
	args    []any
}

func (c *conditions) add(clause string, arg any) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, fmt.Sprintf(clause, len(c.args)))
}

func (c *conditions) addRaw(clause string) {
	c.clauses = append(c.clauses, clause)
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// Postgres SQLSTATE codes the gateway translates.
const (
	codeInvalidText     = "22P02"
	codeUniqueViolation = "23505"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// notFound maps a missing row, or an id that is not a valid uuid, to
// store.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) || pgCode(err) == codeInvalidText {
		return store.ErrNotFound
	}
	return err
}

// conflict maps a unique violation to store.ErrConflict.
func conflict(err error) error {
	if pgCode(err) == codeUniqueViolation {
		return fmt.Errorf("%w: %s", store.ErrConflict, err)
	}
	return err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ===== Tasks =====

const taskColumns = `id::text, title, description, category, budget::float8, deadline, status,
    seeker_id::text, provider_id::text, is_urgent, requirements, voice_note_url, attachment_urls,
    created_at, updated_at`

func scanTask(row pgx.Row) (models.Task, error) {
	var t models.Task
	var status string
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Category, &t.Budget, &t.Deadline, &status,
		&t.SeekerID, &t.ProviderID, &t.IsUrgent, &t.Requirements, &t.VoiceNoteURL, &t.AttachmentURLs,
		&t.CreatedAt, &t.UpdatedAt)
	t.Status = models.Status(status)
	return t, err
}

func taskQuery(f models.TaskFilter) (string, []any) {
	var c conditions
	if f.SeekerID != "" {
		c.add("seeker_id = $%d", f.SeekerID)
	}
	if f.ProviderID != "" {
		c.add("provider_id = $%d", f.ProviderID)
	}
	if f.Status != "" {
		c.add("status = $%d", string(f.Status))
	}
	if f.Category != "" {
		c.add("category = $%d", f.Category)
	}
	return "SELECT " + taskColumns + " FROM tasks" + c.where() + " ORDER BY created_at DESC", c.args
}

func (s *Store) ListTasks(ctx context.Context, f models.TaskFilter) ([]models.Task, error) {
	query, args := taskQuery(f)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return emptyOnMalformedID[models.Task](nil, err)
	}
	defer rows.Close()

	out := make([]models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return emptyOnMalformedID(out, rows.Err())
}

func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	t, err := scanTask(s.pool.QueryRow(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = $1", id))
	return t, notFound(err)
}

func (s *Store) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Requirements == nil {
		t.Requirements = []string{}
	}
	if t.AttachmentURLs == nil {
		t.AttachmentURLs = []string{}
	}
	row := s.pool.QueryRow(ctx, `
        INSERT INTO tasks (id, title, description, category, budget, deadline, status, seeker_id,
                           provider_id, is_urgent, requirements, voice_note_url, attachment_urls)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING `+taskColumns,
		t.ID, t.Title, t.Description, t.Category, t.Budget, t.Deadline, string(t.Status), t.SeekerID,
		t.ProviderID, t.IsUrgent, t.Requirements, t.VoiceNoteURL, t.AttachmentURLs)
	return scanTask(row)
}

func (s *Store) UpdateTask(ctx context.Context, id string, up models.TaskUpdate) (models.Task, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Task{}, err
	}
	defer tx.Rollback(ctx)

	t, err := scanTask(tx.QueryRow(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		return models.Task{}, notFound(err)
	}
	up.Apply(&t)

	row := tx.QueryRow(ctx, `
        UPDATE tasks SET title = $2, description = $3, category = $4, budget = $5, deadline = $6,
               status = $7, provider_id = $8, is_urgent = $9, requirements = $10, updated_at = NOW()
        WHERE id = $1
        RETURNING `+taskColumns,
		id, t.Title, t.Description, t.Category, t.Budget, t.Deadline, string(t.Status),
		t.ProviderID, t.IsUrgent, t.Requirements)
	updated, err := scanTask(row)
	if err != nil {
		return models.Task{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return models.Task{}, err
	}
	return updated, nil
}

// ===== Users =====

const userColumns = `id::text, name, email, avatar_url, user_type, profile_type, bio, college, company,
    phone, skills, hourly_rate::float8, is_verified, rating::float8, completed_tasks,
    total_earnings::float8, available_balance::float8, created_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.AvatarURL, &u.UserType, &u.ProfileType, &u.Bio,
		&u.College, &u.Company, &u.Phone, &u.Skills, &u.HourlyRate, &u.IsVerified, &u.Rating,
		&u.CompletedTasks, &u.TotalEarnings, &u.AvailableBalance, &u.CreatedAt)
	return u, err
}

func (s *Store) collectUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// emptyOnMalformedID turns a filter on a non-uuid id into an empty result.
func emptyOnMalformedID[T any](out []T, err error) ([]T, error) {
	if pgCode(err) == codeInvalidText {
		return make([]T, 0), nil
	}
	return out, err
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.collectUsers(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
	return u, notFound(err)
}

func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Skills == nil {
		u.Skills = []string{}
	}
	row := s.pool.QueryRow(ctx, `
        INSERT INTO users (id, name, email, avatar_url, user_type, profile_type, bio, college, company,
                           phone, skills, hourly_rate, is_verified, rating, completed_tasks,
                           total_earnings, available_balance)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
        RETURNING `+userColumns,
		u.ID, u.Name, u.Email, u.AvatarURL, u.UserType, u.ProfileType, u.Bio, u.College, u.Company,
		u.Phone, u.Skills, u.HourlyRate, u.IsVerified, u.Rating, u.CompletedTasks,
		u.TotalEarnings, u.AvailableBalance)
	created, err := scanUser(row)
	if err != nil {
		return models.User{}, conflict(err)
	}
	return created, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, up models.UserUpdate) (models.User, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.User{}, err
	}
	defer tx.Rollback(ctx)

	u, err := scanUser(tx.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		return models.User{}, notFound(err)
	}
	up.Apply(&u)

	row := tx.QueryRow(ctx, `
        UPDATE users SET name = $2, avatar_url = $3, user_type = $4, profile_type = $5, bio = $6,
               college = $7, company = $8, phone = $9, skills = $10, hourly_rate = $11
        WHERE id = $1
        RETURNING `+userColumns,
		id, u.Name, u.AvatarURL, u.UserType, u.ProfileType, u.Bio, u.College, u.Company, u.Phone,
		u.Skills, u.HourlyRate)
	updated, err := scanUser(row)
	if err != nil {
		return models.User{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return models.User{}, err
	}
	return updated, nil
}

func providerQuery(f models.ProviderFilter) (string, []any) {
	var c conditions
	c.addRaw("user_type IN ('provider','both')")
	if f.SkillQuery != "" {
		c.add("EXISTS (SELECT 1 FROM unnest(skills) AS sk WHERE sk ILIKE $%d)", "%"+f.SkillQuery+"%")
	}
	if f.MaxRate != nil {
		c.add("hourly_rate <= $%d", *f.MaxRate)
	}
	return "SELECT " + userColumns + " FROM users" + c.where() + " ORDER BY rating DESC", c.args
}

func (s *Store) ListProviders(ctx context.Context, f models.ProviderFilter) ([]models.User, error) {
	query, args := providerQuery(f)
	return s.collectUsers(ctx, query, args...)
}

func (s *Store) SetVerified(ctx context.Context, email string, verified bool) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET is_verified = $1 WHERE LOWER(email) = LOWER($2)`, verified, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ===== Skills =====

func skillQuery(f models.SkillFilter) (string, []any) {
	var c conditions
	if f.Query != "" {
		c.add("name ILIKE $%d", "%"+f.Query+"%")
	}
	if f.Category != "" {
		c.add("category = $%d", f.Category)
	}
	if f.MaxPrice != nil {
		c.add("average_price <= $%d", *f.MaxPrice)
	}
	return `SELECT id::text, name, category, average_price::float8, provider_count, rating::float8, is_popular
        FROM skills` + c.where() + " ORDER BY name", c.args
}

func (s *Store) ListSkills(ctx context.Context, f models.SkillFilter) ([]models.Skill, error) {
	query, args := skillQuery(f)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Skill, 0)
	for rows.Next() {
		var sk models.Skill
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.Category, &sk.AveragePrice, &sk.ProviderCount,
			&sk.Rating, &sk.IsPopular); err != nil {
			return nil, err
		}
		out = append(out, sk)
	}
	return out, rows.Err()
}

func (s *Store) RefreshSkillStats(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `
        UPDATE skills SET provider_count = (
            SELECT COUNT(*) FROM users u
            WHERE u.user_type IN ('provider','both')
              AND EXISTS (SELECT 1 FROM unnest(u.skills) AS sk WHERE LOWER(sk) = LOWER(skills.name))
        )`)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// ===== Transactions =====

const transactionColumns = `id::text, COALESCE(task_id::text, ''), COALESCE(payer_id::text, ''),
    COALESCE(payee_id::text, ''), amount::float8, platform_fee::float8, net_amount::float8, currency,
    razorpay_order_id, razorpay_payment_id, razorpay_signature, status, payment_method, description,
    metadata, created_at`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.TaskID, &t.PayerID, &t.PayeeID, &t.Amount, &t.PlatformFee, &t.NetAmount,
		&t.Currency, &t.RazorpayOrderID, &t.RazorpayPaymentID, &t.RazorpaySignature, &t.Status,
		&t.PaymentMethod, &t.Description, &t.Metadata, &t.CreatedAt)
	return t, err
}

func (s *Store) CreateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Transaction{}, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
        INSERT INTO transactions (id, task_id, payer_id, payee_id, amount, platform_fee, net_amount,
                                  currency, razorpay_order_id, razorpay_payment_id, razorpay_signature,
                                  status, payment_method, description, metadata)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING `+transactionColumns,
		t.ID, nullable(t.TaskID), nullable(t.PayerID), nullable(t.PayeeID), t.Amount, t.PlatformFee,
		t.NetAmount, t.Currency, t.RazorpayOrderID, t.RazorpayPaymentID, t.RazorpaySignature,
		t.Status, t.PaymentMethod, t.Description, t.Metadata)
	created, err := scanTransaction(row)
	if err != nil {
		return models.Transaction{}, err
	}

	if created.Status == models.TxCompleted && created.PayeeID != "" {
		if _, err := tx.Exec(ctx, `
            UPDATE users SET total_earnings = total_earnings + $1,
                             available_balance = available_balance + $1,
                             completed_tasks = completed_tasks + 1
            WHERE id = $2`, created.NetAmount, created.PayeeID); err != nil {
			return models.Transaction{}, fmt.Errorf("credit payee: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Transaction{}, err
	}
	return created, nil
}

func transactionQuery(f models.TransactionFilter) (string, []any) {
	var c conditions
	if f.UserID != "" {
		c.add("(payer_id = $%[1]d OR payee_id = $%[1]d)", f.UserID)
	}
	if f.TaskID != "" {
		c.add("task_id = $%d", f.TaskID)
	}
	return "SELECT " + transactionColumns + " FROM transactions" + c.where() + " ORDER BY created_at DESC", c.args
}

func (s *Store) ListTransactions(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, error) {
	query, args := transactionQuery(f)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return emptyOnMalformedID[models.Transaction](nil, err)
	}
	defer rows.Close()

	out := make([]models.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return emptyOnMalformedID(out, rows.Err())
}

// ===== Withdrawals =====

func (s *Store) CreateWithdrawal(ctx context.Context, w models.Withdrawal) (models.Withdrawal, error) {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Withdrawal{}, err
	}
	defer tx.Rollback(ctx)

	var balance float64
	err = tx.QueryRow(ctx, `SELECT available_balance::float8 FROM users WHERE id = $1 FOR UPDATE`, w.UserID).Scan(&balance)
	if err != nil {
		return models.Withdrawal{}, notFound(err)
	}
	if balance < w.Amount {
		return models.Withdrawal{}, store.ErrInsufficientBalance
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET available_balance = available_balance - $1 WHERE id = $2`,
		w.Amount, w.UserID); err != nil {
		return models.Withdrawal{}, fmt.Errorf("debit balance: %w", err)
	}

	var createdAt time.Time
	err = tx.QueryRow(ctx, `
        INSERT INTO withdrawals (id, user_id, amount, processing_fee, net_amount, method, account_details, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING created_at`,
		w.ID, w.UserID, w.Amount, w.ProcessingFee, w.NetAmount, w.Method, w.AccountDetails, w.Status,
	).Scan(&createdAt)
	if err != nil {
		return models.Withdrawal{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Withdrawal{}, err
	}
	w.CreatedAt = createdAt
	return w, nil
}
