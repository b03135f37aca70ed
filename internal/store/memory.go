package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sudo-init-do/rentaskill/internal/models"
	"github.com/sudo-init-do/rentaskill/internal/money"
)

// Memory is an in-process Store used for local runs and tests.
type Memory struct {
	mu           sync.RWMutex
	users        map[string]models.User
	tasks        map[string]models.Task
	skills       map[string]models.Skill
	transactions []models.Transaction
	withdrawals  []models.Withdrawal
	now          func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:  make(map[string]models.User),
		tasks:  make(map[string]models.Task),
		skills: make(map[string]models.Skill),
		now:    time.Now,
	}
}

func (m *Memory) Ping(context.Context) error { return nil }
func (m *Memory) Close()                     {}

// SeedSkills replaces the skill reference data.
func (m *Memory) SeedSkills(skills ...models.Skill) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range skills {
		if s.ID == "" {
			s.ID = uuid.New().String()
		}
		m.skills[s.ID] = s
	}
}

// ===== Tasks =====

func (m *Memory) ListTasks(_ context.Context, f models.TaskFilter) ([]models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) GetTask(_ context.Context, id string) (models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	if !ok {
		return models.Task{}, ErrNotFound
	}
	return t, nil
}

func (m *Memory) CreateTask(_ context.Context, t models.Task) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := m.now()
	t.CreatedAt, t.UpdatedAt = now, now
	m.tasks[t.ID] = t
	return t, nil
}

func (m *Memory) UpdateTask(_ context.Context, id string, up models.TaskUpdate) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return models.Task{}, ErrNotFound
	}
	up.Apply(&t)
	t.UpdatedAt = m.now()
	m.tasks[id] = t
	return t, nil
}

// ===== Users =====

func (m *Memory) ListUsers(context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) GetUser(_ context.Context, id string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (m *Memory) CreateUser(_ context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if _, taken := m.users[u.ID]; taken {
		return models.User{}, ErrConflict
	}
	for _, other := range m.users {
		if u.Email != "" && strings.EqualFold(other.Email, u.Email) {
			return models.User{}, ErrConflict
		}
	}
	u.CreatedAt = m.now()
	m.users[u.ID] = u
	return u, nil
}

func (m *Memory) UpdateUser(_ context.Context, id string, up models.UserUpdate) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	up.Apply(&u)
	m.users[id] = u
	return u, nil
}

func (m *Memory) ListProviders(_ context.Context, f models.ProviderFilter) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.User, 0)
	for _, u := range m.users {
		if f.Matches(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	return out, nil
}

func (m *Memory) SetVerified(_ context.Context, email string, verified bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			u.IsVerified = verified
			m.users[id] = u
			return nil
		}
	}
	return ErrNotFound
}

// ===== Skills =====

func (m *Memory) ListSkills(_ context.Context, f models.SkillFilter) ([]models.Skill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Skill, 0, len(m.skills))
	for _, s := range m.skills {
		if f.Matches(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) RefreshSkillStats(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.skills {
		count := 0
		for _, u := range m.users {
			if !u.IsProvider() {
				continue
			}
			for _, name := range u.Skills {
				if strings.EqualFold(name, s.Name) {
					count++
					break
				}
			}
		}
		s.ProviderCount = count
		m.skills[id] = s
	}
	return len(m.skills), nil
}

// ===== Transactions =====

func (m *Memory) CreateTransaction(_ context.Context, t models.Transaction) (models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.CreatedAt = m.now()
	if t.Status == models.TxCompleted {
		if payee, ok := m.users[t.PayeeID]; ok {
			payee.TotalEarnings += t.NetAmount
			payee.AvailableBalance += t.NetAmount
			payee.CompletedTasks++
			m.users[payee.ID] = payee
		}
	}
	m.transactions = append(m.transactions, t)
	return t, nil
}

func (m *Memory) ListTransactions(_ context.Context, f models.TransactionFilter) ([]models.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Transaction, 0)
	for i := len(m.transactions) - 1; i >= 0; i-- {
		if f.Matches(m.transactions[i]) {
			out = append(out, m.transactions[i])
		}
	}
	return out, nil
}

// ===== Withdrawals =====

func (m *Memory) CreateWithdrawal(_ context.Context, w models.Withdrawal) (models.Withdrawal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[w.UserID]
	if !ok {
		return models.Withdrawal{}, ErrNotFound
	}
	if u.AvailableBalance < w.Amount {
		return models.Withdrawal{}, ErrInsufficientBalance
	}
	u.AvailableBalance = money.Net(u.AvailableBalance, w.Amount)
	m.users[u.ID] = u

	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	w.CreatedAt = m.now()
	m.withdrawals = append(m.withdrawals, w)
	return w, nil
}
