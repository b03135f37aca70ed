// Package store is the persistence gateway: table-level reads and writes for
// users, tasks, skills, transactions and withdrawals.
package store

import (
	"context"
	"errors"

	"github.com/sudo-init-do/rentaskill/internal/models"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrConflict            = errors.New("record already exists")
)

type Tasks interface {
	ListTasks(ctx context.Context, f models.TaskFilter) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (models.Task, error)
	CreateTask(ctx context.Context, t models.Task) (models.Task, error)
	UpdateTask(ctx context.Context, id string, up models.TaskUpdate) (models.Task, error)
}

type Users interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	UpdateUser(ctx context.Context, id string, up models.UserUpdate) (models.User, error)
	ListProviders(ctx context.Context, f models.ProviderFilter) ([]models.User, error)
	SetVerified(ctx context.Context, email string, verified bool) error
}

type Skills interface {
	ListSkills(ctx context.Context, f models.SkillFilter) ([]models.Skill, error)
	// RefreshSkillStats recomputes provider_count and returns the number of skills touched.
	RefreshSkillStats(ctx context.Context) (int, error)
}

type Transactions interface {
	// CreateTransaction inserts t. A completed transaction credits the payee's
	// earnings, available balance and completed task count in the same write.
	CreateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error)
	ListTransactions(ctx context.Context, f models.TransactionFilter) ([]models.Transaction, error)
}

type Withdrawals interface {
	// CreateWithdrawal debits the user's available balance and records w atomically.
	CreateWithdrawal(ctx context.Context, w models.Withdrawal) (models.Withdrawal, error)
}

// Store is the full persistence gateway.
type Store interface {
	Tasks
	Users
	Skills
	Transactions
	Withdrawals
	Ping(ctx context.Context) error
	Close()
}
