// Package alerts queues and delivers marketplace notifications over asynq.
package alerts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/sudo-init-do/rentaskill/internal/models"
)

// Notifier schedules notifications. Implementations must not block on delivery.
type Notifier interface {
	TaskAssigned(ctx context.Context, t models.Task) error
	TaskCompleted(ctx context.Context, t models.Task) error
	PaymentReceived(ctx context.Context, tx models.Transaction) error
	WithdrawalRequested(ctx context.Context, w models.Withdrawal) error
}

// Nop discards every notification. Used when Redis is not configured.
type Nop struct{}

func (Nop) TaskAssigned(context.Context, models.Task) error              { return nil }
func (Nop) TaskCompleted(context.Context, models.Task) error             { return nil }
func (Nop) PaymentReceived(context.Context, models.Transaction) error    { return nil }
func (Nop) WithdrawalRequested(context.Context, models.Withdrawal) error { return nil }

// Queue enqueues notifications on Redis through an asynq client.
type Queue struct {
	client *asynq.Client
}

var _ Notifier = (*Queue)(nil)

func NewQueue(opt asynq.RedisConnOpt) *Queue {
	return &Queue{client: asynq.NewClient(opt)}
}

func (q *Queue) Close() error { return q.client.Close() }

func (q *Queue) TaskAssigned(ctx context.Context, t models.Task) error {
	task, err := newTaskEvent(TaskTaskAssigned, t)
	return q.enqueue(ctx, task, err)
}

func (q *Queue) TaskCompleted(ctx context.Context, t models.Task) error {
	task, err := newTaskEvent(TaskTaskCompleted, t)
	return q.enqueue(ctx, task, err)
}

func (q *Queue) PaymentReceived(ctx context.Context, tx models.Transaction) error {
	task, err := newPaymentReceived(tx)
	return q.enqueue(ctx, task, err)
}

func (q *Queue) WithdrawalRequested(ctx context.Context, w models.Withdrawal) error {
	task, err := newWithdrawalRequested(w)
	return q.enqueue(ctx, task, err)
}

func (q *Queue) enqueue(ctx context.Context, task *asynq.Task, err error) error {
	if err != nil {
		return err
	}
	_, err = q.client.EnqueueContext(ctx, task, asynq.Queue(queueEmails), asynq.MaxRetry(5))
	return err
}

func newTaskEvent(typename string, t models.Task) (*asynq.Task, error) {
	p := TaskPayload{
		TaskID:   t.ID,
		Title:    t.Title,
		SeekerID: t.SeekerID,
		Budget:   t.Budget,
		SentAt:   time.Now(),
	}
	if t.ProviderID != nil {
		p.ProviderID = *t.ProviderID
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(typename, b), nil
}

func newPaymentReceived(tx models.Transaction) (*asynq.Task, error) {
	b, err := json.Marshal(PaymentPayload{
		TransactionID: tx.ID,
		TaskID:        tx.TaskID,
		PayeeID:       tx.PayeeID,
		NetAmount:     tx.NetAmount,
		Currency:      tx.Currency,
		SentAt:        time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPaymentReceived, b), nil
}

func newWithdrawalRequested(w models.Withdrawal) (*asynq.Task, error) {
	b, err := json.Marshal(WithdrawalPayload{
		WithdrawalID: w.ID,
		UserID:       w.UserID,
		Amount:       w.Amount,
		NetAmount:    w.NetAmount,
		Method:       w.Method,
		SentAt:       time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWithdrawalRequested, b), nil
}
