package alerts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/sudo-init-do/rentaskill/internal/models"
)

// UserLookup resolves notification recipients.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (models.User, error)
}

// Worker consumes the notification queue.
type Worker struct {
	server *asynq.Server
	users  UserLookup
	sender Sender
	logger zerolog.Logger
}

func NewWorker(opt asynq.RedisConnOpt, users UserLookup, sender Sender, logger zerolog.Logger) *Worker {
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{queueEmails: 10},
	})
	return &Worker{server: srv, users: users, sender: sender, logger: logger}
}

// Mux routes task types to their handlers.
func (w *Worker) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTaskAssigned, w.handleTaskAssigned)
	mux.HandleFunc(TaskTaskCompleted, w.handleTaskCompleted)
	mux.HandleFunc(TaskPaymentReceived, w.handlePaymentReceived)
	mux.HandleFunc(TaskWithdrawalRequested, w.handleWithdrawalRequested)
	return mux
}

// Start runs the worker in the background.
func (w *Worker) Start() error {
	if err := w.server.Start(w.Mux()); err != nil {
		return fmt.Errorf("start notification worker: %w", err)
	}
	w.logger.Info().Msg("notification worker started")
	return nil
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func (w *Worker) handleTaskAssigned(ctx context.Context, t *asynq.Task) error {
	var p TaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	return w.deliver(ctx, t.Type(), p.SeekerID, func(u models.User) Envelope {
		return Envelope{
			To:      u.Email,
			Subject: "A provider accepted your task",
			Body:    fmt.Sprintf("Hi %s, your task %q now has a provider assigned.", u.Name, p.Title),
		}
	})
}

func (w *Worker) handleTaskCompleted(ctx context.Context, t *asynq.Task) error {
	var p TaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	return w.deliver(ctx, t.Type(), p.SeekerID, func(u models.User) Envelope {
		return Envelope{
			To:      u.Email,
			Subject: "Your task is complete",
			Body:    fmt.Sprintf("Hi %s, your task %q was marked completed.", u.Name, p.Title),
		}
	})
}

func (w *Worker) handlePaymentReceived(ctx context.Context, t *asynq.Task) error {
	var p PaymentPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	return w.deliver(ctx, t.Type(), p.PayeeID, func(u models.User) Envelope {
		return Envelope{
			To:      u.Email,
			Subject: "Payment received",
			Body:    fmt.Sprintf("Hi %s, %.2f %s has been added to your balance.", u.Name, p.NetAmount, p.Currency),
		}
	})
}

func (w *Worker) handleWithdrawalRequested(ctx context.Context, t *asynq.Task) error {
	var p WithdrawalPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	return w.deliver(ctx, t.Type(), p.UserID, func(u models.User) Envelope {
		return Envelope{
			To:      u.Email,
			Subject: "Withdrawal requested",
			Body:    fmt.Sprintf("Hi %s, your withdrawal of %.2f via %s is being processed. You will receive %.2f.", u.Name, p.Amount, p.Method, p.NetAmount),
		}
	})
}

func (w *Worker) deliver(ctx context.Context, typename, userID string, render func(models.User) Envelope) error {
	if userID == "" {
		return fmt.Errorf("%w: %s has no recipient", asynq.SkipRetry, typename)
	}
	u, err := w.users.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("load recipient %s: %w", userID, err)
	}
	if u.Email == "" {
		w.logger.Warn().Str("type", typename).Str("user_id", userID).Msg("recipient has no email")
		return nil
	}
	if err := w.sender.Send(ctx, render(u)); err != nil {
		w.logger.Error().Err(err).Str("type", typename).Str("user_id", userID).Msg("notification send failed")
		return err
	}
	w.logger.Info().Str("type", typename).Str("user_id", userID).Msg("notification sent")
	return nil
}
