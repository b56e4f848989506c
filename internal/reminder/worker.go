package reminder

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
)

// Notifier delivers reminder text to the client.
type Notifier interface {
	Notify(ctx context.Context, p Payload) error
}

// LogNotifier only logs; the salon has no outbound messaging channel yet.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.Named("reminder")}
}

func (n *LogNotifier) Notify(_ context.Context, p Payload) error {
	n.log.Info(p.Text(), zap.String("reference", p.Reference))
	return nil
}

// Handler processes booking reminder tasks.
func Handler(notifier Notifier, auditor *audit.Dispatcher, log *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p Payload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Error("invalid reminder payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		if err := notifier.Notify(ctx, p); err != nil {
			log.Warn("reminder delivery failed", zap.String("reference", p.Reference), zap.Error(err))
			return err
		}

		auditor.Dispatch(audit.Event{
			Action:   "reminder_sent",
			Actor:    "system",
			Entity:   "booking",
			EntityID: p.BookingID,
			Metadata: map[string]string{"reference": p.Reference},
		})
		return nil
	}
}

// NewServer builds the asynq worker with the reminder handler mounted.
func NewServer(
	redis asynq.RedisClientOpt,
	notifier Notifier,
	auditor *audit.Dispatcher,
	log *zap.Logger,
) (*asynq.Server, *asynq.ServeMux) {

	srv := asynq.NewServer(redis, asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{"default": 1},
		Logger:      log.Named("asynq").Sugar(),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingReminder, Handler(notifier, auditor, log.Named("reminder")))
	return srv, mux
}
