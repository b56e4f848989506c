package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// Enqueuer is the part of asynq.Client the scheduler needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Scheduler struct {
	queue Enqueuer
	loc   *time.Location
	log   *zap.Logger
	now   func() time.Time
}

func NewScheduler(queue Enqueuer, loc *time.Location, log *zap.Logger) *Scheduler {
	return &Scheduler{queue: queue, loc: loc, log: log.Named("reminder"), now: time.Now}
}

// Schedule enqueues the reminder. Bookings made less than a day ahead
// get no reminder.
func (s *Scheduler) Schedule(ctx context.Context, b *models.Booking) error {
	fireAt, err := FireAt(b, s.loc)
	if err != nil {
		return err
	}
	if !fireAt.After(s.now()) {
		s.log.Debug("reminder skipped, appointment too close", zap.String("reference", b.Reference))
		return nil
	}

	task, opts, err := NewTask(PayloadFor(b), fireAt)
	if err != nil {
		return err
	}

	info, err := s.queue.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue reminder: %w", err)
	}

	s.log.Info("reminder scheduled",
		zap.String("reference", b.Reference),
		zap.String("task_id", info.ID),
		zap.Time("fire_at", fireAt),
	)
	return nil
}
