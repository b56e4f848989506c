package audit

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Event struct {
	Action   string
	Actor    string
	Entity   string
	EntityID string
	Metadata any
}

// Recorder persists a single audit event.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	recorder Recorder
	log      *zap.Logger
	queue    chan Event
	done     chan struct{}
	once     sync.Once
}

func NewDispatcher(recorder Recorder, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		recorder: recorder,
		log:      log,
		queue:    make(chan Event, 100),
		done:     make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.recorder.Record(context.Background(), ev); err != nil {
			d.log.Warn("audit error", zap.String("action", ev.Action), zap.Error(err))
		}
	}
}

// Dispatch never blocks the caller; a full queue drops the event.
// A nil Dispatcher is a no-op.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close drains queued events and stops the worker. Dispatch must not be
// called afterwards.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.once.Do(func() {
		close(d.queue)
		<-d.done
	})
}
