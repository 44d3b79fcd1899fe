package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/bookinghub/booking-system/internal/api/metrics"
	"github.com/bookinghub/booking-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes auth audit events to a fixed set of workers using
// consistent hashing on the email, so records for one account are persisted
// in the order they occurred.
type Dispatcher struct {
	workers []chan ports.AuthEventInput
	repo    ports.AuthEventRepository
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuthEventRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.AuthEventInput, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AuthEventInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an event to the worker responsible for its email. The audit
// trail is best-effort: when the worker's buffer is full the event is dropped
// and counted, never blocking the request path.
func (d *Dispatcher) Enqueue(event ports.AuthEventInput) {
	idx := d.shardIndex(event.Email)
	select {
	case d.workers[idx] <- event:
		metrics.AuthEventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuthEventsDroppedTotal.Inc()
		d.log.Warn().
			Str("email", event.Email).
			Str("kind", string(event.Kind)).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps an email deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.AuthEventInput) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuthEventsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := d.repo.Insert(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("email", event.Email).
					Str("kind", string(event.Kind)).
					Int("worker_id", id).
					Msg("audit event persistence failed")
			}
		}
	}
}
