package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironbrigade/recruitment-portal/internal/api/metrics"
	"github.com/ironbrigade/recruitment-portal/internal/core/domain"
	"github.com/ironbrigade/recruitment-portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	defaultBuffer  = 256
	publishTimeout = 10 * time.Second
)

// Dispatcher routes workflow events to a fixed set of workers using consistent
// hashing on the application id, preserving per-application event order.
type Dispatcher struct {
	workers   []chan domain.ApplicationEvent
	publisher ports.EventPublisher
	log       zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// buffering up to buffer events. Non-positive values fall back to defaults.
func NewDispatcher(numWorkers, buffer int, publisher ports.EventPublisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	d := &Dispatcher{
		workers:   make([]chan domain.ApplicationEvent, numWorkers),
		publisher: publisher,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ApplicationEvent, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers exit once Close has been
// called and their buffers are drained.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an event to the worker responsible for its application.
// It never blocks: when the worker buffer is full the event is dropped.
func (d *Dispatcher) Enqueue(event domain.ApplicationEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn().Str("type", string(event.Type)).Int64("application_id", event.ApplicationID).Msg("dispatcher closed, dropping event")
		metrics.EventsDroppedTotal.Inc()
		return
	}

	idx := d.shardIndex(event.ApplicationID)
	select {
	case d.workers[idx] <- event:
		metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().
			Str("type", string(event.Type)).
			Int64("application_id", event.ApplicationID).
			Int("worker_id", idx).
			Msg("event buffer full, dropping event")
		metrics.EventsDroppedTotal.Inc()
	}
}

// Close stops accepting events and waits for the workers to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps an application id deterministically to a worker index.
func (d *Dispatcher) shardIndex(applicationID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(applicationID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ApplicationEvent) {
	defer d.wg.Done()
	workerID := strconv.Itoa(id)
	base := context.WithoutCancel(ctx)

	for event := range ch {
		metrics.EventsQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))

		start := time.Now()
		pubCtx, cancel := context.WithTimeout(base, publishTimeout)
		err := d.publisher.Publish(pubCtx, event)
		cancel()
		metrics.EventPublishDuration.WithLabelValues(string(event.Type)).Observe(time.Since(start).Seconds())

		if err != nil {
			metrics.EventsPublishedTotal.WithLabelValues(string(event.Type), "error").Inc()
			d.log.Error().Err(err).
				Str("type", string(event.Type)).
				Int64("application_id", event.ApplicationID).
				Int("worker_id", id).
				Msg("event publish failed")
			continue
		}
		metrics.EventsPublishedTotal.WithLabelValues(string(event.Type), "ok").Inc()
	}
}
