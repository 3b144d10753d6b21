package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"ims/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueLowStockAlert = "jobs:low_stock_alert"

	jobTypeLowStockAlert = "low_stock_alert"

	// MaxJobAttempts is how many times a job runs before it is dead-lettered.
	MaxJobAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes the payload of one job. A returned error schedules a retry.
type Handler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueLowStockAlert pushes an alert e-mail job to Redis.
func (d *Dispatcher) EnqueueLowStockAlert(ctx context.Context, alert dto.LowStockAlert) error {
	return d.enqueue(ctx, QueueLowStockAlert, jobTypeLowStockAlert, alert)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func push(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Pool runs a fixed number of goroutines consuming the registered queues.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	queues   []string
	wg       sync.WaitGroup

	// PopTimeout bounds each BRPOP so workers notice cancellation.
	PopTimeout time.Duration
}

func NewPool(rdb *redis.Client) *Pool {
	return &Pool{rdb: rdb, handlers: make(map[string]Handler), PopTimeout: 5 * time.Second}
}

// Register routes jobs popped from queue to h. Call before Start.
func (p *Pool) Register(queue string, h Handler) {
	if _, ok := p.handlers[queue]; !ok {
		p.queues = append(p.queues, queue)
	}
	p.handlers[queue] = h
}

// Start launches numWorkers goroutines. Each blocks on BRPOP, zero CPU when idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	if len(p.queues) == 0 {
		log.Warn().Msg("worker pool has no queues, not starting")
		return
	}
	if numWorkers <= 0 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go p.runWorker(ctx, i)
	}
	log.Info().Strs("queues", p.queues).Msgf("worker pool started with %d workers", numWorkers)
}

// Wait blocks until every worker has returned.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) runWorker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			result, err := p.rdb.BRPop(ctx, p.PopTimeout, p.queues...).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					log.Warn().Err(err).Int("worker", id).Msg("brpop failed")
					time.Sleep(time.Second)
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			p.processJob(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, p.rdb, queue, Job{Type: "unknown", Payload: json.RawMessage(`null`)}, "malformed job: "+err.Error())
		return
	}
	h, ok := p.handlers[queue]
	if !ok {
		log.Error().Str("queue", queue).Str("type", job.Type).Msg("no handler for queue")
		return
	}

	job.Attempts++
	err := h.Process(ctx, job.Payload)
	if err == nil {
		log.Debug().Str("type", job.Type).Str("queue", queue).Int("attempt", job.Attempts).Msg("job done")
		return
	}
	if job.Attempts >= MaxJobAttempts {
		SendToDLQ(ctx, p.rdb, queue, job, err.Error())
		return
	}
	log.Warn().Err(err).Str("type", job.Type).Int("attempt", job.Attempts).Msg("job failed, requeued")
	if err := push(ctx, p.rdb, queue, job); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("requeue failed")
	}
}
