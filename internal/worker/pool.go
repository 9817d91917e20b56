package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"buyonline/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail = "jobs:email"
	JobEmail   = "email"
)

// ErrPermanent marks a job failure that retrying cannot fix. Such jobs go
// straight to the dead letter queue.
var ErrPermanent = errors.New("permanent job failure")

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// Send enqueues an email notification; it satisfies service.Notifier.
func (d *Dispatcher) Send(ctx context.Context, n model.Notification) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, n)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
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

// Handler processes one job payload. A non-nil error schedules a retry
// unless it wraps ErrPermanent.
type Handler interface {
	Handle(ctx context.Context, payload json.RawMessage) error
}

type route struct {
	queue   string
	handler Handler
}

// Pool consumes the registered queues with a fixed number of goroutines.
type Pool struct {
	rdb         *redis.Client
	maxAttempts int
	popTimeout  time.Duration
	routes      map[string]route
	queues      []string
	wg          sync.WaitGroup
}

func NewPool(rdb *redis.Client, maxAttempts int) *Pool {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Pool{
		rdb:         rdb,
		maxAttempts: maxAttempts,
		popTimeout:  5 * time.Second,
		routes:      make(map[string]route),
	}
}

// Register binds jobType on queue to h. Call before Start.
func (p *Pool) Register(queue, jobType string, h Handler) {
	p.routes[jobType] = route{queue: queue, handler: h}
	for _, q := range p.queues {
		if q == queue {
			return
		}
	}
	p.queues = append(p.queues, queue)
}

// Start launches numWorkers goroutines consuming every registered queue.
// Each goroutine blocks on BRPOP, using no CPU when idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go p.runWorker(ctx, i)
	}
	log.Info().Int("workers", numWorkers).Strs("queues", p.queues).Msg("worker pool started")
}

// Wait blocks until every worker has returned after ctx was cancelled.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) runWorker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		if ctx.Err() != nil {
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		}
		// Blocking pop waits up to popTimeout then loops to check ctx
		result, err := p.rdb.BRPop(ctx, p.popTimeout, p.queues...).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Error().Err(err).Int("worker", id).Msg("worker: brpop failed")
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

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, p.rdb, queue, Job{Type: "unknown", Payload: json.RawMessage(`null`)}, "malformed envelope: "+err.Error())
		return
	}
	r, ok := p.routes[job.Type]
	if !ok {
		SendToDLQ(ctx, p.rdb, queue, job, "no handler for job type")
		return
	}

	err := r.handler.Handle(ctx, job.Payload)
	if err == nil {
		return
	}
	job.Attempts++
	if errors.Is(err, ErrPermanent) || job.Attempts >= p.maxAttempts {
		SendToDLQ(ctx, p.rdb, queue, job, err.Error())
		return
	}
	log.Warn().Err(err).Str("type", job.Type).Int("attempt", job.Attempts).Msg("job failed, requeueing")
	if err := push(ctx, p.rdb, queue, job); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("requeue failed")
	}
}
