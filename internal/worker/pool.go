package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"menucost/internal/domain/job"
	"menucost/internal/pkg/clock"
	"menucost/internal/pkg/config"
	"menucost/internal/usecase"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// JobSource is the slice of the job queue the pool consumes.
// Implemented by *kv.Queue.
type JobSource interface {
	Name() string
	Dequeue(ctx context.Context, timeout time.Duration) (*job.Job, error)
	Ack(ctx context.Context, id uuid.UUID, result string) error
	Nack(ctx context.Context, id uuid.UUID, cause error) (bool, error)
	Heartbeat(ctx context.Context, id uuid.UUID) error
	SetProgress(ctx context.Context, id uuid.UUID, pct int) error
	PromoteDelayed(ctx context.Context) (int, error)
	ReapExpired(ctx context.Context) (int, error)
}

// Engine runs one job's cascade. Implemented by *usecase.CascadeEngine.
type Engine interface {
	Run(ctx context.Context, j job.Job, progress func(pct int)) (usecase.Touched, error)
}

// Coordinator applies cache invalidation after a successful cascade.
// Implemented by *usecase.Invalidator.
type Coordinator interface {
	AfterCascade(ctx context.Context, j job.Job, t usecase.Touched)
}

// Pool drains the queue with bounded concurrency and a global throughput
// limit, protecting the entity store from a thundering herd when many prices
// change in a short window (e.g. a bulk invoice approval).
type Pool struct {
	queue       JobSource
	engine      Engine
	coordinator Coordinator
	sink        usecase.MetricsSink
	limiter     *rate.Limiter
	clock       clock.Clock
	logger      *slog.Logger

	concurrency       int
	pollTimeout       time.Duration
	reapInterval      time.Duration
	heartbeatInterval time.Duration
	shutdownTimeout   time.Duration

	mu           sync.Mutex
	cancelIntake context.CancelFunc
	cancelJobs   context.CancelFunc
	done         chan struct{}
}

func NewPool(
	queue JobSource,
	engine Engine,
	coordinator Coordinator,
	sink usecase.MetricsSink,
	cfg config.WorkerConfig,
	queueCfg config.QueueConfig,
	clk clock.Clock,
	logger *slog.Logger,
) *Pool {
	return &Pool{
		queue:             queue,
		engine:            engine,
		coordinator:       coordinator,
		sink:              sink,
		limiter:           rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Concurrency),
		clock:             clk,
		logger:            logger.With(slog.String("queue", queue.Name())),
		concurrency:       cfg.Concurrency,
		pollTimeout:       cfg.PollTimeout,
		reapInterval:      queueCfg.ReapInterval,
		heartbeatInterval: queueCfg.LeaseTTL / 3,
		shutdownTimeout:   cfg.ShutdownTimeout,
	}
}

// Start launches the worker goroutines and the maintenance loop.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancelIntake != nil {
		return
	}

	// Intake and in-flight work stop independently: a drain cancels intake
	// first and jobs keep their own context until the shutdown timeout, so a
	// running cascade is never aborted just because shutdown began.
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	intakeCtx, cancelIntake := context.WithCancel(jobCtx)
	p.cancelIntake = cancelIntake
	p.cancelJobs = cancelJobs
	p.done = make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < p.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			p.runWorker(intakeCtx, jobCtx, workerID)
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.runMaintenance(intakeCtx)
	}()

	go func() {
		wg.Wait()
		close(p.done)
	}()

	p.logger.Info("worker pool started",
		"concurrency", p.concurrency,
		"rate_limit", float64(p.limiter.Limit()),
	)
}

// Stop drains the pool gracefully: no new jobs are picked up, in-flight jobs
// get until the shutdown timeout to finish, and anything abandoned is
// redelivered later by lease expiry.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	cancelIntake, cancelJobs, done := p.cancelIntake, p.cancelJobs, p.done
	p.cancelIntake = nil
	p.cancelJobs = nil
	p.mu.Unlock()
	if cancelIntake == nil {
		return nil
	}
	cancelIntake()
	defer cancelJobs()

	select {
	case <-done:
		p.logger.Info("worker pool drained")
	case <-time.After(p.shutdownTimeout):
		p.logger.Warn("shutdown timeout exceeded, abandoning in-flight jobs for redelivery")
	case <-ctx.Done():
		p.logger.Warn("shutdown cancelled, abandoning in-flight jobs for redelivery")
	}
	return nil
}

func (p *Pool) runWorker(intakeCtx, jobCtx context.Context, workerID int) {
	logger := p.logger.With(slog.Int("worker_id", workerID))
	for {
		if err := p.limiter.Wait(intakeCtx); err != nil {
			return // intake stopped
		}

		j, err := p.queue.Dequeue(intakeCtx, p.pollTimeout)
		if err != nil {
			if intakeCtx.Err() != nil {
				return
			}
			logger.Error("failed to dequeue job", "error", err)
			select {
			case <-intakeCtx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		if j == nil {
			continue
		}

		p.process(jobCtx, logger, j)
	}
}

// runMaintenance promotes due retries and redelivers jobs whose lease
// expired with a crashed worker.
func (p *Pool) runMaintenance(ctx context.Context) {
	ticker := time.NewTicker(p.reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.queue.PromoteDelayed(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error("failed to promote delayed jobs", "error", err)
			}
			if n, err := p.queue.ReapExpired(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error("failed to reap expired leases", "error", err)
			} else if n > 0 {
				p.logger.Info("redelivered jobs with expired leases", "count", n)
			}
		}
	}
}
