package kv

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"menucost/internal/domain/job"
	"menucost/internal/infra"
	"menucost/internal/pkg/clock"
	"menucost/internal/pkg/config"
	"menucost/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Queue is a durable job channel over the backing key-value store with
// at-least-once delivery.
//
// Layout: waiting jobs sit in a list, in-flight jobs in a processing list
// guarded by a TTL'd lease key, retries in a delayed sorted set scored by
// their due time. The job hash (status/progress/attempts/result/error) backs
// the status-polling API and outlives the job by StatusTTL.
//
// Redelivery: a worker crash leaves the processing entry without a live
// lease; the reaper moves it back to waiting. Consumers must therefore be
// idempotent: the cascade recomputes from current store state, so re-running
// an already-consistent job is a no-op in effect.
type Queue struct {
	client Client
	clock  clock.Clock
	logger *slog.Logger

	name        string
	maxAttempts int
	leaseTTL    time.Duration
	backoffBase time.Duration
	backoffCap  time.Duration
	statusTTL   time.Duration
}

func NewQueue(client Client, cfg config.QueueConfig, clk clock.Clock, logger *slog.Logger) *Queue {
	return &Queue{
		client:      client,
		clock:       clk,
		logger:      logger.With(slog.String("queue", cfg.Name)),
		name:        cfg.Name,
		maxAttempts: cfg.MaxAttempts,
		leaseTTL:    cfg.LeaseTTL,
		backoffBase: cfg.BackoffBase,
		backoffCap:  cfg.BackoffCap,
		statusTTL:   cfg.StatusTTL,
	}
}

func (q *Queue) Name() string {
	return q.name
}

// Enqueue assigns an id, persists the job durably and makes it visible to
// workers. Synchronous: an error here means the job was NOT accepted, it is
// never silently dropped.
func (q *Queue) Enqueue(ctx context.Context, j job.Job) (uuid.UUID, error) {
	j.ID = uuid.New()
	j.Attempts = 0
	j.EnqueuedAt = q.clock.Now()

	payload, err := json.Marshal(j)
	if err != nil {
		return uuid.Nil, errs.Wrap(err, "failed to marshal job payload")
	}

	id := j.ID.String()
	fields := []interface{}{
		"payload", string(payload),
		"status", string(job.StateWaiting),
		"progress", 0,
		"attempts", 0,
		"enqueued_at", j.EnqueuedAt.Format(time.RFC3339Nano),
	}
	if err := q.client.HSet(ctx, jobKey(id), fields...).Err(); err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to persist job", err, infra.KindKVFailure)
	}
	if err := q.client.Expire(ctx, jobKey(id), q.statusTTL).Err(); err != nil {
		q.logger.Warn("failed to set job status ttl", "job_id", id, "error", err)
	}
	if err := q.client.LPush(ctx, waitingKey(q.name), id).Err(); err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to enqueue job", err, infra.KindKVFailure)
	}
	return j.ID, nil
}

// Dequeue blocks up to timeout for the next waiting job, moves it to the
// processing list and takes a lease on it. Returns (nil, nil) when no job
// became available within the timeout.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*job.Job, error) {
	id, err := q.client.BLMove(ctx, waitingKey(q.name), processingKey(q.name), "RIGHT", "LEFT", timeout).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to dequeue job", err, infra.KindKVFailure)
	}

	if err := q.client.Set(ctx, leaseKey(id), "1", q.leaseTTL).Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to take job lease", err, infra.KindKVFailure)
	}

	fields, err := q.client.HGetAll(ctx, jobKey(id)).Result()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load job", err, infra.KindKVFailure)
	}
	if len(fields) == 0 {
		// Status record expired while the id was still queued; drop it.
		q.logger.Warn("dequeued job without status record, dropping", "job_id", id)
		q.client.LRem(ctx, processingKey(q.name), 1, id)
		q.client.Del(ctx, leaseKey(id))
		return nil, nil
	}

	var j job.Job
	if err := json.Unmarshal([]byte(fields["payload"]), &j); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshal job payload")
	}
	j.Attempts, _ = strconv.Atoi(fields["attempts"])

	if err := q.client.HSet(ctx, jobKey(id), "status", string(job.StateActive)).Err(); err != nil {
		q.logger.Warn("failed to mark job active", "job_id", id, "error", err)
	}
	return &j, nil
}

// Heartbeat extends the lease of an in-flight job.
func (q *Queue) Heartbeat(ctx context.Context, id uuid.UUID) error {
	if err := q.client.Expire(ctx, leaseKey(id.String()), q.leaseTTL).Err(); err != nil {
		return infra.WrapRepoErr("failed to extend job lease", err, infra.KindKVFailure)
	}
	return nil
}

// SetProgress records incremental progress (0-100) for UI polling.
func (q *Queue) SetProgress(ctx context.Context, id uuid.UUID, pct int) error {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	if err := q.client.HSet(ctx, jobKey(id.String()), "progress", pct).Err(); err != nil {
		return infra.WrapRepoErr("failed to record job progress", err, infra.KindKVFailure)
	}
	return nil
}

// Ack marks the job completed and releases it.
func (q *Queue) Ack(ctx context.Context, id uuid.UUID, result string) error {
	key := id.String()
	if err := q.client.LRem(ctx, processingKey(q.name), 1, key).Err(); err != nil {
		return infra.WrapRepoErr("failed to release job", err, infra.KindKVFailure)
	}
	q.client.Del(ctx, leaseKey(key))

	fields := []interface{}{
		"status", string(job.StateCompleted),
		"progress", 100,
		"result", result,
	}
	if err := q.client.HSet(ctx, jobKey(key), fields...).Err(); err != nil {
		return infra.WrapRepoErr("failed to record job completion", err, infra.KindKVFailure)
	}
	q.client.Expire(ctx, jobKey(key), q.statusTTL)
	return nil
}

// Nack records a failed attempt. While attempts remain the job is scheduled
// for redelivery with exponential backoff; once exhausted it is marked
// permanently failed and only surfaced through status polling and the
// observability sink.
//
// Returns true when a retry was scheduled.
func (q *Queue) Nack(ctx context.Context, id uuid.UUID, cause error) (bool, error) {
	key := id.String()
	if err := q.client.LRem(ctx, processingKey(q.name), 1, key).Err(); err != nil {
		return false, infra.WrapRepoErr("failed to release job", err, infra.KindKVFailure)
	}
	q.client.Del(ctx, leaseKey(key))

	attempts, err := q.client.HIncrBy(ctx, jobKey(key), "attempts", 1).Result()
	if err != nil {
		return false, infra.WrapRepoErr("failed to count job attempt", err, infra.KindKVFailure)
	}

	msg := ""
	if cause != nil {
		msg = cause.Error()
	}

	if int(attempts) >= q.maxAttempts {
		fields := []interface{}{
			"status", string(job.StateFailed),
			"error", msg,
		}
		if err := q.client.HSet(ctx, jobKey(key), fields...).Err(); err != nil {
			return false, infra.WrapRepoErr("failed to record job failure", err, infra.KindKVFailure)
		}
		q.client.Expire(ctx, jobKey(key), q.statusTTL)
		return false, nil
	}

	due := q.clock.Now().Add(q.BackoffFor(int(attempts)))
	member := redis.Z{Score: float64(due.UnixMilli()) / 1000.0, Member: key}
	if err := q.client.ZAdd(ctx, delayedKey(q.name), member).Err(); err != nil {
		return false, infra.WrapRepoErr("failed to schedule job retry", err, infra.KindKVFailure)
	}
	fields := []interface{}{
		"status", string(job.StateWaiting),
		"error", msg,
	}
	if err := q.client.HSet(ctx, jobKey(key), fields...).Err(); err != nil {
		q.logger.Warn("failed to record retry status", "job_id", key, "error", err)
	}
	return true, nil
}

// BackoffFor returns the delay before redelivering attempt n (1-based).
func (q *Queue) BackoffFor(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := q.backoffBase
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= q.backoffCap {
			return q.backoffCap
		}
	}
	if d > q.backoffCap {
		return q.backoffCap
	}
	return d
}

// Status is the non-blocking poll of a job's lifecycle state.
func (q *Queue) Status(ctx context.Context, id uuid.UUID) (job.Status, error) {
	fields, err := q.client.HGetAll(ctx, jobKey(id.String())).Result()
	if err != nil {
		return job.Status{}, infra.WrapRepoErr("failed to load job status", err, infra.KindKVFailure)
	}
	if len(fields) == 0 {
		return job.Status{}, errs.Mark(errs.New("no status record for job "+id.String()), errs.ErrJobNotFound)
	}

	progress, _ := strconv.Atoi(fields["progress"])
	attempts, _ := strconv.Atoi(fields["attempts"])
	return job.Status{
		State:    job.State(fields["status"]),
		Progress: progress,
		Result:   fields["result"],
		Error:    fields["error"],
		Attempts: attempts,
	}, nil
}

// PromoteDelayed moves due retries back to the waiting list.
func (q *Queue) PromoteDelayed(ctx context.Context) (int, error) {
	now := float64(q.clock.Now().UnixMilli()) / 1000.0
	due, err := q.client.ZRangeByScore(ctx, delayedKey(q.name), &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatFloat(now, 'f', -1, 64),
	}).Result()
	if err != nil {
		return 0, infra.WrapRepoErr("failed to read delayed jobs", err, infra.KindKVFailure)
	}

	promoted := 0
	for _, id := range due {
		// ZRem claims the member; only the claimer requeues it, so
		// concurrent promoters never duplicate a job.
		removed, err := q.client.ZRem(ctx, delayedKey(q.name), id).Result()
		if err != nil {
			return promoted, infra.WrapRepoErr("failed to claim delayed job", err, infra.KindKVFailure)
		}
		if removed == 0 {
			continue
		}
		if err := q.client.LPush(ctx, waitingKey(q.name), id).Err(); err != nil {
			return promoted, infra.WrapRepoErr("failed to requeue delayed job", err, infra.KindKVFailure)
		}
		promoted++
	}
	return promoted, nil
}

// ReapExpired redelivers processing jobs whose lease expired (crashed or
// stuck worker). At-least-once: the job may run again from scratch.
func (q *Queue) ReapExpired(ctx context.Context) (int, error) {
	ids, err := q.client.LRange(ctx, processingKey(q.name), 0, -1).Result()
	if err != nil {
		return 0, infra.WrapRepoErr("failed to list in-flight jobs", err, infra.KindKVFailure)
	}

	reaped := 0
	for _, id := range ids {
		exists, err := q.client.Exists(ctx, leaseKey(id)).Result()
		if err != nil {
			return reaped, infra.WrapRepoErr("failed to check job lease", err, infra.KindKVFailure)
		}
		if exists > 0 {
			continue
		}
		removed, err := q.client.LRem(ctx, processingKey(q.name), 1, id).Result()
		if err != nil {
			return reaped, infra.WrapRepoErr("failed to reclaim job", err, infra.KindKVFailure)
		}
		if removed == 0 {
			continue
		}
		if err := q.client.LPush(ctx, waitingKey(q.name), id).Err(); err != nil {
			return reaped, infra.WrapRepoErr("failed to redeliver job", err, infra.KindKVFailure)
		}
		q.client.HSet(ctx, jobKey(id), "status", string(job.StateWaiting))
		q.logger.Warn("redelivered job with expired lease", "job_id", id)
		reaped++
	}
	return reaped, nil
}
