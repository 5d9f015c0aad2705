package repair

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"loan-case-tracker/internal/pkg/config"
	"loan-case-tracker/internal/pkg/consts"
	"loan-case-tracker/internal/pkg/log_messages"
	"loan-case-tracker/internal/pkg/logger"
	"loan-case-tracker/internal/pkg/models"
	storemodels "loan-case-tracker/internal/pkg/store/models"
	"loan-case-tracker/internal/service/interfaces"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Queue holds child writes whose parent write succeeded, in a redis list.
// Failed jobs go back to the tail until MaxAttempts, then to a dead-letter list.
type Queue struct {
	store       interfaces.RedisStoreOperations
	maxAttempts int
	batchSize   int
}

func NewQueue(store interfaces.RedisStoreOperations, cfg config.RepairConfig) *Queue {
	return &Queue{
		store:       store,
		maxAttempts: cfg.MaxAttempts,
		batchSize:   cfg.BatchSize,
	}
}

func (q *Queue) Enqueue(ctx context.Context, job storemodels.RepairJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal repair job: %w", err)
	}
	if err := q.store.Push(ctx, consts.RepairQueueKey, payload); err != nil {
		return fmt.Errorf("enqueue repair job: %w", err)
	}
	logger.CtxInfo(ctx, log_messages.RepairJobEnqueued,
		zap.String("job_id", job.ID),
		zap.String("case_id", job.CaseID),
		zap.String("kind", job.Kind),
	)
	return nil
}

// Pending is the number of jobs waiting in the queue.
func (q *Queue) Pending(ctx context.Context) (int64, error) {
	return q.store.Len(ctx, consts.RepairQueueKey)
}

// DeadLetters is the number of jobs that exhausted their attempts.
func (q *Queue) DeadLetters(ctx context.Context) (int64, error) {
	return q.store.Len(ctx, consts.RepairDeadLetterKey)
}

// Drain reapplies at most one batch of the jobs queued when it starts, so a
// job requeued during this call is not retried until the next one.
func (q *Queue) Drain(ctx context.Context, writer interfaces.CaseChildWriter) (models.RepairReport, error) {
	var report models.RepairReport

	pending, err := q.Pending(ctx)
	if err != nil {
		return report, fmt.Errorf("read repair queue length: %w", err)
	}
	limit := int(pending)
	if q.batchSize > 0 && limit > q.batchSize {
		limit = q.batchSize
	}

	for i := 0; i < limit; i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		payload, err := q.store.Pop(ctx, consts.RepairQueueKey)
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return report, fmt.Errorf("pop repair job: %w", err)
		}

		var job storemodels.RepairJob
		if err := json.Unmarshal(payload, &job); err != nil {
			logger.CtxError(ctx, log_messages.InvalidRepairEntry, err)
			continue
		}

		applyErr := q.apply(ctx, writer, &job)
		if applyErr == nil {
			report.Repaired++
			logger.CtxInfo(ctx, log_messages.RepairJobApplied,
				zap.String("job_id", job.ID),
				zap.String("case_id", job.CaseID),
			)
			continue
		}
		report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", job.ID, applyErr))
		job.LastError = applyErr.Error()

		job.Attempts++
		if job.Attempts >= q.maxAttempts {
			if err := q.push(ctx, consts.RepairDeadLetterKey, job); err != nil {
				return report, err
			}
			report.Dead++
			logger.CtxWarn(ctx, log_messages.RepairJobDead,
				zap.String("job_id", job.ID),
				zap.String("case_id", job.CaseID),
				zap.Int("attempts", job.Attempts),
			)
			continue
		}
		if err := q.push(ctx, consts.RepairQueueKey, job); err != nil {
			return report, err
		}
		report.Requeued++
		logger.CtxWarn(ctx, log_messages.RepairJobRequeued,
			zap.String("job_id", job.ID),
			zap.String("case_id", job.CaseID),
			zap.Int("attempts", job.Attempts),
			zap.String("last_error", job.LastError),
		)
	}

	return report, nil
}

// apply writes history then documents. Parts that succeed are dropped from
// the job so a retry only repeats what is still missing.
func (q *Queue) apply(ctx context.Context, writer interfaces.CaseChildWriter, job *storemodels.RepairJob) error {
	if len(job.History) > 0 {
		if err := writer.InsertHistory(ctx, job.History); err != nil {
			return fmt.Errorf("insert history: %w", err)
		}
		job.History = nil
		job.Kind = consts.RepairKindDocuments
	}
	if len(job.Documents) > 0 {
		if err := writer.UpsertDocuments(ctx, job.Documents); err != nil {
			return fmt.Errorf("upsert documents: %w", err)
		}
		job.Documents = nil
	}
	return nil
}

func (q *Queue) push(ctx context.Context, key string, job storemodels.RepairJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal repair job: %w", err)
	}
	if err := q.store.Push(ctx, key, payload); err != nil {
		return fmt.Errorf("push repair job to %s: %w", key, err)
	}
	return nil
}

// Run drains the queue every interval until ctx is done.
func (q *Queue) Run(ctx context.Context, writer interfaces.CaseChildWriter, interval time.Duration) {
	logger.CtxInfo(ctx, log_messages.RepairWorkerStart, zap.Duration("interval", interval))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(log_messages.RepairWorkerStop)
			return
		case <-ticker.C:
			report, err := q.Drain(ctx, writer)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.CtxError(ctx, log_messages.RepairDrainFailed, err)
				continue
			}
			if report.Repaired+report.Requeued+report.Dead > 0 {
				logger.CtxInfo(ctx, "Repair drain finished",
					zap.Int("repaired", report.Repaired),
					zap.Int("requeued", report.Requeued),
					zap.Int("dead", report.Dead),
				)
			}
		}
	}
}
