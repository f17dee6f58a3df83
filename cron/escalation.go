package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"appointly/services/scheduling"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	robfig "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper runs one escalation pass.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (scheduling.SweepResult, error)
}

// Lease guards a job so only one instance runs it per tick.
type Lease interface {
	Acquire(ctx context.Context) (bool, error)
}

// RedisLease is a SET NX PX lease that expires after TTL.
type RedisLease struct {
	Client *redis.Client
	Key    string
	TTL    time.Duration
}

func (l *RedisLease) Acquire(ctx context.Context) (bool, error) {
	return l.Client.SetNX(ctx, l.Key, uuid.New().String(), l.TTL).Result()
}

// EscalationJob runs the sweeper on a cron schedule.
type EscalationJob struct {
	Sweeper Sweeper
	// Lease is optional. When it errors the sweep runs anyway.
	Lease   Lease
	Logger  *zap.Logger
	Timeout time.Duration
	Now     func() time.Time
}

func (j *EscalationJob) logger() *zap.Logger {
	if j.Logger == nil {
		return zap.NewNop()
	}
	return j.Logger
}

// RunOnce acquires the lease (if any) and performs a single sweep. ran is
// false when another instance holds the lease.
func (j *EscalationJob) RunOnce(ctx context.Context) (result scheduling.SweepResult, ran bool, err error) {
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}
	if j.Lease != nil {
		ok, leaseErr := j.Lease.Acquire(ctx)
		switch {
		case leaseErr != nil:
			j.logger().Warn("escalation lease unavailable, sweeping without it", zap.Error(leaseErr))
		case !ok:
			j.logger().Debug("escalation lease held elsewhere, skipping tick")
			return result, false, nil
		}
	}
	now := time.Now()
	if j.Now != nil {
		now = j.Now()
	}
	result, err = j.Sweeper.Sweep(ctx, now)
	return result, true, err
}

// Start schedules the job and returns the running cron. Stop it on shutdown.
func (j *EscalationJob) Start(ctx context.Context, spec string) (*robfig.Cron, error) {
	if j.Sweeper == nil {
		return nil, errors.New("escalation job has no sweeper")
	}
	c := robfig.New(robfig.WithChain(robfig.SkipIfStillRunning(robfig.DiscardLogger)))
	_, err := c.AddFunc(spec, func() {
		result, ran, err := j.RunOnce(ctx)
		if err != nil {
			j.logger().Error("escalation sweep failed", zap.Error(err), zap.Int("failed", result.Failed))
			return
		}
		if ran && len(result.Missed) > 0 {
			j.logger().Info("escalation sweep", zap.Strings("missed", result.Missed))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid escalation schedule %q: %w", spec, err)
	}
	c.Start()
	j.logger().Info("escalation job scheduled", zap.String("schedule", spec))
	return c, nil
}
