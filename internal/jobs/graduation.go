package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Zerds-Global/Alumini-interaction/config"
	"github.com/Zerds-Global/Alumini-interaction/pkg/metrics"
)

const graduationLockName = "jobs:graduation"

// Promoter 执行一次毕业晋升
type Promoter interface {
	PromoteGraduates(ctx context.Context, now time.Time) (int64, error)
}

// Locker 跨实例互斥锁，由 Redis 实现
type Locker interface {
	TryLock(ctx context.Context, name string, ttl time.Duration) (func(), bool, error)
}

// GraduationJob 定时将已结束届次的学生转为校友
// locker 为 nil 时每个实例各自执行，UPDATE 幂等
type GraduationJob struct {
	promoter Promoter
	locker   Locker
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewGraduationJob 创建定时任务，未配置的间隔/超时取默认值
func NewGraduationJob(cfg *config.JobsConfig, promoter Promoter, locker Locker, logger *zap.Logger) *GraduationJob {
	interval := cfg.GraduationInterval
	if interval <= 0 {
		interval = time.Hour
	}
	timeout := cfg.GraduationTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GraduationJob{
		promoter: promoter,
		locker:   locker,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
		now:      time.Now,
	}
}

// Start 启动后立即执行一次，之后按间隔执行，ctx 取消时退出
func (j *GraduationJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	go func() {
		defer ticker.Stop()
		j.RunOnce(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				j.RunOnce(ctx)
			}
		}
	}()
	j.logger.Info("毕业晋升任务已启动", zap.Duration("interval", j.interval))
}

// RunOnce 执行一轮；未抢到锁时跳过
func (j *GraduationJob) RunOnce(ctx context.Context) {
	tickCtx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	if j.locker != nil {
		release, ok, err := j.locker.TryLock(tickCtx, graduationLockName, j.timeout)
		if err != nil {
			// 锁服务异常时照常执行
			j.logger.Warn("获取任务锁失败", zap.Error(err))
		} else if !ok {
			metrics.GraduationRunsTotal.WithLabelValues("skipped").Inc()
			return
		} else {
			defer release()
		}
	}

	if _, err := j.promoter.PromoteGraduates(tickCtx, j.now().UTC()); err != nil {
		j.logger.Error("毕业晋升任务执行失败", zap.Error(err))
	}
}
