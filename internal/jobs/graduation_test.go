package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/Zerds-Global/Alumini-interaction/config"
	"github.com/Zerds-Global/Alumini-interaction/pkg/metrics"
)

type fakePromoter struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
}

func (f *fakePromoter) PromoteGraduates(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, now)
	return 1, f.err
}

func (f *fakePromoter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeLocker struct {
	held     bool
	err      error
	released int
}

func (f *fakeLocker) TryLock(_ context.Context, _ string, _ time.Duration) (func(), bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	if f.held {
		return nil, false, nil
	}
	return func() { f.released++ }, true, nil
}

func newJob(p Promoter, l Locker) *GraduationJob {
	return NewGraduationJob(&config.JobsConfig{GraduationInterval: time.Hour, GraduationTimeout: time.Second}, p, l, zap.NewNop())
}

func TestRunOnce_WithLock(t *testing.T) {
	p := &fakePromoter{}
	l := &fakeLocker{}
	job := newJob(p, l)
	fixed := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return fixed }

	job.RunOnce(context.Background())

	if p.count() != 1 || !p.calls[0].Equal(fixed) {
		t.Fatalf("应以当前时间执行一次: %v", p.calls)
	}
	if l.released != 1 {
		t.Errorf("执行后应释放锁，实际释放 %d 次", l.released)
	}
}

func TestRunOnce_LockHeldSkips(t *testing.T) {
	p := &fakePromoter{}
	before := testutil.ToFloat64(metrics.GraduationRunsTotal.WithLabelValues("skipped"))

	newJob(p, &fakeLocker{held: true}).RunOnce(context.Background())

	if p.count() != 0 {
		t.Error("锁被占用时不应执行")
	}
	if got := testutil.ToFloat64(metrics.GraduationRunsTotal.WithLabelValues("skipped")) - before; got != 1 {
		t.Errorf("跳过次数应增加 1，实际 %v", got)
	}
}

func TestRunOnce_LockErrorStillRuns(t *testing.T) {
	p := &fakePromoter{}
	newJob(p, &fakeLocker{err: errors.New("redis down")}).RunOnce(context.Background())
	if p.count() != 1 {
		t.Error("锁服务异常时应照常执行")
	}
}

func TestRunOnce_NoLocker(t *testing.T) {
	p := &fakePromoter{err: errors.New("db down")}
	newJob(p, nil).RunOnce(context.Background())
	if p.count() != 1 {
		t.Error("未配置锁时应直接执行")
	}
}

func TestStart_RunsImmediatelyAndStops(t *testing.T) {
	p := &fakePromoter{}
	ctx, cancel := context.WithCancel(context.Background())
	newJob(p, nil).Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for p.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	if p.count() != 1 {
		t.Errorf("启动后应立即执行一次，实际 %d 次", p.count())
	}
}

func TestNewGraduationJob_Defaults(t *testing.T) {
	job := NewGraduationJob(&config.JobsConfig{}, &fakePromoter{}, nil, zap.NewNop())
	if job.interval != time.Hour || job.timeout != 30*time.Second {
		t.Errorf("默认值不符: interval=%v timeout=%v", job.interval, job.timeout)
	}
}
