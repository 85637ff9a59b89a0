package scheduler

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookapp/internal/application/pricing"
)

type countingRunner struct {
	calls   atomic.Int32
	lastPct atomic.Int32
	block   chan struct{}
}

func (r *countingRunner) Execute(_ context.Context, percentage int, _ io.Writer) (*pricing.DiscountReport, error) {
	r.calls.Add(1)
	r.lastPct.Store(int32(percentage))
	if r.block != nil {
		<-r.block
	}
	return &pricing.DiscountReport{Percentage: percentage}, nil
}

func TestNewDiscountScheduler_InvalidExpr(t *testing.T) {
	_, err := NewDiscountScheduler("not a cron", 10, &countingRunner{}, zap.NewNop())
	assert.Error(t, err)
}

func TestDiscountScheduler_RunOnce(t *testing.T) {
	runner := &countingRunner{}
	s, err := NewDiscountScheduler("@daily", 15, runner, zap.NewNop())
	require.NoError(t, err)

	s.runOnce()
	assert.Equal(t, int32(1), runner.calls.Load())
	assert.Equal(t, int32(15), runner.lastPct.Load())
}

func TestDiscountScheduler_SkipsOverlappingRun(t *testing.T) {
	runner := &countingRunner{block: make(chan struct{})}
	s, err := NewDiscountScheduler("@daily", 10, runner, zap.NewNop())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		s.runOnce()
		close(done)
	}()

	require.Eventually(t, func() bool { return runner.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	s.runOnce() // 第一次尚未结束，应直接返回
	assert.Equal(t, int32(1), runner.calls.Load())

	close(runner.block)
	<-done
}

func TestDiscountScheduler_StartStop(t *testing.T) {
	s, err := NewDiscountScheduler("@every 1h", 10, &countingRunner{}, zap.NewNop())
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
