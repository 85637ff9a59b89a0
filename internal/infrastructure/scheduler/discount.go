package scheduler

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/xiebiao/bookapp/internal/application/pricing"
)

// DiscountScheduler 按cron表达式定期执行折扣批处理
// 同一时刻只允许一次运行，上一次未结束时跳过本次触发
type DiscountScheduler struct {
	cron       *cron.Cron
	runner     pricing.Runner
	percentage int
	timeout    time.Duration
	logger     *zap.Logger

	mu      sync.Mutex
	running bool
}

// NewDiscountScheduler expr使用标准5段格式，也支持@daily等描述符
func NewDiscountScheduler(expr string, percentage int, runner pricing.Runner, logger *zap.Logger) (*DiscountScheduler, error) {
	s := &DiscountScheduler{
		cron:       cron.New(cron.WithLogger(cronLogger{logger})),
		runner:     runner,
		percentage: percentage,
		timeout:    30 * time.Minute,
		logger:     logger,
	}
	if _, err := s.cron.AddFunc(expr, s.runOnce); err != nil {
		return nil, fmt.Errorf("无效的cron表达式 %q: %w", expr, err)
	}
	return s, nil
}

// Start 非阻塞
func (s *DiscountScheduler) Start() {
	s.cron.Start()
	s.logger.Info("折扣定时任务已启动", zap.Int("percentage", s.percentage))
}

// Stop 等待正在执行的任务结束
func (s *DiscountScheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("等待折扣任务结束超时")
	}
}

func (s *DiscountScheduler) runOnce() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("上一次折扣任务仍在执行，跳过")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.runner.Execute(ctx, s.percentage, io.Discard); err != nil {
		s.logger.Error("定时折扣任务失败", zap.Error(err))
	}
}

// cronLogger 把cron内部日志转到zap
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
