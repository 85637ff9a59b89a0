package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xiebiao/bookapp/internal/application/pricing"
	"github.com/xiebiao/bookapp/internal/infrastructure/scheduler"
	"github.com/xiebiao/bookapp/pkg/mq"
)

func newWorkerCmd(withRuntime runE) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "消费折扣请求并运行定时折扣任务",
		Long: `mq.enabled为true时消费catalog.discount.requested消息；
discount.schedule不为空时按cron表达式定期执行折扣。两者都未配置时直接退出。`,
		Args: cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, _ []string, rt *runtime) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runWorker(ctx, rt)
		}),
	}
}

func runWorker(ctx context.Context, rt *runtime) error {
	cfg, log := rt.cfg, rt.log
	if !cfg.MQ.Enabled && cfg.Discount.Schedule == "" {
		return errors.New("mq.enabled和discount.schedule都未配置，worker没有任务")
	}

	if cfg.Discount.Schedule != "" {
		s, err := scheduler.NewDiscountScheduler(cfg.Discount.Schedule, cfg.Discount.Percentage, rt.container.Discount, log)
		if err != nil {
			return err
		}
		s.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			s.Stop(stopCtx)
		}()
	}

	if !cfg.MQ.Enabled {
		<-ctx.Done()
		log.Info("worker退出")
		return nil
	}

	consumer, err := mq.NewConsumer(
		cfg.MQ.URL,
		cfg.MQ.Exchange,
		cfg.MQ.ExchangeType,
		cfg.MQ.Queue,
		[]string{pricing.RoutingKeyDiscountRequested},
		log,
	)
	if err != nil {
		return err
	}
	defer func() { _ = consumer.Close() }()

	// Channel断开时返回错误，由进程管理器重启
	if err := consumer.Consume(ctx, pricing.NewRequestHandler(rt.container.Discount, log)); err != nil && ctx.Err() == nil {
		return err
	}
	log.Info("worker退出")
	return nil
}
