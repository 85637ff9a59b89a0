package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/bookapp/internal/app"
	"github.com/xiebiao/bookapp/internal/application/pricing"
	"github.com/xiebiao/bookapp/internal/infrastructure/config"
	"github.com/xiebiao/bookapp/internal/infrastructure/persistence/gormrepo"
	"github.com/xiebiao/bookapp/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookapp/pkg/mq"
	"github.com/xiebiao/bookapp/pkg/tracing"
)

// apiApp 进程持有的资源
type apiApp struct {
	engine *gin.Engine
}

// initializeApp 手动组装依赖，返回的cleanup按创建的逆序释放资源
// 与wire.go中的InitializeApp保持同一组Provider
func initializeApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*apiApp, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	db, closeDB, err := provideDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanups = append(cleanups, closeDB)

	client, closeRedis, err := provideRedis(ctx, cfg, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cleanups = append(cleanups, closeRedis)

	publisher, closePublisher, err := providePublisher(cfg, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cleanups = append(cleanups, closePublisher)

	engine := provideEngine(cfg, db, client, publisher, log)
	return &apiApp{engine: engine}, cleanup, nil
}

// initTracer tracing.enabled为false时不导出，返回的函数在退出前刷新Span
func initTracer(cfg *config.Config, log *zap.Logger) (func(), error) {
	if !cfg.Tracing.Enabled {
		return func() {}, nil
	}
	shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("初始化链路追踪失败: %w", err)
	}
	log.Info("链路追踪已开启", zap.String("endpoint", cfg.Tracing.Endpoint))
	return func() {
		if err := shutdown(context.Background()); err != nil {
			log.Warn("关闭链路追踪失败", zap.Error(err))
		}
	}, nil
}

func provideDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	db, err := gormrepo.NewDB(cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	return db, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}, nil
}

func provideRedis(ctx context.Context, cfg *config.Config, log *zap.Logger) (goredis.UniversalClient, func(), error) {
	client, err := redis.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// providePublisher mq.enabled为false时返回nil，折扣请求同步执行
func providePublisher(cfg *config.Config, log *zap.Logger) (pricing.Publisher, func(), error) {
	if !cfg.MQ.Enabled {
		return nil, func() {}, nil
	}
	p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, log)
	if err != nil {
		return nil, nil, fmt.Errorf("连接消息队列失败: %w", err)
	}
	return p, func() { _ = p.Close() }, nil
}

func provideEngine(cfg *config.Config, db *gorm.DB, client goredis.UniversalClient, publisher pricing.Publisher, log *zap.Logger) *gin.Engine {
	infra := app.Infra{Config: cfg, DB: db, Redis: client, Logger: log, Publisher: publisher}
	return app.NewRouter(infra, app.NewContainer(infra))
}
