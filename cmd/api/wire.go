//go:build wireinject
// +build wireinject

// wire gen ./cmd/api 生成wire_gen.go；main使用app.go中等价的手动组装

package main

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/xiebiao/bookapp/internal/infrastructure/config"
)

// infrastructureSet 外部资源，每个Provider都返回cleanup
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	providePublisher,
)

// InitializeApp 组装Gin引擎
func InitializeApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*apiApp, func(), error) {
	wire.Build(
		infrastructureSet,
		provideEngine,
		wire.Struct(new(apiApp), "*"),
	)
	return nil, nil, nil
}
