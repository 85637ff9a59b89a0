// Package app 组装各层依赖：Repository ← Service ← UseCase ← Handler
// cmd/api、cmd/bookctl和端到端测试共用同一套组装逻辑
package app

import (
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appbook "github.com/xiebiao/bookapp/internal/application/book"
	"github.com/xiebiao/bookapp/internal/application/pricing"
	appuser "github.com/xiebiao/bookapp/internal/application/user"
	"github.com/xiebiao/bookapp/internal/domain/book"
	"github.com/xiebiao/bookapp/internal/domain/user"
	"github.com/xiebiao/bookapp/internal/infrastructure/config"
	"github.com/xiebiao/bookapp/internal/infrastructure/persistence/gormrepo"
	"github.com/xiebiao/bookapp/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookapp/internal/interface/http/handler"
	"github.com/xiebiao/bookapp/internal/interface/http/middleware"
	"github.com/xiebiao/bookapp/internal/interface/http/router"
	"github.com/xiebiao/bookapp/pkg/circuitbreaker"
	"github.com/xiebiao/bookapp/pkg/jwt"
)

// Infra 外部资源，由调用方创建和关闭
type Infra struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  goredis.UniversalClient // 命令行工具不需要，可以为nil
	Logger *zap.Logger

	// Publisher 不为nil时折扣请求走消息队列
	Publisher pricing.Publisher
}

// Container 组装好的服务与用例
type Container struct {
	UserService user.Service
	BookService book.Service
	Discount    *pricing.DiscountUseCase
	JWT         *jwt.Manager
	Sessions    *redis.SessionStore
}

// NewContainer 组装领域服务和折扣用例
func NewContainer(infra Infra) *Container {
	cfg := infra.Config
	tx := gormrepo.NewTxManager(infra.DB)
	bookRepo := gormrepo.NewBookRepository(infra.DB)

	c := &Container{
		UserService: user.NewService(
			gormrepo.NewUserRepository(infra.DB),
			gormrepo.NewProfileRepository(infra.DB),
			tx,
			cfg.Auth.BcryptCost,
		),
		BookService: book.NewService(
			bookRepo,
			gormrepo.NewAuthorRepository(infra.DB),
			gormrepo.NewGenreRepository(infra.DB),
			tx,
		),
		Discount: pricing.NewDiscountUseCase(bookRepo, cfg.Discount.BatchSize, infra.Logger),
		JWT:      jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire),
	}
	if infra.Redis != nil {
		c.Sessions = redis.NewSessionStore(infra.Redis)
	}
	return c
}

// NewRouter 组装HTTP处理器并创建Gin引擎，需要Infra.Redis
func NewRouter(infra Infra, c *Container) *gin.Engine {
	cfg := infra.Config
	log := infra.Logger

	var requests *pricing.RequestPublisher
	if infra.Publisher != nil {
		breaker := circuitbreaker.NewCircuitBreaker("mq-publish", circuitbreaker.DefaultConfig())
		breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
			log.Warn("熔断器状态变化", zap.String("name", name), zap.Stringer("from", from), zap.Stringer("to", to))
		})
		requests = pricing.NewRequestPublisher(infra.Publisher, breaker, log)
	}

	handlers := router.Handlers{
		User: handler.NewUserHandler(
			appuser.NewRegisterUseCase(c.UserService, log),
			appuser.NewLoginUseCase(c.UserService, c.JWT, c.Sessions, cfg.Auth.SessionTTL, log),
			appuser.NewLogoutUseCase(c.Sessions, c.JWT),
			appuser.NewProfileUseCase(c.UserService),
			handler.CookieConfig{Name: cfg.Auth.CookieName, Secure: cfg.Auth.CookieSecure},
		),
		Book: handler.NewBookHandler(
			appbook.NewListBooksUseCase(c.BookService),
			appbook.NewGetBookUseCase(c.BookService),
			appbook.NewCreateBookUseCase(c.BookService, log),
			appbook.NewUpdateBookUseCase(c.BookService, log),
			appbook.NewDeleteBookUseCase(c.BookService, log),
		),
		Author:   handler.NewAuthorHandler(appbook.NewAuthorUseCase(c.BookService, log)),
		Genre:    handler.NewGenreHandler(appbook.NewGenreUseCase(c.BookService)),
		Discount: handler.NewDiscountHandler(c.Discount, requests),
		Auth: middleware.NewAuthMiddleware(
			c.JWT,
			c.Sessions,
			c.UserService,
			cfg.Auth.LoginURL,
			cfg.Auth.CookieName,
			log,
		),
	}

	opts := router.Options{
		Mode:           cfg.Server.Mode,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
		Swagger:        cfg.Server.Mode != "release",
		CORS:           cfg.CORS,
		Logger:         log,
	}
	if cfg.Tracing.Enabled {
		opts.ServiceName = cfg.Tracing.ServiceName
	}
	return router.New(handlers, opts)
}
