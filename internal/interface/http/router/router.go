package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/bookapp/internal/domain/authz"
	"github.com/xiebiao/bookapp/internal/infrastructure/config"
	"github.com/xiebiao/bookapp/internal/interface/http/handler"
	"github.com/xiebiao/bookapp/internal/interface/http/middleware"
	"github.com/xiebiao/bookapp/pkg/response"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	User     *handler.UserHandler
	Book     *handler.BookHandler
	Author   *handler.AuthorHandler
	Genre    *handler.GenreHandler
	Discount *handler.DiscountHandler
	Auth     *middleware.AuthMiddleware
}

// Options 引擎选项
type Options struct {
	Mode           string // debug | release | test
	ServiceName    string // 非空时开启请求追踪
	MetricsEnabled bool
	MetricsPath    string
	Swagger        bool
	CORS           config.CORSConfig
	Logger         *zap.Logger
}

// New 创建Gin引擎并注册全部路由
func New(h Handlers, opts Options) *gin.Engine {
	switch opts.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(opts.Mode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(opts.Logger))
	if opts.ServiceName != "" {
		r.Use(middleware.Tracing(opts.ServiceName))
	}
	r.Use(middleware.Logger(opts.Logger))
	r.Use(middleware.CORS(opts.CORS))

	if opts.MetricsEnabled {
		r.Use(middleware.Metrics())
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.Handler()))
	}

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})

	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r, h)
	return r
}

func registerRoutes(r *gin.Engine, h Handlers) {
	auth := h.Auth
	v1 := r.Group("/api/v1")

	users := v1.Group("/users")
	{
		users.POST("/register", h.User.Register)
		users.POST("/login", h.User.Login)
		users.POST("/logout", auth.RequireAuth(), h.User.Logout)
	}

	authorized := v1.Group("")
	authorized.Use(auth.RequireAuth())
	{
		authorized.GET("/profile", h.User.GetProfile)
		authorized.PUT("/profile", h.User.UpdateProfile)

		books := authorized.Group("/books")
		{
			books.GET("", h.Book.List)
			books.POST("", auth.Require(authz.AddBook), h.Book.Create)
			books.GET("/author/:author_id", h.Book.ListByAuthor)
			books.GET("/genre/:genre_name", h.Book.ListByGenre)
			books.GET("/year/:year", h.Book.ListByYear)
			books.GET("/:id", h.Book.Get)
			books.PUT("/:id", auth.Require(authz.ChangeBook), h.Book.Update)
			books.POST("/:id/update", auth.Require(authz.ChangeBook), h.Book.Update)
			books.DELETE("/:id", auth.Require(authz.DeleteBook), h.Book.Delete)
			books.POST("/:id/delete", auth.Require(authz.DeleteBook), h.Book.Delete)
		}

		authors := authorized.Group("/authors")
		{
			authors.GET("", h.Author.List)
			authors.POST("", auth.Require(authz.AddAuthor), h.Author.Create)
			authors.DELETE("/:id", auth.Require(authz.DeleteAuthor), h.Author.Delete)
		}

		genres := authorized.Group("/genres")
		{
			genres.GET("", h.Genre.List)
			genres.POST("", auth.Require(authz.AddGenre), h.Genre.Create)
		}

		authorized.POST("/discounts", auth.Require(authz.ApplyDiscount), h.Discount.Apply)
	}
}
