package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xiebiao/bookapp/internal/domain/authz"
	apperrors "github.com/xiebiao/bookapp/pkg/errors"
	"github.com/xiebiao/bookapp/pkg/jwt"
	"github.com/xiebiao/bookapp/pkg/response"
)

// Context键
const (
	ctxUserID      = "user_id"
	ctxEmail       = "email"
	ctxAccessToken = "access_token"
)

// SessionChecker 会话与黑名单检查，由Redis会话存储实现
type SessionChecker interface {
	HasSession(ctx context.Context, userID uint) (bool, error)
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// RoleLoader 按用户加载角色，由用户服务实现
type RoleLoader interface {
	Roles(ctx context.Context, userID uint) ([]authz.Role, error)
}

// AuthMiddleware 登录校验与能力校验
// 未登录重定向到登录页（带next参数）；已登录但无权限返回403
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	sessions   SessionChecker
	roles      RoleLoader
	loginURL   string
	cookieName string
	logger     *zap.Logger
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(
	jwtManager *jwt.Manager,
	sessions SessionChecker,
	roles RoleLoader,
	loginURL, cookieName string,
	logger *zap.Logger,
) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		sessions:   sessions,
		roles:      roles,
		loginURL:   loginURL,
		cookieName: cookieName,
		logger:     logger,
	}
}

// RequireAuth Token来自Authorization: Bearer或登录Cookie
// Token必须有效、未被拉黑，且对应的会话仍然存在
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			m.redirectToLogin(c)
			return
		}

		claims, err := m.jwtManager.ParseToken(token)
		if err != nil {
			m.redirectToLogin(c)
			return
		}

		ctx := c.Request.Context()
		blacklisted, err := m.sessions.IsInBlacklist(ctx, token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if blacklisted {
			m.redirectToLogin(c)
			return
		}

		ok, err := m.sessions.HasSession(ctx, claims.UserID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if !ok {
			m.redirectToLogin(c)
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxAccessToken, token)
		c.Next()
	}
}

// Require 要求当前用户具备指定能力，必须挂在RequireAuth之后
// 每次都从库里读取角色，授权变更立即生效
func (m *AuthMiddleware) Require(capability authz.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		var principal *authz.Principal
		if userID := GetUserID(c); userID != 0 {
			roles, err := m.roles.Roles(c.Request.Context(), userID)
			if err != nil {
				response.Error(c, err)
				c.Abort()
				return
			}
			principal = &authz.Principal{UserID: userID, Roles: roles}
		}

		switch authz.Decide(principal, capability) {
		case authz.Allow:
			c.Next()
		case authz.Unauthenticated:
			m.redirectToLogin(c)
		default:
			m.logger.Info("权限不足",
				zap.Uint("user_id", principal.UserID),
				zap.String("capability", string(capability)),
				zap.String("path", c.Request.URL.Path),
			)
			response.Error(c, apperrors.ErrForbidden)
			c.Abort()
		}
	}
}

// extractToken 优先Bearer头；其他认证方案（如Basic）忽略，回退到Cookie
func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	if cookie, err := c.Cookie(m.cookieName); err == nil {
		return cookie
	}
	return ""
}

// redirectToLogin 302到登录页，next为原请求路径（保留查询串，斜杠不转义）
func (m *AuthMiddleware) redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, LoginRedirectURL(m.loginURL, c.Request.URL.RequestURI()))
	c.Abort()
}

// LoginRedirectURL 拼接登录地址与next参数
func LoginRedirectURL(loginURL, next string) string {
	sep := "?"
	if strings.Contains(loginURL, "?") {
		sep = "&"
	}
	return loginURL + sep + "next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

// GetUserID 当前登录用户ID，未登录返回0
func GetUserID(c *gin.Context) uint {
	if v, ok := c.Get(ctxUserID); ok {
		if uid, ok := v.(uint); ok {
			return uid
		}
	}
	return 0
}

// GetEmail 当前登录用户邮箱
func GetEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

// GetAccessToken 当前请求使用的Access Token，登出时加入黑名单
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ctxAccessToken)
}
