package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("读取配置文件并保留默认值", func(t *testing.T) {
		path := writeConfig(t, `
server:
  port: 9090
database:
  driver: sqlite
  path: ":memory:"
discount:
  schedule: "0 3 * * *"
  percentage: 15
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "0 3 * * *", cfg.Discount.Schedule)
		assert.Equal(t, 15, cfg.Discount.Percentage)
		assert.Equal(t, 100, cfg.Discount.BatchSize)
		assert.Equal(t, "/api/v1/users/login", cfg.Auth.LoginURL)
		assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTokenExpire)
	})

	t.Run("环境变量覆盖嵌套配置", func(t *testing.T) {
		path := writeConfig(t, "server:\n  port: 9090\n")
		t.Setenv("BOOKAPP_SERVER_PORT", "7070")
		t.Setenv("BOOKAPP_AUTH_LOGIN_URL", "/accounts/login/")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 7070, cfg.Server.Port)
		assert.Equal(t, "/accounts/login/", cfg.Auth.LoginURL)
	})

	t.Run("指定的配置文件不存在", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080, Mode: "debug"},
			Database: DatabaseConfig{Driver: "mysql"},
			JWT:      JWTConfig{Secret: "s3cret"},
			Auth:     AuthConfig{LoginURL: "/api/v1/users/login"},
			Discount: DiscountConfig{BatchSize: 50},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"合法配置", func(c *Config) {}, false},
		{"端口越界", func(c *Config) { c.Server.Port = 70000 }, true},
		{"生产环境默认密钥", func(c *Config) { c.Server.Mode = "release"; c.JWT.Secret = defaultJWTSecret }, true},
		{"未知数据库驱动", func(c *Config) { c.Database.Driver = "oracle" }, true},
		{"折扣比例超过100", func(c *Config) { c.Discount.Percentage = 120 }, true},
		{"折扣比例为负", func(c *Config) { c.Discount.Percentage = -1 }, true},
		{"跨域携带凭证时不允许通配", func(c *Config) {
			c.CORS = CORSConfig{Enabled: true, AllowOrigins: []string{"*"}, AllowCredentials: true}
		}, true},
		{"跨域通配不携带凭证", func(c *Config) {
			c.CORS = CORSConfig{Enabled: true, AllowOrigins: []string{"*"}}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		User: "root", Password: "pw", Host: "db", Port: 3306, DBName: "bookapp",
		Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai",
	}
	assert.Equal(t, "root:pw@tcp(db:3306)/bookapp?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai", d.DSN())
}
