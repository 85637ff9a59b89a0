package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/bookapp/internal/app"
	"github.com/xiebiao/bookapp/internal/domain/authz"
	"github.com/xiebiao/bookapp/internal/domain/book"
	"github.com/xiebiao/bookapp/internal/infrastructure/config"
	"github.com/xiebiao/bookapp/internal/infrastructure/persistence/gormrepo"
)

// newTestRuntime 内存sqlite，命令之间共享同一个库
func newTestRuntime(t *testing.T) (*runtime, opener) {
	t.Helper()
	db, err := gormrepo.NewDB(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	cfg := &config.Config{
		Auth:     config.AuthConfig{BcryptCost: bcrypt.MinCost},
		JWT:      config.JWTConfig{Secret: "test"},
		Discount: config.DiscountConfig{BatchSize: 2},
	}
	rt := &runtime{
		cfg:       cfg,
		log:       zap.NewNop(),
		container: app.NewContainer(app.Infra{Config: cfg, DB: db, Logger: zap.NewNop()}),
		close:     func() {},
	}
	return rt, func(context.Context, string) (*runtime, error) { return rt, nil }
}

func execute(open opener, args ...string) (string, error) {
	cmd := newRootCmd(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seedBooks(t *testing.T, rt *runtime) {
	ctx := context.Background()
	svc := rt.container.BookService
	_, err := svc.CreateAuthor(ctx, "Jane Austen")
	require.NoError(t, err)
	_, err = svc.CreateGenre(ctx, "Classic")
	require.NoError(t, err)

	for _, f := range []book.BookForm{
		{Title: "Emma", Author: "1", PublicationYear: "1815", Genres: []string{"1"}, Price: "19.99"},
		{Title: "Persuasion", Author: "1", PublicationYear: "1817", Genres: []string{"1"}},
		{Title: "Sanditon", Author: "1", PublicationYear: "1817", Genres: []string{"1"}, Price: "10.05"},
	} {
		_, err := svc.CreateBook(ctx, f)
		require.NoError(t, err)
	}
}

func TestDiscountCommand(t *testing.T) {
	rt, open := newTestRuntime(t)
	seedBooks(t, rt)

	out, err := execute(open, "discount", "50")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Original Price: 19.99, Discounted Price: 10.00",
		"Error: Book 'Persuasion' does not have a price.",
		"Original Price: 10.05, Discounted Price: 5.02",
		"Discount 50% applied: 2 updated, 1 skipped, 0 failed",
	}, strings.Split(strings.TrimSpace(out), "\n"))

	b, err := rt.container.BookService.GetBook(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, b.DiscountedPrice)
	assert.True(t, b.DiscountedPrice.Equal(decimal.RequireFromString("10.00")))

	unpriced, err := rt.container.BookService.GetBook(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, unpriced.DiscountedPrice)
}

func TestDiscountCommand_InvalidArguments(t *testing.T) {
	rt, open := newTestRuntime(t)
	seedBooks(t, rt)

	out, err := execute(open, "discount", "ten")
	require.Error(t, err)
	assert.Contains(t, out, "discount percentage must be an integer")
	assert.Contains(t, out, "Usage:")

	_, err = execute(open, "discount")
	assert.Error(t, err)

	_, err = execute(open, "discount", "101")
	assert.ErrorIs(t, err, book.ErrInvalidDiscount)

	b, err := rt.container.BookService.GetBook(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, b.DiscountedPrice)
}

func TestUsersCommands(t *testing.T) {
	rt, open := newTestRuntime(t)
	ctx := context.Background()
	_, err := rt.container.UserService.Register(ctx, "seller@example.com", "secret123", "seller")
	require.NoError(t, err)

	out, err := execute(open, "users", "grant", "seller@example.com", "seller")
	require.NoError(t, err)
	assert.Equal(t, "Granted role seller to seller@example.com\n", out)

	_, err = execute(open, "users", "grant", "seller@example.com", "admin")
	require.NoError(t, err)

	out, err = execute(open, "users", "show", "seller@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "[admin, seller]")

	_, err = execute(open, "users", "revoke", "seller@example.com", "admin")
	require.NoError(t, err)
	roles, err := rt.container.UserService.Roles(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []authz.Role{authz.RoleSeller}, roles)

	_, err = execute(open, "users", "grant", "seller@example.com", "owner")
	assert.ErrorContains(t, err, `unknown role "owner"`)

	out, err = execute(open, "users", "delete", "seller@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Deleted user seller@example.com\n", out)

	_, err = rt.container.UserService.FindByEmail(ctx, "seller@example.com")
	assert.Error(t, err)

	_, err = execute(open, "users", "delete", "seller@example.com")
	assert.Error(t, err)
}

func TestWorkerWithoutTasks(t *testing.T) {
	_, open := newTestRuntime(t)
	_, err := execute(open, "worker")
	assert.ErrorContains(t, err, "worker没有任务")
}
