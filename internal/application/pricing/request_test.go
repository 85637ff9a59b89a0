package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookapp/internal/domain/book"
	"github.com/xiebiao/bookapp/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookapp/pkg/errors"
	"github.com/xiebiao/bookapp/pkg/mq"
)

type recordingPublisher struct {
	keys []string
	msgs [][]byte
	err  error
}

func (r *recordingPublisher) Publish(_ context.Context, routingKey string, message interface{}) error {
	if r.err != nil {
		return r.err
	}
	body, _ := json.Marshal(message)
	r.keys = append(r.keys, routingKey)
	r.msgs = append(r.msgs, body)
	return nil
}

func TestRequestPublisher(t *testing.T) {
	ctx := context.Background()

	t.Run("发布事件", func(t *testing.T) {
		pub := &recordingPublisher{}
		rp := NewRequestPublisher(pub, circuitbreaker.NewCircuitBreaker("test-ok", circuitbreaker.DefaultConfig()), zap.NewNop())

		evt, err := rp.Request(ctx, 15, 3)
		require.NoError(t, err)
		assert.Equal(t, 15, evt.Percentage)
		assert.Equal(t, []string{RoutingKeyDiscountRequested}, pub.keys)

		var got DiscountRequested
		require.NoError(t, json.Unmarshal(pub.msgs[0], &got))
		assert.Equal(t, uint(3), got.RequestedBy)
	})

	t.Run("比例非法不发布", func(t *testing.T) {
		pub := &recordingPublisher{}
		rp := NewRequestPublisher(pub, circuitbreaker.NewCircuitBreaker("test-invalid", circuitbreaker.DefaultConfig()), zap.NewNop())
		_, err := rp.Request(ctx, 120, 3)
		assert.ErrorIs(t, err, book.ErrInvalidDiscount)
		assert.Empty(t, pub.keys)
	})

	t.Run("连续失败后熔断", func(t *testing.T) {
		pub := &recordingPublisher{err: errors.New("connection reset")}
		cfg := circuitbreaker.DefaultConfig()
		cfg.Timeout = time.Minute
		breaker := circuitbreaker.NewCircuitBreaker("test-trip", cfg)
		rp := NewRequestPublisher(pub, breaker, zap.NewNop())

		for i := 0; i < 5; i++ {
			_, err := rp.Request(ctx, 10, 1)
			require.Error(t, err)
		}
		assert.Equal(t, circuitbreaker.StateOpen, breaker.State())

		_, err := rp.Request(ctx, 10, 1)
		appErr := apperrors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrCodeBrokerError, appErr.Code)
		assert.ErrorIs(t, err, circuitbreaker.ErrOpenState)
	})
}

type stubRunner struct {
	got int
	err error
}

func (s *stubRunner) Execute(_ context.Context, percentage int, out io.Writer) (*DiscountReport, error) {
	s.got = percentage
	if s.err != nil {
		return nil, s.err
	}
	return &DiscountReport{Percentage: percentage}, nil
}

func TestRequestHandler(t *testing.T) {
	ctx := context.Background()
	body, _ := json.Marshal(DiscountRequested{Percentage: 20, RequestedBy: 1})

	t.Run("成功", func(t *testing.T) {
		runner := &stubRunner{}
		require.NoError(t, NewRequestHandler(runner, zap.NewNop())(ctx, body))
		assert.Equal(t, 20, runner.got)
	})

	t.Run("格式错误丢弃", func(t *testing.T) {
		err := NewRequestHandler(&stubRunner{}, zap.NewNop())(ctx, []byte("{not json"))
		assert.ErrorIs(t, err, mq.ErrReject)
	})

	t.Run("比例非法丢弃", func(t *testing.T) {
		err := NewRequestHandler(&stubRunner{err: book.ErrInvalidDiscount}, zap.NewNop())(ctx, body)
		assert.ErrorIs(t, err, mq.ErrReject)
	})

	t.Run("数据库错误重新入队", func(t *testing.T) {
		boom := errors.New("db down")
		err := NewRequestHandler(&stubRunner{err: boom}, zap.NewNop())(ctx, body)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, mq.ErrReject)
	})

	t.Run("与真实用例衔接", func(t *testing.T) {
		uc := NewDiscountUseCase(&fakeStore{}, 10, zap.NewNop())
		require.NoError(t, NewRequestHandler(uc, zap.NewNop())(ctx, body))
		var buf bytes.Buffer
		_, err := uc.Execute(ctx, 20, &buf)
		require.NoError(t, err)
	})
}

func TestParsePercentage(t *testing.T) {
	n, err := ParsePercentage(" 15 ")
	require.NoError(t, err)
	assert.Equal(t, 15, n)

	n, err = ParsePercentage("150")
	require.NoError(t, err)
	assert.Equal(t, 150, n)

	for _, raw := range []string{"", "abc", "1.5"} {
		_, err := ParsePercentage(raw)
		require.Error(t, err, raw)
		assert.Equal(t, MsgPercentageNotInteger, apperrors.GetAppError(err).Message)
	}
}
