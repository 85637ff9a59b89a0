package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookapp/internal/domain/book"
	"github.com/xiebiao/bookapp/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookapp/pkg/errors"
	"github.com/xiebiao/bookapp/pkg/mq"
)

// RoutingKeyDiscountRequested 异步折扣请求的路由键
const RoutingKeyDiscountRequested = "catalog.discount.requested"

// DiscountRequested 折扣请求事件
type DiscountRequested struct {
	Percentage  int       `json:"percentage"`
	RequestedBy uint      `json:"requested_by"`
	RequestedAt time.Time `json:"requested_at"`
}

// Publisher 消息发布接口，由mq.Publisher实现
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// RequestPublisher 通过熔断器发布折扣请求
type RequestPublisher struct {
	publisher Publisher
	breaker   *circuitbreaker.CircuitBreaker
	logger    *zap.Logger
}

// NewRequestPublisher 创建折扣请求发布者
func NewRequestPublisher(publisher Publisher, breaker *circuitbreaker.CircuitBreaker, logger *zap.Logger) *RequestPublisher {
	return &RequestPublisher{publisher: publisher, breaker: breaker, logger: logger}
}

// Request 比例非法时直接返回，不发布
func (p *RequestPublisher) Request(ctx context.Context, percentage int, requestedBy uint) (*DiscountRequested, error) {
	if err := book.ValidatePercentage(percentage); err != nil {
		return nil, err
	}

	evt := &DiscountRequested{
		Percentage:  percentage,
		RequestedBy: requestedBy,
		RequestedAt: time.Now(),
	}
	err := p.breaker.Execute(ctx, func(ctx context.Context) error {
		return p.publisher.Publish(ctx, RoutingKeyDiscountRequested, evt)
	})
	if err != nil {
		p.logger.Error("发布折扣请求失败", zap.Int("percentage", percentage), zap.Error(err))
		if errors.Is(err, circuitbreaker.ErrOpenState) {
			return nil, apperrors.WithCode(apperrors.ErrCodeBrokerError, err, "消息服务暂不可用")
		}
		return nil, apperrors.WithCode(apperrors.ErrCodeBrokerError, err, "发布折扣请求失败")
	}

	p.logger.Info("折扣请求已发布", zap.Int("percentage", percentage), zap.Uint("requested_by", requestedBy))
	return evt, nil
}

// Runner 执行折扣批处理，由DiscountUseCase实现
type Runner interface {
	Execute(ctx context.Context, percentage int, out io.Writer) (*DiscountReport, error)
}

// NewRequestHandler 消费折扣请求
// 消息格式错误或比例非法时丢弃；数据库错误返回原错误以便重新入队
func NewRequestHandler(runner Runner, logger *zap.Logger) mq.Handler {
	return func(ctx context.Context, body []byte) error {
		var evt DiscountRequested
		if err := json.Unmarshal(body, &evt); err != nil {
			return fmt.Errorf("%w: 消息格式错误: %v", mq.ErrReject, err)
		}

		report, err := runner.Execute(ctx, evt.Percentage, io.Discard)
		if err != nil {
			if errors.Is(err, book.ErrInvalidDiscount) {
				return fmt.Errorf("%w: %v", mq.ErrReject, err)
			}
			return err
		}

		logger.Info("异步折扣执行完成",
			zap.Uint("requested_by", evt.RequestedBy),
			zap.String("summary", report.Summary()),
		)
		return nil
	}
}

// MsgPercentageNotInteger 折扣比例不是整数
const MsgPercentageNotInteger = "discount percentage must be an integer"

// ParsePercentage 解析命令行或请求中的折扣比例，范围由Execute校验
func ParsePercentage(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, apperrors.New(apperrors.ErrCodeInvalidParams, MsgPercentageNotInteger)
	}
	return n, nil
}
