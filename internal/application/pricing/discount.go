package pricing

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/xiebiao/bookapp/internal/domain/book"
	"github.com/xiebiao/bookapp/pkg/metrics"
	"github.com/xiebiao/bookapp/pkg/tracing"
)

// DefaultBatchSize 每批读取的图书数量
const DefaultBatchSize = 100

// Kind 单条图书的处理结果
type Kind string

const (
	KindUpdated Kind = "updated"
	KindSkipped Kind = "skipped"
	KindFailed  Kind = "failed"
)

// Diagnostic 单条图书的处理记录
type Diagnostic struct {
	BookID  uint   `json:"book_id"`
	Title   string `json:"title"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// DiscountReport 一次批处理的汇总
type DiscountReport struct {
	Percentage  int          `json:"percentage"`
	Updated     int          `json:"updated"`
	Skipped     int          `json:"skipped"`
	Failed      int          `json:"failed"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Summary 最后一行输出
func (r *DiscountReport) Summary() string {
	return fmt.Sprintf("Discount %d%% applied: %d updated, %d skipped, %d failed",
		r.Percentage, r.Updated, r.Skipped, r.Failed)
}

func (r *DiscountReport) add(d Diagnostic) {
	switch d.Kind {
	case KindUpdated:
		r.Updated++
	case KindSkipped:
		r.Skipped++
	case KindFailed:
		r.Failed++
	}
	r.Diagnostics = append(r.Diagnostics, d)
}

// bookStore 折扣批处理只需要遍历和单列更新
type bookStore interface {
	FindInBatches(ctx context.Context, batchSize int, fn func(books []*book.Book) error) error
	UpdateDiscountedPrice(ctx context.Context, id uint, price *decimal.Decimal) error
}

// DiscountUseCase 对全部图书按比例重新计算折后价
// 每次都从price计算，重复执行结果相同
type DiscountUseCase struct {
	books     bookStore
	batchSize int
	logger    *zap.Logger
}

// NewDiscountUseCase 创建折扣用例，batchSize<=0时使用DefaultBatchSize
func NewDiscountUseCase(books bookStore, batchSize int, logger *zap.Logger) *DiscountUseCase {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &DiscountUseCase{books: books, batchSize: batchSize, logger: logger}
}

// Execute 逐条处理并向out输出结果行
// 比例非法时不做任何修改；单条失败不影响其余图书，只有遍历本身失败才返回错误
func (uc *DiscountUseCase) Execute(ctx context.Context, percentage int, out io.Writer) (*DiscountReport, error) {
	if err := book.ValidatePercentage(percentage); err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, "pricing", "ApplyDiscount")
	defer span.End()
	span.SetAttributes(attribute.Int("discount.percentage", percentage))

	start := time.Now()
	report := &DiscountReport{Percentage: percentage, Diagnostics: []Diagnostic{}}

	err := uc.books.FindInBatches(ctx, uc.batchSize, func(books []*book.Book) error {
		for _, b := range books {
			if err := ctx.Err(); err != nil {
				return err
			}
			d := uc.applyOne(ctx, b, percentage)
			report.add(d)
			metrics.RecordDiscountResult(string(d.Kind))
			fmt.Fprintln(out, d.Message)
		}
		return nil
	})

	span.SetAttributes(
		attribute.Int("discount.updated", report.Updated),
		attribute.Int("discount.skipped", report.Skipped),
		attribute.Int("discount.failed", report.Failed),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "遍历图书失败")
		metrics.RecordDiscountRun("error", time.Since(start).Seconds())
		uc.logger.Error("折扣批处理中断",
			zap.Int("percentage", percentage),
			zap.String("trace_id", tracing.ExtractTraceID(ctx)),
			zap.Error(err),
		)
		return report, err
	}

	metrics.RecordDiscountRun("success", time.Since(start).Seconds())
	fmt.Fprintln(out, report.Summary())
	uc.logger.Info("折扣批处理完成",
		zap.Int("percentage", percentage),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("trace_id", tracing.ExtractTraceID(ctx)),
	)
	return report, nil
}

// applyOne 处理单条图书，panic也记为失败
func (uc *DiscountUseCase) applyOne(ctx context.Context, b *book.Book, percentage int) (d Diagnostic) {
	d = Diagnostic{BookID: b.ID, Title: b.Title}

	defer func() {
		if r := recover(); r != nil {
			d = uc.failed(b, fmt.Errorf("panic: %v", r))
		}
	}()

	if !b.HasPrice() {
		// 未定价的书折后价必须为空，清掉历史遗留值
		if b.DiscountedPrice != nil {
			if err := uc.books.UpdateDiscountedPrice(ctx, b.ID, nil); err != nil {
				return uc.failed(b, err)
			}
		}
		d.Kind = KindSkipped
		d.Message = fmt.Sprintf("Error: Book '%s' does not have a price.", b.Title)
		uc.logger.Warn("图书未定价，跳过", zap.Uint("book_id", b.ID))
		return d
	}

	discounted, err := b.DiscountedBy(percentage)
	if err != nil {
		return uc.failed(b, err)
	}
	if err := uc.books.UpdateDiscountedPrice(ctx, b.ID, &discounted); err != nil {
		return uc.failed(b, err)
	}

	d.Kind = KindUpdated
	d.Message = fmt.Sprintf("Original Price: %s, Discounted Price: %s",
		book.FormatPrice(b.Price), book.FormatPrice(&discounted))
	uc.logger.Debug("折后价已更新",
		zap.Uint("book_id", b.ID),
		zap.String("price", book.FormatPrice(b.Price)),
		zap.String("discounted_price", book.FormatPrice(&discounted)),
	)
	return d
}

func (uc *DiscountUseCase) failed(b *book.Book, err error) Diagnostic {
	uc.logger.Error("图书折扣处理失败", zap.Uint("book_id", b.ID), zap.Error(err))
	return Diagnostic{
		BookID:  b.ID,
		Title:   b.Title,
		Kind:    KindFailed,
		Message: fmt.Sprintf("An unexpected error occurred for book '%s': %v", b.Title, err),
	}
}
