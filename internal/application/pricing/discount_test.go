package pricing

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookapp/internal/domain/book"
)

type fakeStore struct {
	books     []*book.Book
	updated   map[uint]string
	failOn    map[uint]error
	scanErr   error
	batchSeen []int
}

func (f *fakeStore) FindInBatches(_ context.Context, batchSize int, fn func([]*book.Book) error) error {
	if f.scanErr != nil {
		return f.scanErr
	}
	for start := 0; start < len(f.books); start += batchSize {
		end := start + batchSize
		if end > len(f.books) {
			end = len(f.books)
		}
		f.batchSeen = append(f.batchSeen, end-start)
		if err := fn(f.books[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeStore) UpdateDiscountedPrice(_ context.Context, id uint, price *decimal.Decimal) error {
	if err := f.failOn[id]; err != nil {
		return err
	}
	if f.updated == nil {
		f.updated = map[uint]string{}
	}
	f.updated[id] = book.FormatPrice(price)
	return nil
}

func priced(id uint, title, price string) *book.Book {
	b := &book.Book{ID: id, Title: title}
	if price != "" {
		d := decimal.RequireFromString(price)
		b.Price = &d
	}
	return b
}

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func TestDiscountUseCase_UnpricedClearsDiscountedPrice(t *testing.T) {
	stale := priced(1, "Stale", "")
	d := decimal.RequireFromString("5.00")
	stale.DiscountedPrice = &d
	store := &fakeStore{books: []*book.Book{stale, priced(2, "Never", "")}}
	uc := NewDiscountUseCase(store, 10, zap.NewNop())

	var out bytes.Buffer
	report, err := uc.Execute(context.Background(), 30, &out)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, map[uint]string{1: ""}, store.updated)
	assert.Equal(t, "Error: Book 'Stale' does not have a price.", lines(&out)[0])

	t.Run("清空失败记为失败", func(t *testing.T) {
		store := &fakeStore{books: []*book.Book{stale}, failOn: map[uint]error{1: errors.New("locked")}}
		report, err := NewDiscountUseCase(store, 10, zap.NewNop()).Execute(context.Background(), 30, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, 1, report.Failed)
	})
}

func TestDiscountUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{
		books: []*book.Book{
			priced(1, "Dune", "100.00"),
			priced(2, "Unpriced", ""),
			priced(3, "Broken", "20.00"),
			priced(4, "Cheap", "19.99"),
		},
		failOn: map[uint]error{3: errors.New("disk full")},
	}
	uc := NewDiscountUseCase(store, 2, zap.NewNop())

	var out bytes.Buffer
	report, err := uc.Execute(ctx, 10, &out)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Original Price: 100.00, Discounted Price: 90.00",
		"Error: Book 'Unpriced' does not have a price.",
		"An unexpected error occurred for book 'Broken': disk full",
		"Original Price: 19.99, Discounted Price: 17.99",
		"Discount 10% applied: 2 updated, 1 skipped, 1 failed",
	}, lines(&out))

	assert.Equal(t, 2, report.Updated)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Diagnostics, 4)
	assert.Equal(t, KindSkipped, report.Diagnostics[1].Kind)
	assert.Equal(t, uint(2), report.Diagnostics[1].BookID)

	assert.Equal(t, map[uint]string{1: "90.00", 4: "17.99"}, store.updated)
	assert.Equal(t, []int{2, 2}, store.batchSeen)
}

func TestDiscountUseCase_ZeroPercentKeepsPrice(t *testing.T) {
	store := &fakeStore{books: []*book.Book{priced(1, "Dune", "100.00")}}
	uc := NewDiscountUseCase(store, 0, zap.NewNop())

	var out bytes.Buffer
	_, err := uc.Execute(context.Background(), 0, &out)
	require.NoError(t, err)
	assert.Equal(t, "100.00", store.updated[1])
}

func TestDiscountUseCase_Idempotent(t *testing.T) {
	store := &fakeStore{books: []*book.Book{priced(1, "Dune", "100.00")}}
	uc := NewDiscountUseCase(store, 10, zap.NewNop())

	for i := 0; i < 2; i++ {
		_, err := uc.Execute(context.Background(), 25, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "75.00", store.updated[1])
	}
}

func TestDiscountUseCase_InvalidPercentage(t *testing.T) {
	store := &fakeStore{books: []*book.Book{priced(1, "Dune", "100.00")}}
	uc := NewDiscountUseCase(store, 10, zap.NewNop())

	for _, pct := range []int{-1, 101} {
		var out bytes.Buffer
		_, err := uc.Execute(context.Background(), pct, &out)
		assert.ErrorIs(t, err, book.ErrInvalidDiscount)
		assert.Empty(t, out.String())
	}
	assert.Empty(t, store.updated)
}

func TestDiscountUseCase_ScanFailure(t *testing.T) {
	boom := errors.New("connection lost")
	uc := NewDiscountUseCase(&fakeStore{scanErr: boom}, 10, zap.NewNop())

	var out bytes.Buffer
	_, err := uc.Execute(context.Background(), 10, &out)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, out.String(), "中断时不输出汇总行")
}

type panicStore struct{ fakeStore }

func (p *panicStore) UpdateDiscountedPrice(context.Context, uint, *decimal.Decimal) error {
	panic("driver bug")
}

func TestDiscountUseCase_RecoversPanic(t *testing.T) {
	store := &panicStore{fakeStore{books: []*book.Book{priced(1, "A", "1.00"), priced(2, "B", "")}}}
	uc := NewDiscountUseCase(store, 10, zap.NewNop())

	var out bytes.Buffer
	report, err := uc.Execute(context.Background(), 50, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Skipped)
	assert.Contains(t, out.String(), "An unexpected error occurred for book 'A': panic: driver bug")
}
