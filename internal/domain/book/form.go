package book

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// 表单错误信息，客户端按原文展示
const (
	MsgRequired         = "This field is required."
	MsgMaxLength        = "Ensure this value has at most %d characters (it has %d)."
	MsgInvalidChoice    = "Select a valid choice. That choice is not one of the available choices."
	MsgInvalidPK        = "“%s” is not a valid value."
	MsgInvalidPKChoice  = "Select a valid choice. %s is not one of the available choices."
	MsgWholeNumber      = "Enter a whole number."
	MsgMaxValue         = "Ensure this value is less than or equal to %d."
	MsgMinValue         = "Ensure this value is greater than or equal to %d."
	MsgNumber           = "Enter a number."
	MsgMaxDigits        = "Ensure that there are no more than %d digits in total."
	MsgMaxDecimalPlaces = "Ensure that there are no more than %d decimal places."
	MsgMaxWholeDigits   = "Ensure that there are no more than %d digits before the decimal point."
	MsgPriceRequired    = "A discounted price requires a price."
)

// FieldErrors 按字段归集的表单错误
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e[k], " "))
	}
	return strings.Join(parts, "; ")
}

// FieldMessages 供HTTP层输出
func (e FieldErrors) FieldMessages() map[string][]string {
	return e
}

// BookForm 原始表单输入，所有值保持字符串形式，由Validate负责解析
type BookForm struct {
	Title           string
	Author          string
	PublicationYear string
	Genres          []string // nil或空表示未提交
	Price           string
	DiscountedPrice string
}

// BookInput 校验通过后的输入
type BookInput struct {
	Title           string
	AuthorID        uint
	PublicationYear int
	GenreIDs        []uint
	Price           *decimal.Decimal
	DiscountedPrice *decimal.Decimal
}

var requiredRule = validation.Required.ErrorObject(validation.NewError("validation_required", MsgRequired))

// Validate 逐字段校验表单，作者与分类需要查询是否存在
// 校验失败返回FieldErrors；查询出错返回原始错误
func (f BookForm) Validate(ctx context.Context, authors AuthorRepository, genres GenreRepository) (*BookInput, error) {
	in := &BookInput{Title: strings.TrimSpace(f.Title)}

	errs := validation.Errors{
		"title":            validation.Validate(in.Title, requiredRule, maxLength(TitleMaxLength)),
		"author":           validation.Validate(strings.TrimSpace(f.Author), requiredRule, authorChoice(ctx, authors, &in.AuthorID)),
		"publication_year": validation.Validate(strings.TrimSpace(f.PublicationYear), requiredRule, wholeNumber(&in.PublicationYear)),
		"genres":           validation.Validate(f.Genres, requiredRule, genreChoices(ctx, genres, &in.GenreIDs)),
		"price":            validation.Validate(strings.TrimSpace(f.Price), decimalField(&in.Price)),
		"discounted_price": validation.Validate(strings.TrimSpace(f.DiscountedPrice), decimalField(&in.DiscountedPrice)),
	}
	// 折后价依附于原价
	if errs["price"] == nil && errs["discounted_price"] == nil && in.Price == nil && in.DiscountedPrice != nil {
		errs["discounted_price"] = newError("validation_price_required", MsgPriceRequired)
	}
	if err := toFieldErrors(errs); err != nil {
		return nil, err
	}
	return in, nil
}

// ValidateName 校验作者/分类名称
func ValidateName(name string, max int) (string, error) {
	name = strings.TrimSpace(name)
	errs := validation.Errors{
		"name": validation.Validate(name, requiredRule, maxLength(max)),
	}
	if err := toFieldErrors(errs); err != nil {
		return "", err
	}
	return name, nil
}

// toFieldErrors validation.Errors → FieldErrors，遇到内部错误直接返回
func toFieldErrors(errs validation.Errors) error {
	filtered := errs.Filter()
	if filtered == nil {
		return nil
	}

	out := FieldErrors{}
	for field, err := range filtered.(validation.Errors) {
		var internal validation.InternalError
		if errors.As(err, &internal) {
			return internal.InternalError()
		}
		out[field] = []string{err.Error()}
	}
	return out
}

func newError(code, message string) validation.Error {
	return validation.NewError(code, message)
}

// maxLength 按字符（rune）计数
func maxLength(max int) validation.Rule {
	return validation.By(func(value interface{}) error {
		n := utf8.RuneCountInString(value.(string))
		if n > max {
			return newError("validation_length_too_long", fmt.Sprintf(MsgMaxLength, max, n))
		}
		return nil
	})
}

func authorChoice(ctx context.Context, authors AuthorRepository, out *uint) validation.Rule {
	return validation.By(func(value interface{}) error {
		s := value.(string)
		if s == "" {
			return nil
		}
		id, err := strconv.ParseUint(s, 10, 0)
		if err != nil || id == 0 {
			return newError("validation_invalid_choice", MsgInvalidChoice)
		}
		if _, err := authors.FindByID(ctx, uint(id)); err != nil {
			if errors.Is(err, ErrAuthorNotFound) {
				return newError("validation_invalid_choice", MsgInvalidChoice)
			}
			return validation.NewInternalError(err)
		}
		*out = uint(id)
		return nil
	})
}

func genreChoices(ctx context.Context, genres GenreRepository, out *[]uint) validation.Rule {
	return validation.By(func(value interface{}) error {
		tokens := value.([]string)
		if len(tokens) == 0 {
			return nil
		}

		ids := make([]uint, 0, len(tokens))
		seen := make(map[uint]bool, len(tokens))
		for _, tok := range tokens {
			id, err := strconv.ParseUint(strings.TrimSpace(tok), 10, 0)
			if err != nil {
				return newError("validation_invalid_pk", fmt.Sprintf(MsgInvalidPK, tok))
			}
			if !seen[uint(id)] {
				seen[uint(id)] = true
				ids = append(ids, uint(id))
			}
		}

		found, err := genres.FindByIDs(ctx, ids)
		if err != nil {
			return validation.NewInternalError(err)
		}
		exists := make(map[uint]bool, len(found))
		for _, g := range found {
			exists[g.ID] = true
		}
		for _, id := range ids {
			if !exists[id] {
				return newError("validation_invalid_choice", fmt.Sprintf(MsgInvalidPKChoice, strconv.FormatUint(uint64(id), 10)))
			}
		}

		*out = ids
		return nil
	})
}

// trailingZeroFraction 整数字段允许"2023.0"这样的写法
var trailingZeroFraction = regexp.MustCompile(`\.0*$`)

func wholeNumber(out *int) validation.Rule {
	return validation.By(func(value interface{}) error {
		s := value.(string)
		if s == "" {
			return nil
		}
		n, err := strconv.ParseInt(trailingZeroFraction.ReplaceAllString(s, ""), 10, 64)
		if err != nil {
			var numErr *strconv.NumError
			if !errors.As(err, &numErr) || !errors.Is(numErr.Err, strconv.ErrRange) {
				return newError("validation_invalid", MsgWholeNumber)
			}
			if strings.HasPrefix(s, "-") {
				n = math.MinInt64
			} else {
				n = math.MaxInt64
			}
		}
		if n > math.MaxInt32 {
			return newError("validation_max_value", fmt.Sprintf(MsgMaxValue, math.MaxInt32))
		}
		if n < math.MinInt32 {
			return newError("validation_min_value", fmt.Sprintf(MsgMinValue, math.MinInt32))
		}
		*out = int(n)
		return nil
	})
}

// decimalField 可选的decimal(10,2)字段，空值表示nil
func decimalField(out **decimal.Decimal) validation.Rule {
	return validation.By(func(value interface{}) error {
		s := value.(string)
		if s == "" {
			return nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return newError("validation_invalid", MsgNumber)
		}
		if msg := checkDigits(d, PriceMaxDigits, PriceDecimalPlaces); msg != "" {
			return newError("validation_decimal", msg)
		}
		*out = &d
		return nil
	})
}

// checkDigits 按有效数字和小数位校验，前导零不计，正指数补零计入整数位
func checkDigits(d decimal.Decimal, maxDigits, places int) string {
	digitStr := strings.TrimPrefix(d.Coefficient().String(), "-")
	exponent := int(d.Exponent())

	var digits, decimals int
	if exponent >= 0 {
		digits = len(digitStr)
		if digitStr != "0" {
			digits += exponent
		}
	} else if -exponent > len(digitStr) {
		digits, decimals = -exponent, -exponent
	} else {
		digits, decimals = len(digitStr), -exponent
	}
	whole := digits - decimals

	switch {
	case digits > maxDigits:
		return fmt.Sprintf(MsgMaxDigits, maxDigits)
	case decimals > places:
		return fmt.Sprintf(MsgMaxDecimalPlaces, places)
	case whole > maxDigits-places:
		return fmt.Sprintf(MsgMaxWholeDigits, maxDigits-places)
	}
	return ""
}
