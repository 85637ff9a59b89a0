package book

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ValidatePercentage 折扣比例必须在[0, 100]内
func ValidatePercentage(percentage int) error {
	if percentage < 0 || percentage > 100 {
		return ErrInvalidDiscount
	}
	return nil
}

// ApplyDiscount 折后价 = price − price×percentage/100
// 全程十进制运算，结果按列精度（2位小数）银行家舍入
func ApplyDiscount(price decimal.Decimal, percentage int) (decimal.Decimal, error) {
	if err := ValidatePercentage(percentage); err != nil {
		return decimal.Decimal{}, err
	}
	off := price.Mul(decimal.NewFromInt(int64(percentage))).Div(hundred)
	return price.Sub(off).RoundBank(PriceDecimalPlaces), nil
}

// FormatPrice 固定两位小数输出，nil返回空字符串
func FormatPrice(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(PriceDecimalPlaces)
}
