// Package numparse 把表单来的数字文本规整成干净的数值。
// 全角数字、千位分隔符、前后空白在进聚合引擎之前统一清洗，
// 引擎自身只接受已规整的数值类型
package numparse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/width"
)

// Normalize 清洗数字文本：全角→半角、去千位逗号、去空白
func Normalize(s string) string {
	s = width.Fold.String(s)
	s = strings.ReplaceAll(s, ",", "")
	return strings.TrimSpace(s)
}

// ParseDecimal 清洗后解析为decimal。空串报错
func ParseDecimal(s string) (decimal.Decimal, error) {
	cleaned := Normalize(s)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty numeric input")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid numeric input %q: %w", s, err)
	}
	return d, nil
}

// ParseInt 清洗后解析为int
func ParseInt(s string) (int, error) {
	cleaned := Normalize(s)
	if cleaned == "" {
		return 0, fmt.Errorf("empty numeric input")
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid integer input %q: %w", s, err)
	}
	return n, nil
}
