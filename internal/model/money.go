package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

var paisePerRupee = decimal.NewFromInt(100)

// Rupees はパイサ単位の金額をルピーに換算する。
func Rupees(paise decimal.Decimal) decimal.Decimal {
	return paise.Div(paisePerRupee)
}

// FormatINR はパイサ単位の金額を整数ルピーに丸め、インド式の桁区切りで表示する。
// 例: 12345678 パイサ -> ₹1,23,457
func FormatINR(paise decimal.Decimal) string {
	return "₹" + groupIndian(Rupees(paise).Round(0).StringFixed(0))
}

// FormatINRExact はパイサ単位の金額を小数点以下2桁のルピーで表示する。
// 例: 150050 パイサ -> ₹1,500.50
func FormatINRExact(paise decimal.Decimal) string {
	s := Rupees(paise).StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	return "₹" + groupIndian(intPart) + "." + frac
}

// groupIndian は整数部の文字列を下3桁、以降2桁ごとにカンマで区切る。
func groupIndian(digits string) string {
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	if len(digits) > 3 {
		head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		digits = strings.Join(groups, ",") + "," + tail
	}
	if neg {
		return "-" + digits
	}
	return digits
}
