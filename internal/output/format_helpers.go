package output

import (
	"strconv"

	money "github.com/rpgo/networth-projector/pkg/decimal"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats a decimal as USD currency with thousands separators and 2 decimals.
func FormatCurrency(amount decimal.Decimal) string { return money.NewMoney(amount).Format() }

// FormatWholeCurrency formats a decimal as USD rounded to whole dollars.
func FormatWholeCurrency(amount decimal.Decimal) string { return money.NewMoney(amount).FormatWhole() }

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

func intToString(v int) string   { return strconv.Itoa(v) }
func boolToString(v bool) string { return strconv.FormatBool(v) }
