package domain

import (
	"strconv"
	"strings"
)

// DefaultMoneyFormat is used when the shop has not supplied a template.
const DefaultMoneyFormat = "${{amount}}"

// Money is a decimal amount in a single currency, exactly as returned by
// the commerce API. Amounts are never computed locally, only formatted.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// Format renders the amount through a shop-supplied money format template
// containing the {{amount}} and {{currency_code}} placeholders.
// The amount is normalized to two decimal places when it parses cleanly.
func (m Money) Format(moneyFormat string) string {
	if moneyFormat == "" {
		moneyFormat = DefaultMoneyFormat
	}

	amount := m.Amount
	if f, err := strconv.ParseFloat(strings.TrimSpace(m.Amount), 64); err == nil {
		amount = strconv.FormatFloat(f, 'f', 2, 64)
	}

	out := strings.Replace(moneyFormat, "{{amount}}", amount, 1)
	out = strings.Replace(out, "{{currency_code}}", m.CurrencyCode, 1)
	return out
}
