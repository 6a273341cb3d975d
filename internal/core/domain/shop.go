package domain

// Shop is shop-level metadata. It changes rarely and is cached with a
// longer TTL than product or cart data.
type Shop struct {
	Name        string `json:"name"`
	MoneyFormat string `json:"moneyFormat"`
}

// Valid reports whether the record carries both fields. Cached shop info
// missing either field is discarded and refetched.
func (s Shop) Valid() bool {
	return s.Name != "" && s.MoneyFormat != ""
}
