package repository

import "strings"

// Exchange identifies one listing venue served by a quote source.
type Exchange string

const (
	ExchangeNASDAQ Exchange = "NASDAQ"
	ExchangeNYSE   Exchange = "NYSE"
	ExchangeAMEX   Exchange = "AMEX"
)

// DefaultExchanges is the supported set in merge-priority order.
func DefaultExchanges() []Exchange {
	return []Exchange{ExchangeNASDAQ, ExchangeNYSE, ExchangeAMEX}
}

// NormalizeExchange upper-cases and trims a raw identifier.
func NormalizeExchange(s string) Exchange {
	return Exchange(strings.ToUpper(strings.TrimSpace(s)))
}

// ParseExchanges splits a comma separated list into normalized identifiers,
// keeping first occurrences only. Empty items are skipped.
func ParseExchanges(raw string) []Exchange {
	seen := make(map[Exchange]struct{})
	out := make([]Exchange, 0, 3)
	for _, part := range strings.Split(raw, ",") {
		ex := NormalizeExchange(part)
		if ex == "" {
			continue
		}
		if _, ok := seen[ex]; ok {
			continue
		}
		seen[ex] = struct{}{}
		out = append(out, ex)
	}
	return out
}
