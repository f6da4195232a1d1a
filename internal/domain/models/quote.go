package models

// QuoteRow is one exchange's view of one instrument at fetch time.
// Price, volume and market cap are zero when the provider omits them so the
// screening math stays total; descriptive fields stay nil.
type QuoteRow struct {
	Symbol      string   `json:"symbol"`
	Name        *string  `json:"name"`
	Exchange    string   `json:"exchange"`
	Price       float64  `json:"price"`
	Volume      float64  `json:"volume"`
	AvgVolume   float64  `json:"avgVolume"`
	MarketCap   float64  `json:"marketCap"`
	PERatio     *float64 `json:"peRatio"`
	EPS         *float64 `json:"eps"`
	PriceAvg50  *float64 `json:"priceAvg50"`
	PriceAvg200 *float64 `json:"priceAvg200"`
	YearHigh    *float64 `json:"yearHigh"`
	YearLow     *float64 `json:"yearLow"`
}

// Key returns the dedup key of the row: the symbol, or the name when the
// symbol is missing.
func (q QuoteRow) Key() string {
	if q.Symbol != "" {
		return q.Symbol
	}
	if q.Name != nil {
		return *q.Name
	}
	return ""
}

// LiquidityVolume is the volume used for dollar volume. Snapshot volume is
// preferred; average volume stands in when the snapshot has none.
func (q QuoteRow) LiquidityVolume() float64 {
	if q.Volume > 0 {
		return q.Volume
	}
	return q.AvgVolume
}

// CandidateRow is a quote that survived screening.
type CandidateRow struct {
	QuoteRow
	DollarVolume float64 `json:"dollarVolume"`
	Confidence   float64 `json:"confidence"`
}
