package models

// Requests for the HTTP endpoints. Defaults are applied before binding, so a
// value explicitly sent as zero is kept.

type ScreenRequest struct {
	MinPrice        float64 `query:"minPrice" json:"minPrice" default:"1" validate:"gte=0"`
	MinMarketCap    float64 `query:"minMarketCap" json:"minMarketCap" default:"50000000" validate:"gte=0"`
	MinDollarVolume float64 `query:"minDollarVolume" json:"minDollarVolume" default:"2000000" validate:"gte=0"`
	Exchanges       string  `query:"exchanges" json:"exchanges" default:"NASDAQ,NYSE,AMEX"`
	Limit           int     `query:"limit" json:"limit" default:"100"`
	Conf            float64 `query:"conf" json:"conf" default:"0.7"`
}

type SignalRequest struct {
	Symbol    string  `query:"symbol" json:"symbol" default:"AEIS" validate:"required,max=16"`
	Conf      float64 `query:"conf" json:"conf" default:"0.7"`
	Mu        float64 `query:"mu" json:"mu" default:"0.01"`
	Sigma     float64 `query:"sigma" json:"sigma" default:"0.05"`
	KellyMode string  `query:"kellyMode" json:"kellyMode" default:"half"`
	MaxWeight float64 `query:"maxWeight" json:"maxWeight" default:"0.07"`
	Regime    bool    `query:"regime" json:"regime"`
}

type ScreenResponse struct {
	OK       bool           `json:"ok"`
	Count    int            `json:"count"`
	Criteria ScreenCriteria `json:"criteria"`
	Results  []CandidateRow `json:"results"`
	Warnings []string       `json:"warnings"`
}

type SignalInputs struct {
	PRiskOn          float64 `json:"pRiskOn"`
	Mu               float64 `json:"mu"`
	Sigma            float64 `json:"sigma"`
	KellyMode        string  `json:"kellyMode"`
	MaxWeight        float64 `json:"maxWeight"`
	ConfidenceSource string  `json:"confidenceSource"`
}

type SignalResponse struct {
	OK      bool         `json:"ok"`
	Symbol  string       `json:"symbol"`
	Inputs  SignalInputs `json:"inputs"`
	Outputs SizingResult `json:"outputs"`
	Note    string       `json:"note,omitempty"`
}

type HealthResponse struct {
	OK      bool   `json:"ok"`
	App     string `json:"app"`
	Runtime string `json:"runtime"`
	Time    string `json:"time"`
}
