package models

import "time"

// Candle is an OHLCV bar read from the feature store.
type Candle struct {
	Bucket time.Time
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Regime is the answer of the external regime estimator.
type Regime struct {
	Symbol     string
	Timestamp  time.Time
	State      string    // "risk_on", "risk_off"
	Prob       []float64 // probabilities per state
	Confidence float64
}
