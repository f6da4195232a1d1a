package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRegimeDetectorDetect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/regime/detect", r.URL.Path)
		var req regimeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "AEIS", req.Symbol)
		assert.Len(t, req.Returns, 2)
		_ = json.NewEncoder(w).Encode(regimeResponse{State: "risk_on", Prob: []float64{0.8, 0.2}, Confidence: 0.8})
	}))
	defer srv.Close()

	d := NewHTTPRegimeDetector(srv.URL, time.Second)
	got, err := d.Detect(context.Background(), "AEIS", []float64{0.01, -0.02})
	require.NoError(t, err)
	assert.Equal(t, "risk_on", got.State)
	assert.Equal(t, 0.8, got.Confidence)
	assert.Equal(t, "AEIS", got.Symbol)
}

func TestHTTPRegimeDetectorRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(regimeResponse{State: "risk_off", Confidence: 0.3})
	}))
	defer srv.Close()

	d := NewHTTPRegimeDetector(srv.URL, time.Second)
	got, err := d.Detect(context.Background(), "X", nil)
	require.NoError(t, err)
	assert.Equal(t, 0.3, got.Confidence)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestHTTPRegimeDetectorUnconfigured(t *testing.T) {
	d := NewHTTPRegimeDetector("", time.Second)
	_, err := d.Detect(context.Background(), "X", nil)
	assert.Error(t, err)
}

func TestStaticConfidence(t *testing.T) {
	c, err := StaticConfidence(0.4).Confidence(context.Background(), "ANY")
	require.NoError(t, err)
	assert.Equal(t, 0.4, c)
}
