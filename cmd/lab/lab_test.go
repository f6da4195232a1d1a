package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"SmallCapLab/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runLab(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	out := &bytes.Buffer{}
	root := newRootCmd()
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append(args, "--config", "testdata/missing.yaml"))
	return out, root.Execute()
}

func TestSizeCommand(t *testing.T) {
	out, err := runLab(t, "size", "--symbol", "aeis", "--conf", "0.72", "--mu", "0.018", "--sigma", "0.07")
	require.NoError(t, err)

	var res models.SignalResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, "AEIS", res.Symbol)
	assert.InDelta(t, 3.673, res.Outputs.RawKellyFraction, 1e-3)
	assert.InDelta(t, 1.322, res.Outputs.AdjustedFraction, 1e-3)
	assert.Equal(t, 0.07, res.Outputs.SuggestedWeight)
}

func TestSizeCommandRegimeWithoutEstimator(t *testing.T) {
	out, err := runLab(t, "size", "--regime")
	require.NoError(t, err)

	var res models.SignalResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, "request", res.Inputs.ConfidenceSource)
	assert.NotEmpty(t, res.Note)
}

func TestScreenCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/quotes/NASDAQ":
			_, _ = w.Write([]byte(`[{"symbol":"AEIS","price":100,"volume":100000,"marketCap":4000000000},{"symbol":"TINY","price":0.5,"volume":10,"marketCap":1}]`))
		case "/api/v3/quotes/NYSE":
			w.WriteHeader(http.StatusBadGateway)
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer srv.Close()

	out, err := runLab(t, "screen", "--fmp-base-url", srv.URL, "--source", "fmp", "--limit", "10")
	require.NoError(t, err)

	var res models.ScreenResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.True(t, res.OK)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "AEIS", res.Results[0].Symbol)
	assert.Equal(t, 1e7, res.Results[0].DollarVolume)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "NYSE")
	assert.Equal(t, 10, res.Criteria.ResultLimit)
}
