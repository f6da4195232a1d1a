package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	MinPrice float64 `query:"minPrice" default:"1" validate:"gte=0"`
	Symbol   string  `query:"symbol" default:"AEIS" validate:"required,max=4"`
}

func bindSample(t *testing.T, target string) (*sampleRequest, interface{}) {
	t.Helper()
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
	req := &sampleRequest{}
	return req, ReadAndValidateRequest(c, req)
}

func TestReadAndValidateRequestDefaultsThenBinds(t *testing.T) {
	req, verr := bindSample(t, "/?minPrice=0")
	require.Nil(t, verr)
	assert.Zero(t, req.MinPrice)
	assert.Equal(t, "AEIS", req.Symbol)
}

func TestReadAndValidateRequestReportsQueryNames(t *testing.T) {
	_, verr := bindSample(t, "/?minPrice=-2&symbol=TOOLONG")
	errs, ok := verr.([]ValidationError)
	require.True(t, ok)
	require.Len(t, errs, 2)

	assert.Equal(t, "minPrice", errs[0].Field)
	assert.Equal(t, "ERR_GTE", errs[0].Code)
	assert.Equal(t, "0", errs[0].Params["min"])
	assert.Equal(t, "symbol", errs[1].Field)
	assert.Equal(t, "symbol must be at most 4 characters", errs[1].Message)
}

func TestReadAndValidateRequestBindError(t *testing.T) {
	_, verr := bindSample(t, "/?minPrice=abc")
	errs, ok := verr.([]ValidationError)
	require.True(t, ok)
	assert.Equal(t, "ERR_UNKNOWN", errs[0].Code)
}
