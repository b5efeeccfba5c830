package resampling

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	v1 "github.com/barline-lab/barline/internal/api/v1"
	httperr "github.com/barline-lab/barline/internal/core/errors"
	"github.com/barline-lab/barline/internal/core/resample"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, maxTicks int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ten_second_bars.yaml"), []byte(`
name: "ten_second_bars"
mode: "time"
threshold: 10000
`), 0o644))

	presets, err := resample.NewFileSystemPresetRepository(dir)
	require.NoError(t, err)

	svc := NewService(presets, 1, maxTicks)
	r := gin.New()
	svc.RegisterRoutes(r)
	return r
}

func sampleTicksJSON() string {
	return `[
		{"timestamp": 1000, "price": 100.0, "volume": 10},
		{"timestamp": 2000, "price": 101.5, "volume": 5},
		{"timestamp": 8000, "price": 99.5, "volume": 20},
		{"timestamp": 10000, "price": 102.0, "volume": 15},
		{"timestamp": 11000, "price": 102.5, "volume": 8},
		{"timestamp": 14000, "price": 101.0, "volume": 30},
		{"timestamp": 19000, "price": 103.0, "volume": 10},
		{"timestamp": 22000, "price": 102.8, "volume": 40}
	]`
}

func doJSON(r *gin.Engine, method, url, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestResampleHandler_TimeMode(t *testing.T) {
	r := newTestRouter(t, 1000)

	body := `{"mode": "time", "threshold": 10000, "ticks": ` + sampleTicksJSON() + `}`
	resp := doJSON(r, http.MethodPost, "/v1/resample", body)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var out v1.ResampleResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.Equal(t, "time", out.Mode)
	require.Equal(t, int64(10000), out.Threshold)
	require.Equal(t, 8, out.TickCount)
	require.Equal(t, []v1.Bar{
		{OpenTimestamp: 0, Open: 100.0, High: 101.5, Low: 99.5, Close: 99.5, TotalVolume: 35},
		{OpenTimestamp: 10000, Open: 102.0, High: 103.0, Low: 101.0, Close: 103.0, TotalVolume: 63},
		{OpenTimestamp: 20000, Open: 102.8, High: 102.8, Low: 102.8, Close: 102.8, TotalVolume: 40},
	}, out.Bars)
}

func TestResampleHandler_EmptyTicks(t *testing.T) {
	r := newTestRouter(t, 1000)

	resp := doJSON(r, http.MethodPost, "/v1/resample", `{"mode": "volume", "threshold": 50, "ticks": []}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var out v1.ResampleResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.Equal(t, 0, out.TickCount)
	require.Empty(t, out.Bars)
}

func TestResampleHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		body           string
		expectedStatus int
		expectedType   string
	}{
		{
			name:           "malformed json",
			url:            "/v1/resample",
			body:           `{"mode": "time",`,
			expectedStatus: http.StatusBadRequest,
			expectedType:   httperr.HttpInvalidJsonError,
		},
		{
			name:           "zero threshold",
			url:            "/v1/resample",
			body:           `{"mode": "tick", "threshold": 0, "ticks": []}`,
			expectedStatus: http.StatusBadRequest,
			expectedType:   httperr.HttpInvalidConfigError,
		},
		{
			name:           "negative threshold",
			url:            "/v1/resample",
			body:           `{"mode": "dollar", "threshold": -5, "ticks": []}`,
			expectedStatus: http.StatusBadRequest,
			expectedType:   httperr.HttpInvalidConfigError,
		},
		{
			name:           "unknown mode",
			url:            "/v1/resample",
			body:           `{"mode": "range", "threshold": 10, "ticks": []}`,
			expectedStatus: http.StatusBadRequest,
			expectedType:   httperr.HttpInvalidConfigError,
		},
		{
			name:           "negative volume tick",
			url:            "/v1/resample",
			body:           `{"mode": "tick", "threshold": 3, "ticks": [{"timestamp": 1, "price": 1.0, "volume": -2}]}`,
			expectedStatus: http.StatusBadRequest,
			expectedType:   httperr.HttpInvalidJsonError,
		},
		{
			name:           "unknown preset",
			url:            "/v1/resample/preset/no_such_preset",
			body:           `{"ticks": []}`,
			expectedStatus: http.StatusNotFound,
			expectedType:   httperr.HttpPresetNotFoundError,
		},
	}

	r := newTestRouter(t, 1000)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(r, http.MethodPost, tc.url, tc.body)
			require.Equal(t, tc.expectedStatus, resp.Code, resp.Body.String())

			var out httperr.ErrorResponse
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
			require.Equal(t, tc.expectedType, out.ErrorType)
		})
	}
}

func TestResampleHandler_TickCap(t *testing.T) {
	r := newTestRouter(t, 4)

	body := `{"mode": "tick", "threshold": 3, "ticks": ` + sampleTicksJSON() + `}`
	resp := doJSON(r, http.MethodPost, "/v1/resample", body)
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.Code, resp.Body.String())

	var out httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.Equal(t, httperr.HttpTooManyTicksError, out.ErrorType)
}

func TestResamplePresetHandler(t *testing.T) {
	r := newTestRouter(t, 1000)

	resp := doJSON(r, http.MethodPost, "/v1/resample/preset/ten_second_bars", `{"ticks": `+sampleTicksJSON()+`}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var out v1.ResampleResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.Equal(t, "time", out.Mode)
	require.Equal(t, int64(10000), out.Threshold)
	require.Len(t, out.Bars, 3)
}

func TestListPresetsHandler(t *testing.T) {
	r := newTestRouter(t, 1000)

	resp := doJSON(r, http.MethodGet, "/v1/presets", "")
	require.Equal(t, http.StatusOK, resp.Code)

	var out struct {
		Presets []v1.PresetSummary `json:"presets"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.Equal(t, []v1.PresetSummary{
		{Name: "ten_second_bars", Mode: "time", Threshold: 10000},
	}, out.Presets)
}
