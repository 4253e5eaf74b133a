package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast-app/skycast-backend/config"
	"github.com/skycast-app/skycast-backend/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.IsTest = true
}

func setupRelayRouter(baseURL, apiKey string) *gin.Engine {
	h := NewRelayHandler(config.WeatherConfig{APIKey: apiKey, BaseURL: baseURL})
	r := gin.New()
	r.GET("/api/weather", h.Forward)
	return r
}

func TestForward_InjectsKeyAndForwardsParams(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		q := r.URL.Query()
		gotQuery = map[string]string{
			"appid": q.Get("appid"),
			"lat":   q.Get("lat"),
			"lon":   q.Get("lon"),
			"units": q.Get("units"),
			"type":  q.Get("type"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"lat":34.2257}`))
	}))
	defer upstream.Close()

	r := setupRelayRouter(upstream.URL, "secret-key")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/weather?type=onecall&lat=34.2257&lon=-77.9447&units=metric", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"lat":34.2257}`, w.Body.String())

	assert.Equal(t, "/data/3.0/onecall", gotPath)
	assert.Equal(t, "secret-key", gotQuery["appid"])
	assert.Equal(t, "34.2257", gotQuery["lat"])
	assert.Equal(t, "-77.9447", gotQuery["lon"])
	assert.Equal(t, "metric", gotQuery["units"])
	// The type discriminator is consumed by the relay, not forwarded.
	assert.Empty(t, gotQuery["type"])
}

func TestForward_GeoEndpoints(t *testing.T) {
	tests := []struct {
		reqType  string
		wantPath string
	}{
		{"direct", "/geo/1.0/direct"},
		{"zip", "/geo/1.0/zip"},
		{"reverse", "/geo/1.0/reverse"},
	}

	for _, tt := range tests {
		t.Run(tt.reqType, func(t *testing.T) {
			var gotPath string
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				_, _ = w.Write([]byte(`[]`))
			}))
			defer upstream.Close()

			r := setupRelayRouter(upstream.URL, "k")
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/weather?type="+tt.reqType+"&q=Wilmington", nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantPath, gotPath)
		})
	}
}

func TestForward_MissingType(t *testing.T) {
	r := setupRelayRouter("http://unused", "k")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/weather?lat=1&lon=2", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing 'type' parameter", w.Body.String())
}

func TestForward_InvalidType(t *testing.T) {
	r := setupRelayRouter("http://unused", "k")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/weather?type=forecast", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid 'type' parameter", w.Body.String())
}

func TestForward_ProxiesUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	}))
	defer upstream.Close()

	r := setupRelayRouter(upstream.URL, "bad-key")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/weather?type=direct&q=Wilmington", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"cod":401,"message":"Invalid API key"}`, w.Body.String())
}

func TestForward_UpstreamUnreachable(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // force a connection error

	r := setupRelayRouter(upstream.URL, "k")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/weather?type=onecall&lat=1&lon=2", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch weather data"}`, w.Body.String())
}
