// Package handlers contains the gin handlers for the relay's HTTP surface.
package handlers

import (
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/skycast-app/skycast-backend/config"
	"github.com/skycast-app/skycast-backend/logger"
)

var upstreamRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "skycast_relay_upstream_requests_total",
		Help: "Upstream weather provider requests by relay type and response status.",
	},
	[]string{"type", "status"},
)

func init() {
	prometheus.MustRegister(upstreamRequests)
}

// upstreamPaths maps the relay's type discriminator to the provider paths.
var upstreamPaths = map[string]string{
	"onecall": "/data/3.0/onecall",
	"direct":  "/geo/1.0/direct",
	"zip":     "/geo/1.0/zip",
	"reverse": "/geo/1.0/reverse",
}

// RelayHandler forwards sanitized weather and geocoding requests to the
// upstream provider, injecting the secret API key server-side. The key never
// reaches the client or the resolution core.
type RelayHandler struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewRelayHandler(cfg config.WeatherConfig) *RelayHandler {
	return &RelayHandler{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}
}

// Forward handles GET /api/weather. The `type` query parameter selects the
// upstream endpoint; all other caller-supplied parameters are forwarded
// verbatim. Upstream non-2xx responses are proxied through with the same
// status and body, content type forced to JSON.
func (h *RelayHandler) Forward(c *gin.Context) {
	log := logger.GetLogger()

	reqType := c.Query("type")
	if reqType == "" {
		c.String(http.StatusBadRequest, "Missing 'type' parameter")
		return
	}

	path, ok := upstreamPaths[reqType]
	if !ok {
		c.String(http.StatusBadRequest, "Invalid 'type' parameter")
		return
	}

	params := url.Values{}
	for key, values := range c.Request.URL.Query() {
		if key == "type" {
			continue
		}
		for _, v := range values {
			params.Add(key, v)
		}
	}
	params.Set("appid", h.apiKey)

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, h.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		log.Errorw("Failed to build upstream request", "type", reqType, "error", err)
		upstreamRequests.WithLabelValues(reqType, "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch weather data"})
		return
	}

	resp, err := h.client.Do(req)
	if err != nil {
		log.Errorw("Upstream fetch failed",
			"type", reqType,
			"api_key", logger.MaskSensitiveString(h.apiKey, 3, 2),
			"error", err,
		)
		upstreamRequests.WithLabelValues(reqType, "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch weather data"})
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Errorw("Failed to read upstream response", "type", reqType, "error", err)
		upstreamRequests.WithLabelValues(reqType, "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch weather data"})
		return
	}

	upstreamRequests.WithLabelValues(reqType, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		log.Warnw("Upstream returned non-OK status",
			"type", reqType,
			"status", resp.StatusCode,
		)
	}

	c.Data(resp.StatusCode, "application/json", body)
}
