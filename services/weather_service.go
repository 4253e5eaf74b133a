package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/skycast-app/skycast-backend/errors"
	"github.com/skycast-app/skycast-backend/logger"
	"github.com/skycast-app/skycast-backend/types"
)

// WeatherService fetches current conditions, the daily forecast and active
// alerts in one bundle call through the relay.
type WeatherService struct {
	client  *http.Client
	baseURL string
}

// NewWeatherService creates a weather client against the given relay endpoint
// (e.g. "http://localhost:8080/api/weather").
func NewWeatherService(baseURL string) *WeatherService {
	return &WeatherService{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

// FetchSnapshot retrieves the weather bundle for the given coordinates in the
// given unit system. Hourly and minutely data are excluded; a missing alerts
// field means no active alerts, not an error.
func (s *WeatherService) FetchSnapshot(ctx context.Context, lat, lon float64, unit types.UnitSystem) (*types.WeatherSnapshot, error) {
	log := logger.GetLogger()

	params := url.Values{}
	params.Set("type", "onecall")
	params.Set("lat", formatCoord(lat))
	params.Set("lon", formatCoord(lon))
	params.Set("exclude", "hourly,minutely")
	params.Set("units", string(unit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", s.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ServerError, "failed to build weather request")
	}

	log.Debugw("Fetching weather snapshot",
		"lat", lat,
		"lon", lon,
		"units", unit,
	)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.UpstreamError, "weather request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperrors.UpstreamFailure(resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var snapshot types.WeatherSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, apperrors.ParseFailure(err, "weather")
	}

	log.Debugw("Weather snapshot fetched",
		"lat", lat,
		"lon", lon,
		"days", len(snapshot.Daily),
		"alerts", len(snapshot.Alerts),
	)

	return &snapshot, nil
}
