package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"

	apperrors "github.com/skycast-app/skycast-backend/errors"
	"github.com/skycast-app/skycast-backend/logger"
	"github.com/skycast-app/skycast-backend/types"
)

const (
	directResultLimit     = 1
	suggestionResultLimit = 5
	minSuggestionLength   = 3
)

// zipPattern classifies a query as a postal code: exactly five digits.
var zipPattern = regexp.MustCompile(`^\d{5}$`)

// GeocodingService resolves free-text queries, postal codes and coordinate
// pairs into LocationData records through the relay's geocoding endpoints.
type GeocodingService struct {
	client  *http.Client
	baseURL string
	// countryQualifier, when non-empty, is appended to free-text direct
	// queries as ",<qualifier>". Suggestions always go out unqualified.
	countryQualifier string
	zipCountry       string
}

// NewGeocodingService creates a geocoding client against the given relay
// endpoint (e.g. "http://localhost:8080/api/weather").
func NewGeocodingService(baseURL, countryQualifier, zipCountry string) *GeocodingService {
	if zipCountry == "" {
		zipCountry = "US"
	}
	return &GeocodingService{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:          baseURL,
		countryQualifier: countryQualifier,
		zipCountry:       zipCountry,
	}
}

// geoResult is one entry of the direct/reverse geocoding responses.
type geoResult struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	State   string  `json:"state"`
	Country string  `json:"country"`
}

// zipResult is the zip endpoint response. It is a single object and carries
// no state/province field.
type zipResult struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
}

// ResolveByQuery resolves a typed city name or 5-digit zip code. It returns
// (nil, nil) when the provider has no match for the query; callers decide how
// to present that.
func (s *GeocodingService) ResolveByQuery(ctx context.Context, query string) (*types.LocationData, error) {
	if zipPattern.MatchString(query) {
		return s.resolveZip(ctx, query)
	}
	return s.resolveDirect(ctx, query)
}

func (s *GeocodingService) resolveDirect(ctx context.Context, query string) (*types.LocationData, error) {
	q := query
	if s.countryQualifier != "" {
		q = query + "," + s.countryQualifier
	}

	params := url.Values{}
	params.Set("type", "direct")
	params.Set("q", q)
	params.Set("limit", strconv.Itoa(directResultLimit))

	resp, err := s.get(ctx, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode)
	}

	var results []geoResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, apperrors.ParseFailure(err, "geocoding")
	}

	if len(results) == 0 {
		return nil, nil
	}

	return &types.LocationData{
		Name:    results[0].Name,
		Lat:     results[0].Lat,
		Lon:     results[0].Lon,
		State:   results[0].State,
		Country: results[0].Country,
	}, nil
}

func (s *GeocodingService) resolveZip(ctx context.Context, zip string) (*types.LocationData, error) {
	log := logger.GetLogger()

	params := url.Values{}
	params.Set("type", "zip")
	params.Set("zip", fmt.Sprintf("%s,%s", zip, s.zipCountry))

	resp, err := s.get(ctx, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// The zip endpoint signals an unknown code as 404 rather than an empty
	// list; treat it the same as zero direct-search matches.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode)
	}

	var zr zipResult
	if err := json.NewDecoder(resp.Body).Decode(&zr); err != nil {
		return nil, apperrors.ParseFailure(err, "zip geocoding")
	}
	if zr.Lat == 0 && zr.Lon == 0 && zr.Name == "" {
		return nil, nil
	}

	loc := &types.LocationData{
		Name:    zr.Name,
		Lat:     zr.Lat,
		Lon:     zr.Lon,
		Country: zr.Country,
	}

	// The zip endpoint omits the state/province name. Recover it with a
	// reverse lookup; failure here is non-fatal.
	state, err := s.reverseState(ctx, zr.Lat, zr.Lon)
	if err != nil {
		log.Warnw("Reverse lookup for zip state failed",
			"zip", zip,
			"error", err,
		)
	} else {
		loc.State = state
	}

	return loc, nil
}

// ResolveByCoordinates reverse-geocodes a coordinate pair. It returns
// (nil, nil) when no place name is known for the coordinates or the lookup
// fails; callers substitute a sentinel name rather than failing.
func (s *GeocodingService) ResolveByCoordinates(ctx context.Context, lat, lon float64) (*types.LocationData, error) {
	log := logger.GetLogger()

	results, err := s.reverse(ctx, lat, lon)
	if err != nil {
		log.Warnw("Reverse geocoding failed",
			"lat", lat,
			"lon", lon,
			"error", err,
		)
		return nil, nil
	}
	if len(results) == 0 {
		return nil, nil
	}

	// The resolved record keeps the caller's coordinates, not the centroid
	// of the reverse-geocoded place.
	return &types.LocationData{
		Name:    results[0].Name,
		Lat:     lat,
		Lon:     lon,
		State:   results[0].State,
		Country: results[0].Country,
	}, nil
}

// Suggest returns up to five autocomplete candidates for a query prefix.
// Prefixes shorter than three characters short-circuit to an empty result
// without any network call.
func (s *GeocodingService) Suggest(ctx context.Context, query string) ([]types.LocationData, error) {
	if utf8.RuneCountInString(query) < minSuggestionLength {
		return nil, nil
	}

	params := url.Values{}
	params.Set("type", "direct")
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(suggestionResultLimit))

	resp, err := s.get(ctx, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var results []geoResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, apperrors.ParseFailure(err, "suggestion")
	}

	suggestions := make([]types.LocationData, 0, len(results))
	for _, r := range results {
		suggestions = append(suggestions, types.LocationData{
			Name:    r.Name,
			Lat:     r.Lat,
			Lon:     r.Lon,
			State:   r.State,
			Country: r.Country,
		})
	}
	return suggestions, nil
}

func (s *GeocodingService) reverse(ctx context.Context, lat, lon float64) ([]geoResult, error) {
	params := url.Values{}
	params.Set("type", "reverse")
	params.Set("lat", formatCoord(lat))
	params.Set("lon", formatCoord(lon))
	params.Set("limit", "1")

	resp, err := s.get(ctx, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode)
	}

	var results []geoResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, apperrors.ParseFailure(err, "reverse geocoding")
	}
	return results, nil
}

func (s *GeocodingService) reverseState(ctx context.Context, lat, lon float64) (string, error) {
	results, err := s.reverse(ctx, lat, lon)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}
	return results[0].State, nil
}

func (s *GeocodingService) get(ctx context.Context, params url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", s.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ServerError, "failed to build geocoding request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.UpstreamError, "geocoding request failed")
	}
	return resp, nil
}

// statusError maps a non-2xx relay response to an upstream error whose
// message is fit for direct display.
func statusError(status int) *apperrors.AppError {
	e := apperrors.UpstreamFailure(status, "")
	switch status {
	case http.StatusBadRequest:
		e.Message = "Bad request. Please check your input format."
	case http.StatusUnauthorized:
		e.Message = "Unauthorized. Please check your API key."
	}
	return e
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
