package services

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "github.com/skycast-app/skycast-backend/errors"
	"github.com/skycast-app/skycast-backend/logger"
	"github.com/skycast-app/skycast-backend/types"
)

const (
	// deviceLocationTimeout bounds a device geolocation request. Cached
	// fixes are not accepted; freshness is traded for latency.
	deviceLocationTimeout = 10 * time.Second

	// unknownLocationName is substituted when reverse geocoding of a device
	// fix yields no place name.
	unknownLocationName = "Unknown Location"
)

// Geocoder is the slice of the geocoding client the orchestrator depends on.
type Geocoder interface {
	ResolveByQuery(ctx context.Context, query string) (*types.LocationData, error)
	ResolveByCoordinates(ctx context.Context, lat, lon float64) (*types.LocationData, error)
}

// SnapshotFetcher is the slice of the weather client the orchestrator
// depends on.
type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context, lat, lon float64, unit types.UnitSystem) (*types.WeatherSnapshot, error)
}

// PreferencePersister mirrors session state to durable storage. Failures are
// logged and swallowed; the session continues on in-memory state.
type PreferencePersister interface {
	SaveLastLocation(ctx context.Context, loc types.LocationData) error
	LoadLastLocation(ctx context.Context) (*types.LocationData, error)
	SaveFavorites(ctx context.Context, favorites []types.LocationData) error
	LoadFavorites(ctx context.Context) ([]types.LocationData, error)
}

// SessionService orchestrates location resolution and weather retrieval. It
// owns the session state the presentation layer renders and sequences
// geocoding, device location and weather calls per intent.
//
// Intents are not queued: a newly dispatched intent supersedes in-flight
// bookkeeping. Already-issued network calls are not cancelled; their late
// completions are discarded by a generation token attached at dispatch time,
// so each intent reaches exactly one terminal outcome and only the
// last-dispatched intent's result mutates state.
type SessionService struct {
	mu         sync.Mutex
	geocoder   Geocoder
	weather    SnapshotFetcher
	locator    types.DeviceLocator
	prefs      PreferencePersister
	onChange   func(types.SessionState)
	state      types.SessionState
	generation uint64
}

func NewSessionService(geocoder Geocoder, weather SnapshotFetcher, locator types.DeviceLocator, prefs PreferencePersister) *SessionService {
	return &SessionService{
		geocoder: geocoder,
		weather:  weather,
		locator:  locator,
		prefs:    prefs,
		state: types.SessionState{
			Unit: types.UnitMetric,
		},
	}
}

// SetOnChange registers a callback invoked with a copy of the session state
// after every visible change.
func (s *SessionService) SetOnChange(fn func(types.SessionState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Snapshot returns a copy of the current session state.
func (s *SessionService) Snapshot() types.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyStateLocked()
}

func (s *SessionService) copyStateLocked() types.SessionState {
	st := s.state
	st.Favorites = append([]types.LocationData(nil), s.state.Favorites...)
	return st
}

// begin accepts a new intent: bumps the generation token, enters the loading
// state and clears any previous error.
func (s *SessionService) begin() uint64 {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.state.Loading = true
	s.state.Error = ""
	snap := s.copyStateLocked()
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb(snap)
	}
	return gen
}

// mutate applies fn to the session state if gen is still the latest dispatched
// intent (gen 0 applies unconditionally). Returns whether it applied.
func (s *SessionService) mutate(gen uint64, fn func(*types.SessionState)) bool {
	s.mu.Lock()
	if gen != 0 && gen != s.generation {
		s.mu.Unlock()
		return false
	}
	fn(&s.state)
	snap := s.copyStateLocked()
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb(snap)
	}
	return true
}

// fail records the terminal error outcome for an intent.
func (s *SessionService) fail(gen uint64, message string) {
	s.mutate(gen, func(st *types.SessionState) {
		st.Loading = false
		st.Error = message
	})
}

// SearchCity resolves a typed city name or zip code and fetches its weather.
// A query with no match sets the not-found error and leaves the current
// location unchanged; no weather fetch is attempted.
func (s *SessionService) SearchCity(ctx context.Context, query string, unit types.UnitSystem) error {
	gen := s.begin()

	loc, err := s.geocoder.ResolveByQuery(ctx, query)
	if err != nil {
		s.fail(gen, errorText(err))
		return err
	}
	if loc == nil {
		notFound := apperrors.LocationNotFound(query)
		s.fail(gen, notFound.Message)
		return notFound
	}

	s.mutate(gen, func(st *types.SessionState) {
		st.CurrentLocation = loc
	})

	return s.completeFetch(ctx, gen, loc.Lat, loc.Lon, unit, nil, "")
}

// UseDeviceLocation requests a live device fix, reverse-geocodes it and
// fetches the weather there. Device failures map to fixed user-facing
// strings; a fix with no known place name resolves to "Unknown Location".
func (s *SessionService) UseDeviceLocation(ctx context.Context, unit types.UnitSystem) error {
	gen := s.begin()

	if s.locator == nil {
		s.fail(gen, "Geolocation is not supported.")
		return apperrors.DeviceLocationFailure(apperrors.DevicePositionUnavailable, nil)
	}

	posCtx, cancel := context.WithTimeout(ctx, deviceLocationTimeout)
	coords, err := s.locator.CurrentPosition(posCtx)
	cancel()
	if err != nil {
		kind := apperrors.DeviceLocationKindOf(err)
		if errors.Is(err, context.DeadlineExceeded) {
			kind = apperrors.DeviceTimeout
		}
		s.fail(gen, apperrors.DeviceLocationMessage(kind))
		return apperrors.DeviceLocationFailure(kind, err)
	}

	loc, _ := s.geocoder.ResolveByCoordinates(ctx, coords.Lat, coords.Lon)
	if loc == nil {
		loc = &types.LocationData{
			Name: unknownLocationName,
			Lat:  coords.Lat,
			Lon:  coords.Lon,
		}
	}

	s.mutate(gen, func(st *types.SessionState) {
		st.CurrentLocation = loc
	})

	return s.completeFetch(ctx, gen, coords.Lat, coords.Lon, unit, nil, "Failed to fetch weather for your location.")
}

// GetWeather fetches a snapshot for explicit coordinates. When locationInfo
// is non-nil it becomes the current location on success.
func (s *SessionService) GetWeather(ctx context.Context, lat, lon float64, unit types.UnitSystem, locationInfo *types.LocationData) error {
	gen := s.begin()
	return s.completeFetch(ctx, gen, lat, lon, unit, locationInfo, "")
}

// SelectLocation fetches weather for an already-resolved location (a favorite
// or an accepted suggestion); no geocoding is performed.
func (s *SessionService) SelectLocation(ctx context.Context, loc types.LocationData, unit types.UnitSystem) error {
	return s.GetWeather(ctx, loc.Lat, loc.Lon, unit, &loc)
}

// ChangeUnit re-fetches the current location's weather in the new unit
// system. Without a current location it is a no-op.
func (s *SessionService) ChangeUnit(ctx context.Context, unit types.UnitSystem) error {
	s.mu.Lock()
	cur := s.state.CurrentLocation
	s.mu.Unlock()

	if cur == nil {
		return nil
	}
	return s.GetWeather(ctx, cur.Lat, cur.Lon, unit, nil)
}

// ToggleFavorite adds the current location to the favorites if absent by
// name, otherwise removes it. The full set is persisted on every mutation;
// no weather fetch happens.
func (s *SessionService) ToggleFavorite(ctx context.Context) error {
	s.mu.Lock()
	cur := s.state.CurrentLocation
	if cur == nil {
		s.mu.Unlock()
		return nil
	}

	idx := -1
	for i, f := range s.state.Favorites {
		if f.Name == cur.Name {
			idx = i
			break
		}
	}
	if idx >= 0 {
		s.state.Favorites = append(s.state.Favorites[:idx], s.state.Favorites[idx+1:]...)
	} else {
		s.state.Favorites = append(s.state.Favorites, *cur)
	}
	favorites := append([]types.LocationData(nil), s.state.Favorites...)
	snap := s.copyStateLocked()
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb(snap)
	}

	if err := s.prefs.SaveFavorites(ctx, favorites); err != nil {
		logger.GetLogger().Warnw("Failed to persist favorites", "error", err)
	}
	return nil
}

// Start restores the favorites set and requests a live device fix. Startup
// always prefers live geolocation; the persisted last location is consumed
// only by an explicit RestoreLastSession intent.
func (s *SessionService) Start(ctx context.Context, unit types.UnitSystem) error {
	favorites, err := s.prefs.LoadFavorites(ctx)
	if err != nil {
		logger.GetLogger().Warnw("Failed to load favorites", "error", err)
	} else if len(favorites) > 0 {
		s.mutate(0, func(st *types.SessionState) {
			st.Favorites = favorites
		})
	}

	return s.UseDeviceLocation(ctx, unit)
}

// RestoreLastSession fetches weather for the persisted last location. With no
// persisted location (or an unreadable record) it is a no-op.
func (s *SessionService) RestoreLastSession(ctx context.Context, unit types.UnitSystem) error {
	loc, err := s.prefs.LoadLastLocation(ctx)
	if err != nil {
		logger.GetLogger().Warnw("Failed to load last location", "error", err)
		return nil
	}
	if loc == nil {
		return nil
	}
	return s.SelectLocation(ctx, *loc, unit)
}

// completeFetch performs the weather fetch for an accepted intent and records
// its terminal outcome. On failure the previous snapshot is retained, only
// the error changes. failMessage, when non-empty, overrides the derived error
// text.
func (s *SessionService) completeFetch(ctx context.Context, gen uint64, lat, lon float64, unit types.UnitSystem, locationInfo *types.LocationData, failMessage string) error {
	snapshot, err := s.weather.FetchSnapshot(ctx, lat, lon, unit)
	if err != nil {
		msg := failMessage
		if msg == "" {
			msg = errorText(err)
		}
		s.fail(gen, msg)
		return err
	}

	applied := s.mutate(gen, func(st *types.SessionState) {
		st.WeatherData = snapshot
		st.Unit = unit
		if locationInfo != nil {
			st.CurrentLocation = locationInfo
		}
		st.Loading = false
		st.Error = ""
	})
	if !applied {
		// Superseded by a newer intent; drop the late result.
		return nil
	}

	s.persistLastLocation(ctx)
	return nil
}

func (s *SessionService) persistLastLocation(ctx context.Context) {
	s.mu.Lock()
	cur := s.state.CurrentLocation
	s.mu.Unlock()

	if cur == nil {
		return
	}
	if err := s.prefs.SaveLastLocation(ctx, *cur); err != nil {
		logger.GetLogger().Warnw("Failed to persist last location",
			"location", cur.Name,
			"error", err,
		)
	}
}

// errorText reduces an error to the single string surfaced to the
// presentation layer.
func errorText(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Failed to fetch weather data"
}
