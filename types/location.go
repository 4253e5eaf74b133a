package types

import "context"

// LocationData is the canonical resolved place record. Identity for favorite
// and duplicate comparison is the exact Name, not the coordinates.
type LocationData struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	State   string  `json:"state,omitempty"`
	Country string  `json:"country,omitempty"`
}

// Coordinates is a bare lat/lon pair as produced by a device locator.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DeviceLocator is the capability interface for device geolocation. The
// orchestrator bounds each call with its own timeout; implementations must
// return a fresh fix, not a cached one.
type DeviceLocator interface {
	CurrentPosition(ctx context.Context) (Coordinates, error)
}

// LocatorFunc adapts a plain function to the DeviceLocator interface.
type LocatorFunc func(ctx context.Context) (Coordinates, error)

func (f LocatorFunc) CurrentPosition(ctx context.Context) (Coordinates, error) {
	return f(ctx)
}
