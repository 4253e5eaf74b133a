package types

import "context"

// SessionState is the orchestrator-owned state exposed to the presentation
// layer. Errors cross this boundary only as a single string; Loading spans the
// whole interval between intent acceptance and its terminal outcome.
type SessionState struct {
	WeatherData     *WeatherSnapshot `json:"weatherData,omitempty"`
	Loading         bool             `json:"loading"`
	Error           string           `json:"error,omitempty"`
	CurrentLocation *LocationData    `json:"currentLocation,omitempty"`
	Unit            UnitSystem       `json:"unit"`
	Favorites       []LocationData   `json:"favorites"`
}

// KeyValueStore is the capability interface for durable key-value storage of
// the last-resolved location and the favorites set. Implementations return
// ErrKeyNotFound-style errors via their own package; callers treat any failure
// as non-fatal.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}
