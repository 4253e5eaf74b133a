package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "github.com/skycast-app/skycast-backend/errors"
	"github.com/skycast-app/skycast-backend/types"
)

const (
	lastLocationKey = "last_location"
	favoritesKey    = "favorites"
)

// PreferenceStore persists the last-resolved location and the favorites set
// as whole JSON records. Every write is a full overwrite of the serialized
// value; there are no partial or merge semantics.
type PreferenceStore struct {
	kv types.KeyValueStore
}

func NewPreferenceStore(kv types.KeyValueStore) *PreferenceStore {
	return &PreferenceStore{kv: kv}
}

// SaveLastLocation overwrites the last-resolved location slot.
func (p *PreferenceStore) SaveLastLocation(ctx context.Context, loc types.LocationData) error {
	data, err := json.Marshal(loc)
	if err != nil {
		return apperrors.NewStorageError(err, "marshal last location")
	}
	if err := p.kv.Set(ctx, lastLocationKey, string(data)); err != nil {
		return apperrors.NewStorageError(err, "save last location")
	}
	return nil
}

// LoadLastLocation returns the persisted last location, or (nil, nil) when no
// location has been stored yet.
func (p *PreferenceStore) LoadLastLocation(ctx context.Context) (*types.LocationData, error) {
	data, err := p.kv.Get(ctx, lastLocationKey)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStorageError(err, "load last location")
	}

	var loc types.LocationData
	if err := json.Unmarshal([]byte(data), &loc); err != nil {
		return nil, apperrors.NewStorageError(err, "unmarshal last location")
	}
	return &loc, nil
}

// ClearLastLocation removes the last-location slot.
func (p *PreferenceStore) ClearLastLocation(ctx context.Context) error {
	if err := p.kv.Remove(ctx, lastLocationKey); err != nil {
		return apperrors.NewStorageError(err, "clear last location")
	}
	return nil
}

// SaveFavorites overwrites the full favorites set in insertion order.
func (p *PreferenceStore) SaveFavorites(ctx context.Context, favorites []types.LocationData) error {
	data, err := json.Marshal(favorites)
	if err != nil {
		return apperrors.NewStorageError(err, "marshal favorites")
	}
	if err := p.kv.Set(ctx, favoritesKey, string(data)); err != nil {
		return apperrors.NewStorageError(err, "save favorites")
	}
	return nil
}

// LoadFavorites returns the persisted favorites in their stored order. A
// missing record yields an empty set.
func (p *PreferenceStore) LoadFavorites(ctx context.Context) ([]types.LocationData, error) {
	data, err := p.kv.Get(ctx, favoritesKey)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStorageError(err, "load favorites")
	}

	var favorites []types.LocationData
	if err := json.Unmarshal([]byte(data), &favorites); err != nil {
		return nil, apperrors.NewStorageError(err, fmt.Sprintf("unmarshal favorites (%d bytes)", len(data)))
	}
	return favorites, nil
}
