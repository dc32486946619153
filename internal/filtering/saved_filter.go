package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/roomeo/internal/housing"
	"github.com/spigell/roomeo/internal/store"
)

type savedOnlyFilter[T any] struct {
	toggle
	logger *zap.Logger
	saved  store.SavedStore
	kind   store.Kind
	idOf   func(T) string
}

// NewSavedOnly creates a filter that keeps only the records saved in s.
// It starts disabled unless enabled is set.
func NewSavedOnly[T any](logger *zap.Logger, s store.SavedStore, kind store.Kind, idOf func(T) string, enabled bool) Filter[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &savedOnlyFilter[T]{logger: logger, saved: s, kind: kind, idOf: idOf}
	if !enabled {
		f.Disable("saved-only not requested")
	}
	return f
}

// NewSavedListings keeps the saved rooms.
func NewSavedListings(logger *zap.Logger, s store.SavedStore, enabled bool) Filter[housing.Listing] {
	return NewSavedOnly(logger, s, store.KindRooms, func(l housing.Listing) string { return l.ID }, enabled)
}

// NewSavedRoommates keeps the saved roommates.
func NewSavedRoommates(logger *zap.Logger, s store.SavedStore, enabled bool) Filter[housing.RoommateProfile] {
	return NewSavedOnly(logger, s, store.KindRoommates, func(p housing.RoommateProfile) string { return p.ID }, enabled)
}

func (f *savedOnlyFilter[T]) Name() string { return "saved_only" }

func (f *savedOnlyFilter[T]) Validate() error {
	if f.saved == nil {
		return fmt.Errorf("saved store is required")
	}
	if f.idOf == nil {
		return fmt.Errorf("record id accessor is required")
	}
	return nil
}

func (f *savedOnlyFilter[T]) Apply(_ context.Context, items []T) ([]T, Step, error) {
	ids, err := f.saved.IDs(f.kind)
	if err != nil {
		return nil, Step{}, fmt.Errorf("getting saved %s: %w", f.kind, err)
	}

	saved := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		saved[id] = struct{}{}
	}

	kept := make([]T, 0, len(items))
	var excluded []string
	for _, item := range items {
		id := f.idOf(item)
		if _, ok := saved[id]; ok {
			kept = append(kept, item)
			continue
		}
		excluded = append(excluded, id)
	}

	if len(excluded) > 0 {
		f.logger.Debug("excluding records that are not saved",
			zap.String("kind", string(f.kind)),
			zap.Strings("excluded", excluded),
			zap.Int("left", len(kept)),
		)
	}

	return kept, newStep(len(items), len(kept)), nil
}

func (f *savedOnlyFilter[T]) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"kind": string(f.kind)},
	}
}
