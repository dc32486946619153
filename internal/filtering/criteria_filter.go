package filtering

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/roomeo/internal/criteria"
	"github.com/spigell/roomeo/internal/housing"
	"github.com/spigell/roomeo/internal/predicate"
)

type tagger interface {
	ActiveTags() []criteria.Tag
}

type criteriaFilter[T any, C tagger] struct {
	toggle
	logger   *zap.Logger
	schema   predicate.Schema[T, C]
	criteria C
	dropped  map[string]int
}

// NewCriteria creates a filter that keeps the records passing every active
// field of schema.
func NewCriteria[T any, C tagger](logger *zap.Logger, schema predicate.Schema[T, C], c C) Filter[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &criteriaFilter[T, C]{logger: logger, schema: schema, criteria: c}
}

// NewListingCriteria filters listings by the room search criteria.
func NewListingCriteria(logger *zap.Logger, c criteria.ListingCriteria) Filter[housing.Listing] {
	return NewCriteria(logger, predicate.ListingSchema(), c)
}

// NewRoommateCriteria filters roommate profiles by the roommate finder criteria.
func NewRoommateCriteria(logger *zap.Logger, c criteria.RoommateCriteria) Filter[housing.RoommateProfile] {
	return NewCriteria(logger, predicate.RoommateSchema(), c)
}

func (f *criteriaFilter[T, C]) Name() string { return "criteria" }

func (f *criteriaFilter[T, C]) Validate() error { return nil }

func (f *criteriaFilter[T, C]) Apply(_ context.Context, items []T) ([]T, Step, error) {
	kept := make([]T, 0, len(items))
	f.dropped = map[string]int{}

	for _, item := range items {
		ev := f.schema.Evaluate(item, f.criteria)
		if ev.Passed {
			kept = append(kept, item)
			continue
		}
		for _, name := range ev.Failed() {
			f.dropped[name]++
		}
	}

	if len(f.dropped) > 0 {
		f.logger.Debug("records rejected by criteria", zap.Any("dropped_by", f.dropped))
	}

	return kept, newStep(len(items), len(kept)), nil
}

// DroppedBy reports how many records each field rejected in the last run.
// A record failing several fields is counted once per field.
func (f *criteriaFilter[T, C]) DroppedBy() map[string]int {
	out := make(map[string]int, len(f.dropped))
	for k, v := range f.dropped {
		out[k] = v
	}
	return out
}

func (f *criteriaFilter[T, C]) Status() Status {
	tags := f.criteria.ActiveTags()
	details := map[string]string{"active": strconv.Itoa(len(tags))}
	if len(tags) > 0 {
		keys := make([]string, 0, len(tags))
		for _, t := range tags {
			keys = append(keys, t.Key)
		}
		details["tags"] = strings.Join(keys, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
