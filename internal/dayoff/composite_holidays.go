package dayoff

import (
	"context"

	"go.uber.org/zap"
)

// CompositeHolidays merges several holiday sources.
// Unlike a fallback chain, every source must succeed: a failing source aborts the lookup.
type CompositeHolidays struct {
	sources []HolidaySource
	logger  *zap.Logger
}

// NewCompositeHolidays creates a new CompositeHolidays
func NewCompositeHolidays(logger *zap.Logger, sources ...HolidaySource) *CompositeHolidays {
	return &CompositeHolidays{
		sources: sources,
		logger:  logger,
	}
}

// Holidays returns the union of all sources in source order. Duplicates are harmless.
func (ch *CompositeHolidays) Holidays(ctx context.Context) ([]Holiday, error) {
	var all []Holiday
	for _, source := range ch.sources {
		holidays, err := source.Holidays(ctx)
		if err != nil {
			return nil, err
		}
		all = append(all, holidays...)
	}

	ch.logger.Debug("Holidays merged",
		zap.Int("sources", len(ch.sources)),
		zap.Int("holidays", len(all)))

	return all, nil
}
