package annotation

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/username/calview/pkg/dateutil"
)

// CompositeSource merges the notes of several sources. A failing source is
// logged and skipped; the composite only fails when every source does.
type CompositeSource struct {
	sources []Source
	logger  *zap.Logger
}

// NewCompositeSource creates a new CompositeSource
func NewCompositeSource(logger *zap.Logger, sources ...Source) *CompositeSource {
	return &CompositeSource{
		sources: sources,
		logger:  logger,
	}
}

// Name returns the source name
func (cs *CompositeSource) Name() string {
	return "composite"
}

// Len returns the number of wrapped sources
func (cs *CompositeSource) Len() int {
	return len(cs.sources)
}

// Notes returns the merged notes of all sources, each day sorted
func (cs *CompositeSource) Notes(ctx context.Context, from, to dateutil.Date) (Notes, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}

	merged := make(Notes)
	var errs []error

	for _, src := range cs.sources {
		notes, err := src.Notes(ctx, from, to)
		if err != nil {
			cs.logger.Warn("Annotation source failed, skipping",
				zap.String("source", src.Name()),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		merged.Merge(notes)
	}

	if len(cs.sources) > 0 && len(errs) == len(cs.sources) {
		return nil, fmt.Errorf("all annotation sources failed: %w", errors.Join(errs...))
	}

	merged.Sort()
	return merged, nil
}
