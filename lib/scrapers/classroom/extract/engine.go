// Package extract evaluates ordered fallback extraction strategies over
// page snapshots. The platform's markup is undocumented and shifts
// between views, so every entity is located by a sequence of independent
// techniques rather than a single selector.
package extract

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("scrapers/classroom/extract")

// Strategy is one independent extraction technique. It must be pure with
// respect to the source: no page navigation, no cached state.
type Strategy[T any] struct {
	Name string
	Run  func(ctx context.Context, src *Source) ([]T, error)
}

// Run evaluates strategies in declaration order and returns the result
// of the first one yielding a non-empty set. Results of different
// strategies are never merged: the techniques produce records of
// differing reliability and mixing them risks duplicate or inconsistent
// identifiers. If every strategy comes back empty, the result is empty;
// the caller decides whether that is fatal.
func Run[T any](ctx context.Context, kind string, src *Source, strategies ...Strategy[T]) []T {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()
	span.SetAttributes(attribute.String("kind", kind))

	for _, strategy := range strategies {
		records, err := strategy.Run(ctx, src)
		if err != nil {
			slog.WarnContext(ctx, "extraction strategy failed",
				"kind", kind, "strategy", strategy.Name, "err", err)
			span.RecordError(err)
			continue
		}
		if len(records) == 0 {
			continue
		}

		slog.DebugContext(ctx, "extraction strategy matched",
			"kind", kind, "strategy", strategy.Name, "records", len(records))
		span.SetAttributes(
			attribute.String("strategy", strategy.Name),
			attribute.Int("records", len(records)),
		)
		return records
	}

	slog.DebugContext(ctx, "no extraction strategy matched", "kind", kind)
	return nil
}
