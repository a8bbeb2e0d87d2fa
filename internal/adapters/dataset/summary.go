package dataset

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen/hitokoto-service/internal/domain"
)

// LogSummary writes the one-line dataset summary shown at startup and after
// the first lazy load.
func LogSummary(ctx context.Context, logger *slog.Logger, ds *domain.Dataset) {
	logger.InfoContext(ctx, "dataset loaded",
		slog.String("title", domain.OrUnknown(ds.Title)),
		slog.String("author", domain.OrUnknown(ds.Author)),
		slog.Int("sentences", ds.Len()),
		slog.String("version", domain.OrUnknown(ds.Version)),
		slog.String("update", domain.OrUnknown(ds.Update)),
	)
}

// describe is the readiness detail for a loaded dataset.
func describe(ds *domain.Dataset) map[string]any {
	if ds == nil {
		return nil
	}

	return map[string]any{
		"title":     domain.OrUnknown(ds.Title),
		"version":   domain.OrUnknown(ds.Version),
		"update":    domain.OrUnknown(ds.Update),
		"sentences": ds.Len(),
	}
}
