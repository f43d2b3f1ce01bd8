package logic

import (
	"context"
	"slices"
	"time"

	"github.com/patrickwarner/adzerk-sdk/internal/db"
	"github.com/patrickwarner/adzerk-sdk/internal/models"
	"github.com/patrickwarner/adzerk-sdk/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = observability.Tracer("github.com/patrickwarner/adzerk-sdk/internal/logic")

// ApplyViewHistory copies the user's stored flight views into b so the engine
// can enforce frequency caps. It returns the number of flights applied.
// An empty userKey applies nothing.
func ApplyViewHistory(ctx context.Context, store *db.RedisStore, metrics observability.MetricsRegistry, userKey string, b *models.RequestBuilder, now time.Time) (int, error) {
	if store == nil || store.Client == nil {
		return 0, ErrNilRedisStore
	}
	if userKey == "" {
		return 0, nil
	}
	metrics = orNoOp(metrics)

	ctx, span := tracer.Start(ctx, "ApplyViewHistory")
	defer span.End()

	start := time.Now()
	history, err := store.FlightViewTimes(ctx, userKey, now.Unix())
	metrics.RecordStoreLatency("read", time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read view history")
		return 0, err
	}

	ids := make([]int, 0, len(history))
	for id := range history {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		b.SetFlightViewTimes(id, history[id]...)
	}

	span.SetAttributes(attribute.Int("flights", len(ids)))
	observability.LoggerFromContext(ctx, zap.L()).Debug("applied view history",
		zap.String("user_key", userKey),
		zap.Int("flights", len(ids)),
	)
	return len(ids), nil
}

// RecordImpressions stores a view at now for every flight that won a
// placement in resp. It returns the number of distinct flights recorded.
func RecordImpressions(ctx context.Context, store *db.RedisStore, metrics observability.MetricsRegistry, userKey string, resp *models.DecisionResponse, now time.Time) (int, error) {
	if store == nil || store.Client == nil {
		return 0, ErrNilRedisStore
	}
	if userKey == "" || resp == nil {
		return 0, nil
	}
	metrics = orNoOp(metrics)

	flights := winningFlights(resp)
	if len(flights) == 0 {
		return 0, nil
	}

	ctx, span := tracer.Start(ctx, "RecordImpressions")
	defer span.End()
	span.SetAttributes(attribute.Int("flights", len(flights)))

	start := time.Now()
	err := store.RecordFlightViews(ctx, userKey, flights, now.Unix())
	metrics.RecordStoreLatency("record", time.Since(start))
	if err != nil {
		metrics.IncrementViewRecords("error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "record views")
		observability.LoggerFromContext(ctx, zap.L()).Warn("failed to record flight views",
			zap.String("user_key", userKey),
			zap.Error(err),
		)
		return 0, err
	}
	for range flights {
		metrics.IncrementViewRecords("ok")
	}
	return len(flights), nil
}

// winningFlights returns the distinct non-zero flight ids of all winners,
// sorted.
func winningFlights(resp *models.DecisionResponse) []int {
	var ids []int
	for _, slot := range resp.Decisions {
		for _, d := range slot.Decisions {
			if d.FlightID == 0 {
				continue
			}
			if id := int(d.FlightID); !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	slices.Sort(ids)
	return ids
}

func orNoOp(m observability.MetricsRegistry) observability.MetricsRegistry {
	if m == nil {
		return observability.NewNoOpRegistry()
	}
	return m
}
