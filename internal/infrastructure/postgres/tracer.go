package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type traceKey struct{}

type traceStart struct {
	sql   string
	start time.Time
}

// queryTracer logs failed queries and queries slower than threshold.
// pgx.ErrNoRows is an expected outcome and is not logged.
type queryTracer struct {
	logger    *zap.Logger
	threshold time.Duration
	now       func() time.Time
}

func newQueryTracer(logger *zap.Logger, threshold time.Duration) *queryTracer {
	return &queryTracer{logger: logger, threshold: threshold, now: time.Now}
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceKey{}, traceStart{sql: data.SQL, start: t.now()})
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	started, ok := ctx.Value(traceKey{}).(traceStart)
	if !ok {
		return
	}
	elapsed := t.now().Sub(started.start)

	switch {
	case data.Err != nil && !errors.Is(data.Err, pgx.ErrNoRows):
		t.logger.Warn("query failed",
			zap.String("sql", started.sql),
			zap.Duration("elapsed", elapsed),
			zap.Error(data.Err))
	case t.threshold > 0 && elapsed >= t.threshold:
		t.logger.Warn("slow query",
			zap.String("sql", started.sql),
			zap.Duration("elapsed", elapsed),
			zap.Int64("rows", data.CommandTag.RowsAffected()))
	}
}
