// Package telemetry records progression metrics with OpenTelemetry.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/focusquest/focusquest/internal/domain"
)

const meterName = "github.com/focusquest/focusquest"

// Instrument names.
const (
	MetricTasksCompleted       = "fq.tasks.completed"
	MetricXPGranted            = "fq.xp.granted"
	MetricAchievementsUnlocked = "fq.achievements.unlocked"
	MetricLevelUps             = "fq.level_ups"
	MetricLevel                = "fq.level"
	MetricStoreErrors          = "fq.store.errors"
)

// Ensure Metrics implements domain.Metrics.
var _ domain.Metrics = (*Metrics)(nil)

// Metrics implements domain.Metrics on an SDK meter provider.
// A ManualReader is always attached so the CLI can print a summary.
type Metrics struct {
	provider     *sdkmetric.MeterProvider
	reader       *sdkmetric.ManualReader
	completed    metric.Int64Counter
	xp           metric.Int64Counter
	achievements metric.Int64Counter
	levelUps     metric.Int64Counter
	level        metric.Int64Gauge
	storeErrors  metric.Int64Counter
}

// New creates the meter provider and instruments. Extra readers (for
// example a periodic exporter) receive the same measurements.
func New(readers ...sdkmetric.Reader) (*Metrics, error) {
	manual := sdkmetric.NewManualReader()
	opts := []sdkmetric.Option{sdkmetric.WithReader(manual)}
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}
	provider := sdkmetric.NewMeterProvider(opts...)
	meter := provider.Meter(meterName)

	m := &Metrics{provider: provider, reader: manual}
	var err error
	if m.completed, err = meter.Int64Counter(MetricTasksCompleted,
		metric.WithDescription("Tasks delivered to the progression tracker"),
		metric.WithUnit("{task}")); err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricTasksCompleted, err)
	}
	if m.xp, err = meter.Int64Counter(MetricXPGranted,
		metric.WithDescription("Experience points granted"),
		metric.WithUnit("{xp}")); err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricXPGranted, err)
	}
	if m.achievements, err = meter.Int64Counter(MetricAchievementsUnlocked,
		metric.WithDescription("Achievements unlocked"),
		metric.WithUnit("{achievement}")); err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricAchievementsUnlocked, err)
	}
	if m.levelUps, err = meter.Int64Counter(MetricLevelUps,
		metric.WithDescription("Level-ups"),
		metric.WithUnit("{level}")); err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricLevelUps, err)
	}
	if m.level, err = meter.Int64Gauge(MetricLevel,
		metric.WithDescription("Current level after the last level-up")); err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricLevel, err)
	}
	if m.storeErrors, err = meter.Int64Counter(MetricStoreErrors,
		metric.WithDescription("Failed store reads and writes"),
		metric.WithUnit("{error}")); err != nil {
		return nil, fmt.Errorf("create %s: %w", MetricStoreErrors, err)
	}
	return m, nil
}

// TaskCompleted counts a completion by priority.
func (m *Metrics) TaskCompleted(ctx context.Context, priority domain.Priority) {
	m.completed.Add(ctx, 1, metric.WithAttributes(attribute.String("priority", string(priority))))
}

// XPGranted adds amount by source.
func (m *Metrics) XPGranted(ctx context.Context, amount int, source string) {
	m.xp.Add(ctx, int64(amount), metric.WithAttributes(attribute.String("source", source)))
}

// AchievementUnlocked counts an unlock by achievement ID.
func (m *Metrics) AchievementUnlocked(ctx context.Context, id string) {
	m.achievements.Add(ctx, 1, metric.WithAttributes(attribute.String("achievement", id)))
}

// LevelUp counts a level-up and records the new level.
func (m *Metrics) LevelUp(ctx context.Context, level int) {
	m.levelUps.Add(ctx, 1)
	m.level.Record(ctx, int64(level))
}

// StoreError counts a failed store operation.
func (m *Metrics) StoreError(ctx context.Context, op string) {
	m.storeErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

// Snapshot collects the current totals per instrument, summed across
// attributes. Gauges report their last value.
func (m *Metrics) Snapshot(ctx context.Context) (map[string]int64, error) {
	var rm metricdata.ResourceMetrics
	if err := m.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("collect metrics: %w", err)
	}

	out := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			switch data := md.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					out[md.Name] += dp.Value
				}
			case metricdata.Gauge[int64]:
				for _, dp := range data.DataPoints {
					out[md.Name] = dp.Value
				}
			}
		}
	}
	return out, nil
}

// Shutdown flushes and stops the meter provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}
