// Package telemetry 把遭遇战事件转换为 OpenTelemetry 指标
//
// 指标通过全局 MeterProvider 获取，未配置导出器时为 no-op。
package telemetry

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/gonewx/frontier/pkg/game"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/gonewx/frontier/pkg/telemetry"

// Totals 进程内累计值，两个前端的统计行读取它
type Totals struct {
	WavesStarted       int64
	WavesCompleted     int64
	Spawned            int64
	Kills              int64
	Reward             int64
	EnvironmentChanges int64
	RunsEnded          int64
	CurrentWave        int64
}

// Line 前端统计行
func (t Totals) Line() string {
	return fmt.Sprintf("SPAWNED: %d  KILLED: %d  CLEARED: %d  ENV CHANGES: %d",
		t.Spawned, t.Kills, t.WavesCompleted, t.EnvironmentChanges)
}

// Metrics 遭遇战指标观察者
type Metrics struct {
	game.BaseObserver

	wavesStarted   metric.Int64Counter
	wavesCompleted metric.Int64Counter
	spawned        metric.Int64Counter
	kills          metric.Int64Counter
	reward         metric.Int64Counter
	envChanges     metric.Int64Counter
	runsEnded      metric.Int64Counter
	waveDuration   metric.Float64Histogram
	currentWave    metric.Int64ObservableGauge

	totals struct {
		wavesStarted, wavesCompleted, spawned, kills, reward, envChanges, runsEnded, currentWave atomic.Int64
	}
}

// New 创建指标观察者
//
// 参数：
//   - m: 指标 Meter；nil 时使用全局 MeterProvider（未 Install 时为 no-op）
func New(m metric.Meter) (*Metrics, error) {
	if m == nil {
		m = otel.Meter(instrumentationName)
	}
	x := &Metrics{}

	var err error
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&x.wavesStarted, "frontier.waves.started", "Waves that began spawning"},
		{&x.wavesCompleted, "frontier.waves.completed", "Waves fully spawned and cleared"},
		{&x.spawned, "frontier.hostiles.spawned", "Hostiles spawned"},
		{&x.kills, "frontier.hostiles.killed", "Hostiles killed"},
		{&x.reward, "frontier.reward", "Experience awarded for kills"},
		{&x.envChanges, "frontier.environment.changes", "Environments loaded"},
		{&x.runsEnded, "frontier.runs.ended", "Encounters that reached game over"},
	}
	for _, c := range counters {
		*c.dst, err = m.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("creating %s counter: %w", c.name, err)
		}
	}

	x.waveDuration, err = m.Float64Histogram(
		"frontier.wave.duration",
		metric.WithDescription("Seconds from first spawn to wave clear"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating wave duration histogram: %w", err)
	}

	x.currentWave, err = m.Int64ObservableGauge(
		"frontier.wave.current",
		metric.WithDescription("Wave currently being played"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating current wave gauge: %w", err)
	}
	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(x.currentWave, x.totals.currentWave.Load())
			return nil
		},
		x.currentWave,
	)
	if err != nil {
		return nil, fmt.Errorf("registering current wave callback: %w", err)
	}

	return x, nil
}

func waveAttr(wave int) metric.MeasurementOption {
	return metric.WithAttributes(attribute.Int("wave", wave))
}

func (x *Metrics) WaveStarted(wave, targetCount int) {
	x.wavesStarted.Add(context.Background(), 1, metric.WithAttributes(
		attribute.Int("wave", wave),
		attribute.Int("target", targetCount),
	))
	x.totals.wavesStarted.Add(1)
	x.totals.currentWave.Store(int64(wave))
}

func (x *Metrics) EntitySpawned(wave, variant int) {
	x.spawned.Add(context.Background(), 1, metric.WithAttributes(
		attribute.Int("wave", wave),
		attribute.Int("variant", variant),
	))
	x.totals.spawned.Add(1)
}

func (x *Metrics) EntityDied(wave, reward int) {
	ctx := context.Background()
	x.kills.Add(ctx, 1, waveAttr(wave))
	if reward > 0 {
		x.reward.Add(ctx, int64(reward), waveAttr(wave))
		x.totals.reward.Add(int64(reward))
	}
	x.totals.kills.Add(1)
}

func (x *Metrics) WaveCompleted(summary game.WaveSummary) {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.Int("wave", summary.Wave),
		attribute.String("environment", summary.Environment),
	)
	x.wavesCompleted.Add(ctx, 1, attrs)
	x.waveDuration.Record(ctx, summary.Duration, attrs)
	x.totals.wavesCompleted.Add(1)
}

func (x *Metrics) EnvironmentChanged(name string) {
	x.envChanges.Add(context.Background(), 1, metric.WithAttributes(attribute.String("environment", name)))
	x.totals.envChanges.Add(1)
}

func (x *Metrics) EncounterEnded(summary game.RunSummary) {
	x.runsEnded.Add(context.Background(), 1, metric.WithAttributes(
		attribute.Int("waves_survived", summary.WavesSurvived),
	))
	x.totals.runsEnded.Add(1)
	x.totals.currentWave.Store(0)
}

// Totals 当前累计值
func (x *Metrics) Totals() Totals {
	return Totals{
		WavesStarted:       x.totals.wavesStarted.Load(),
		WavesCompleted:     x.totals.wavesCompleted.Load(),
		Spawned:            x.totals.spawned.Load(),
		Kills:              x.totals.kills.Load(),
		Reward:             x.totals.reward.Load(),
		EnvironmentChanges: x.totals.envChanges.Load(),
		RunsEnded:          x.totals.runsEnded.Load(),
		CurrentWave:        x.totals.currentWave.Load(),
	}
}
