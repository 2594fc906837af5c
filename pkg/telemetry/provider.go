package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Provider 进程内的 MeterProvider
//
// 使用手动 Reader：指标只在 Collect 时聚合，不需要导出器，
// 之后接入 OTLP 导出时只需追加一个 Reader。
type Provider struct {
	provider *sdkmetric.MeterProvider
	reader   *sdkmetric.ManualReader
}

// NewProvider 创建 SDK MeterProvider
func NewProvider() *Provider {
	reader := sdkmetric.NewManualReader()
	return &Provider{
		provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
		reader:   reader,
	}
}

// Install 设置为全局 MeterProvider
func (p *Provider) Install() {
	otel.SetMeterProvider(p.provider)
}

// Meter 遭遇战指标使用的 Meter
func (p *Provider) Meter() metric.Meter {
	return p.provider.Meter(instrumentationName)
}

// Collect 聚合当前所有指标
func (p *Provider) Collect(ctx context.Context) (metricdata.ResourceMetrics, error) {
	var rm metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &rm); err != nil {
		return metricdata.ResourceMetrics{}, fmt.Errorf("collecting metrics: %w", err)
	}
	return rm, nil
}

// Int64Value 汇总一个整型计数器或仪表的所有数据点，指标不存在时返回 false
func (p *Provider) Int64Value(ctx context.Context, name string) (int64, bool, error) {
	rm, err := p.Collect(ctx)
	if err != nil {
		return 0, false, err
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			var total int64
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
			case metricdata.Gauge[int64]:
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
			default:
				return 0, false, fmt.Errorf("metric %s is not an int64 sum or gauge", name)
			}
			return total, true, nil
		}
	}
	return 0, false, nil
}

// HistogramCount 直方图记录的总次数
func (p *Provider) HistogramCount(ctx context.Context, name string) (uint64, bool, error) {
	rm, err := p.Collect(ctx)
	if err != nil {
		return 0, false, err
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			data, ok := m.Data.(metricdata.Histogram[float64])
			if !ok {
				return 0, false, fmt.Errorf("metric %s is not a float64 histogram", name)
			}
			var count uint64
			for _, dp := range data.DataPoints {
				count += dp.Count
			}
			return count, true, nil
		}
	}
	return 0, false, nil
}

// Shutdown 停止 MeterProvider
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.provider.Shutdown(ctx)
}
