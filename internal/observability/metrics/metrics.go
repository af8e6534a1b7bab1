// Package metrics exposes the application's OpenTelemetry instruments.
package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	rsvpEvents    metric.Int64Counter
	checkins      metric.Int64Counter
	mediaUploads  metric.Int64Counter
	giftPayments  metric.Int64Counter
	webhookEvents metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "celebre"
	}
	meter := provider.Meter(name)

	rsvpEvents, err := meter.Int64Counter("celebre_rsvp_events_total")
	if err != nil {
		return nil, err
	}
	checkins, err := meter.Int64Counter("celebre_checkins_total")
	if err != nil {
		return nil, err
	}
	mediaUploads, err := meter.Int64Counter("celebre_media_uploads_total")
	if err != nil {
		return nil, err
	}
	giftPayments, err := meter.Int64Counter("celebre_gift_payments_total")
	if err != nil {
		return nil, err
	}
	webhookEvents, err := meter.Int64Counter("celebre_webhook_events_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		rsvpEvents:    rsvpEvents,
		checkins:      checkins,
		mediaUploads:  mediaUploads,
		giftPayments:  giftPayments,
		webhookEvents: webhookEvents,
	}, nil
}

// RecordRSVP counts confirmation and cancellation events.
func (m *Metrics) RecordRSVP(ctx context.Context, action string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("action", strings.TrimSpace(action)))
	m.rsvpEvents.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordCheckin counts reception-desk check-ins.
func (m *Metrics) RecordCheckin(ctx context.Context) {
	if m == nil {
		return
	}
	m.checkins.Add(ctx, 1)
}

// RecordMediaUpload counts accepted guest uploads.
func (m *Metrics) RecordMediaUpload(ctx context.Context, mediaType string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("media_type", strings.TrimSpace(mediaType)))
	m.mediaUploads.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordGiftPayment counts confirmed registry payments.
func (m *Metrics) RecordGiftPayment(ctx context.Context, provider string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("provider", strings.TrimSpace(provider)))
	m.giftPayments.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordWebhookEvent counts inbound payment-provider notifications.
func (m *Metrics) RecordWebhookEvent(ctx context.Context, provider, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("provider", strings.TrimSpace(provider)),
		attribute.String("outcome", strings.TrimSpace(outcome)),
	)
	m.webhookEvents.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"action":     {},
	"media_type": {},
	"provider":   {},
	"outcome":    {},
	"endpoint":   {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
