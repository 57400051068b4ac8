// Package observe provides observability primitives for the support line:
// OpenTelemetry metrics, tracing helpers, and HTTP middleware tying them
// together.
//
// Metrics are recorded through the OpenTelemetry Metrics API and exposed via
// a Prometheus exporter bridge set up by [InitProvider], so the standard
// /metrics endpoint keeps working. A package-level default [Metrics] instance
// ([DefaultMetrics]) is provided for convenience; tests should use
// [NewMetrics] with their own [metric.MeterProvider] to avoid cross-test
// pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all metrics.
const meterName = "github.com/Anand38913/voice-outbound"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use.
type Metrics struct {
	// WebhookDuration tracks end-to-end webhook handling latency. Use with:
	//   attribute.String("route", ...)
	WebhookDuration metric.Float64Histogram

	// RecordingFetchDuration tracks recording download latency.
	RecordingFetchDuration metric.Float64Histogram

	// STTDuration tracks speech-to-text transcription latency.
	STTDuration metric.Float64Histogram

	// TTSDuration tracks text-to-speech synthesis latency.
	TTSDuration metric.Float64Histogram

	// LLMDuration tracks model completion latency for unmatched questions.
	LLMDuration metric.Float64Histogram

	// CallsStarted counts calls entering the flow. Use with:
	//   attribute.String("direction", "inbound"|"outbound")
	CallsStarted metric.Int64Counter

	// AnswersServed counts completed question and answer cycles. Use with:
	//   attribute.String("language", ...), attribute.String("topic", ...)
	AnswersServed metric.Int64Counter

	// UpstreamErrors counts failed upstream calls. Use with:
	//   attribute.String("service", "recording"|"stt"|"tts"|"llm"|"telephony")
	UpstreamErrors metric.Int64Counter

	// ArtifactsStored counts reply audio artifacts written.
	ArtifactsStored metric.Int64Counter

	// ActiveSessions tracks the number of live call sessions.
	ActiveSessions metric.Int64UpDownCounter

	// HTTPRequestDuration tracks HTTP request processing time. Use with:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds). The upper
// buckets cover the speech services, which routinely take several seconds.
var latencyBuckets = []float64{
	0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.WebhookDuration, err = m.Float64Histogram("voiceoutbound.webhook.duration",
		metric.WithDescription("End-to-end webhook handling latency by route."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.RecordingFetchDuration, err = m.Float64Histogram("voiceoutbound.recording.fetch.duration",
		metric.WithDescription("Latency of caller recording downloads."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.STTDuration, err = m.Float64Histogram("voiceoutbound.stt.duration",
		metric.WithDescription("Latency of speech-to-text transcription."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TTSDuration, err = m.Float64Histogram("voiceoutbound.tts.duration",
		metric.WithDescription("Latency of text-to-speech synthesis."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.LLMDuration, err = m.Float64Histogram("voiceoutbound.llm.duration",
		metric.WithDescription("Latency of model completions."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	if met.CallsStarted, err = m.Int64Counter("voiceoutbound.calls.started",
		metric.WithDescription("Calls entering the support flow by direction."),
	); err != nil {
		return nil, err
	}
	if met.AnswersServed, err = m.Int64Counter("voiceoutbound.answers.served",
		metric.WithDescription("Completed question and answer cycles by language and topic."),
	); err != nil {
		return nil, err
	}
	if met.UpstreamErrors, err = m.Int64Counter("voiceoutbound.upstream.errors",
		metric.WithDescription("Failed upstream calls by service."),
	); err != nil {
		return nil, err
	}
	if met.ArtifactsStored, err = m.Int64Counter("voiceoutbound.artifacts.stored",
		metric.WithDescription("Reply audio artifacts written to the store."),
	); err != nil {
		return nil, err
	}

	if met.ActiveSessions, err = m.Int64UpDownCounter("voiceoutbound.active_sessions",
		metric.WithDescription("Number of live call sessions."),
	); err != nil {
		return nil, err
	}

	if met.HTTPRequestDuration, err = m.Float64Histogram("voiceoutbound.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Panics if instrument creation
// fails (should not happen with the global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordUpstreamError records one failed upstream call.
func (m *Metrics) RecordUpstreamError(ctx context.Context, service string) {
	m.UpstreamErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("service", service)),
	)
}

// RecordAnswerServed records one completed question and answer cycle.
func (m *Metrics) RecordAnswerServed(ctx context.Context, language, topic string) {
	m.AnswersServed.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("language", language),
			attribute.String("topic", topic),
		),
	)
}

// RecordCallStarted records a call entering the flow.
func (m *Metrics) RecordCallStarted(ctx context.Context, direction string) {
	m.CallsStarted.Add(ctx, 1,
		metric.WithAttributes(attribute.String("direction", direction)),
	)
}
