package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Anand38913/voice-outbound/internal/config"
	"github.com/Anand38913/voice-outbound/internal/locale"
	"github.com/Anand38913/voice-outbound/internal/observe"
	llmmock "github.com/Anand38913/voice-outbound/pkg/provider/llm/mock"
)

func testCatalog(t *testing.T) *locale.Catalog {
	t.Helper()
	c, err := locale.New([]config.LanguageConfig{
		{Code: "en-IN", Digit: "1"},
		{Code: "te-IN", Digit: "3"},
	}, nil)
	if err != nil {
		t.Fatalf("locale.New() error = %v", err)
	}
	return c
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		question string
		want     Topic
	}{
		{"billing direct", "I have a question about my bill", TopicBilling},
		{"billing inflected", "Why was I charged twice this month?", TopicBilling},
		{"billing misspelled transcript", "there is a problem with my biling", TopicBilling},
		{"recharge", "How do I recharge my plan?", TopicRecharge},
		{"network", "The internet is very slow in my area", TopicNetwork},
		{"telugu billing", "నా బిల్లు గురించి అడగాలి", TopicBilling},
		{"hindi recharge", "मुझे रिचार्ज करना है", TopicRecharge},
		{"no topic", "What is the weather today?", TopicUnknown},
		{"empty", "   ", TopicUnknown},
		{"more hits win", "my bill payment failed and the invoice shows a slow network", TopicBilling},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.question); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.question, got, tt.want)
			}
		})
	}
}

func TestAnswerTopics(t *testing.T) {
	t.Parallel()

	e := New(testCatalog(t), "1800-425-1600")
	ctx := context.Background()

	got := e.Answer(ctx, "my bill looks wrong", "en-IN")
	if !strings.Contains(got, "1800-425-1600") {
		t.Errorf("billing answer = %q, care contact missing", got)
	}

	got = e.Answer(ctx, "how to recharge my pack", "te-IN")
	if !strings.Contains(got, "రీఛార్జ్") {
		t.Errorf("telugu recharge answer = %q", got)
	}

	got = e.Answer(ctx, "random question", "en-IN")
	if !strings.Contains(got, "Our team will get back") {
		t.Errorf("default answer = %q", got)
	}
}

func TestAnswerModelFallback(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cat := testCatalog(t)

	model := &llmmock.Provider{Answer: "Our stores are open from nine to six."}
	e := New(cat, "1800-425-1600", WithModel(model))
	got := e.Answer(ctx, "when are your stores open", "en-IN")
	if got != "Our stores are open from nine to six." {
		t.Errorf("Answer() = %q, model reply not used", got)
	}
	if len(model.Requests) != 1 {
		t.Fatalf("model called %d times, want 1", len(model.Requests))
	}
	if !strings.Contains(model.Requests[0].SystemPrompt, "en-IN") {
		t.Error("system prompt does not carry the language code")
	}

	// Keyword matches never consult the model.
	model.Requests = nil
	e.Answer(ctx, "question about billing", "en-IN")
	if len(model.Requests) != 0 {
		t.Error("model consulted for a keyword-matched question")
	}

	// A failing model degrades to the default reply.
	broken := New(cat, "1800-425-1600", WithModel(&llmmock.Provider{Err: errors.New("quota")}))
	got = broken.Answer(ctx, "when are your stores open", "en-IN")
	if !strings.Contains(got, "Our team will get back") {
		t.Errorf("Answer() with failing model = %q, want default reply", got)
	}
}

func TestAnswerRecordsModelLatency(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatalf("observe.NewMetrics() error = %v", err)
	}

	e := New(testCatalog(t), "1800-425-1600",
		WithModel(&llmmock.Provider{Answer: "Nine to six."}),
		WithMetrics(metrics),
	)
	e.Answer(context.Background(), "when are your stores open", "en-IN")
	e.Answer(context.Background(), "question about billing", "en-IN")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if md.Name != "voiceoutbound.llm.duration" {
				continue
			}
			hist, ok := md.Data.(metricdata.Histogram[float64])
			if !ok {
				t.Fatalf("metric data type = %T, want Histogram[float64]", md.Data)
			}
			var count uint64
			for _, dp := range hist.DataPoints {
				count += dp.Count
			}
			// Only the model-consulting question is timed; the keyword
			// match never reaches the model.
			if count != 1 {
				t.Errorf("llm duration count = %d, want 1", count)
			}
			return
		}
	}
	t.Fatal("llm duration metric not found")
}
