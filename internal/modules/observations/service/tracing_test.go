package service

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"climate-server/internal/modules/observations/types"
)

func newRecordedService(t *testing.T, repo *mockRepo) (*Service, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return NewService(repo, WithTracerProvider(tp)), recorder
}

func attr(span sdktrace.ReadOnlySpan, key attribute.Key) (string, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value.AsString(), true
		}
	}
	return "", false
}

func TestTemperatureRangeFrom_RecordsSpan(t *testing.T) {
	svc, recorder := newRecordedService(t, &mockRepo{summary: types.TemperatureSummary{Min: f(70)}})

	if _, err := svc.TemperatureRangeFrom(context.Background(), "2017-01-01"); err != nil {
		t.Fatalf("TemperatureRangeFrom: %v", err)
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	span := spans[0]
	if span.Name() != "observations.temperature_range_from" {
		t.Errorf("span name = %q", span.Name())
	}
	if got, ok := attr(span, "start"); !ok || got != "2017-01-01" {
		t.Errorf("start attribute = %q (present %v), want 2017-01-01", got, ok)
	}
	if span.Status().Code == codes.Error {
		t.Errorf("status = %v, want not error", span.Status())
	}
}

func TestTemperatureRangeFrom_InvalidDateMarksSpanError(t *testing.T) {
	svc, recorder := newRecordedService(t, &mockRepo{})

	if _, err := svc.TemperatureRangeFrom(context.Background(), "2017-02-30"); err == nil {
		t.Fatal("error = nil, want ErrInvalidDate")
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	span := spans[0]
	if got, ok := attr(span, "start"); !ok || got != "2017-02-30" {
		t.Errorf("start attribute = %q (present %v), want 2017-02-30", got, ok)
	}
	if span.Status().Code != codes.Error {
		t.Errorf("status code = %v, want %v", span.Status().Code, codes.Error)
	}
	var sawException bool
	for _, ev := range span.Events() {
		if ev.Name == "exception" {
			sawException = true
		}
	}
	if !sawException {
		t.Error("span has no recorded error event")
	}
}

func TestTemperatureObservations_RecordsStation(t *testing.T) {
	svc, recorder := newRecordedService(t, &mockRepo{tobsStation: "USC00519281"})

	if _, err := svc.TemperatureObservations(context.Background()); err != nil {
		t.Fatalf("TemperatureObservations: %v", err)
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if got, _ := attr(spans[0], "station"); got != "USC00519281" {
		t.Errorf("station attribute = %q", got)
	}
	if got, _ := attr(spans[0], "cutoff"); got != PriorYearCutoff {
		t.Errorf("cutoff attribute = %q", got)
	}
}
