package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"climate-server/internal/modules/observations/repository"
	"climate-server/internal/modules/observations/types"
)

// DateLayout is the only accepted form of a date path parameter.
const DateLayout = "2006-01-02"

// ErrInvalidDate marks a date parameter that does not parse as DateLayout.
var ErrInvalidDate = errors.New("invalid date")

// The dataset is frozen: its last recorded day is 2017-08-23. "Previous year"
// windows are anchored there, never at the wall clock.
var (
	ReferenceDate   = time.Date(2017, time.August, 23, 0, 0, 0, 0, time.UTC)
	PriorYearCutoff = ReferenceDate.AddDate(0, 0, -365).Format(DateLayout)
)

const tracerName = "climate-server/observations"

type Service struct {
	repository repository.ObservationRepository
	tracer     trace.Tracer
}

type Option func(*Service)

// WithTracerProvider overrides the global provider installed at startup.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		s.tracer = tp.Tracer(tracerName)
	}
}

func NewService(repository repository.ObservationRepository, opts ...Option) *Service {
	s := &Service{
		repository: repository,
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes lists the API. Keys are stable and documented.
func (s *Service) Routes() types.RouteIndex {
	return types.RouteIndex{Routes: map[string]string{
		"homepage":                 "/",
		"precipitation":            "/api/v1.0/precipitation",
		"stations":                 "/api/v1.0/stations",
		"temperature_observations": "/api/v1.0/tobs",
		"start_date":               "/api/v1.0/temp/<start>",
		"start_end_date":           "/api/v1.0/temp/<start>/<end>",
	}}
}

func (s *Service) Precipitation(ctx context.Context) (_ []types.Precipitation, err error) {
	ctx, span := s.tracer.Start(ctx, "observations.precipitation",
		trace.WithAttributes(attribute.String("cutoff", PriorYearCutoff)))
	defer func() { endSpan(span, err) }()

	return s.repository.GetPrecipitation(ctx, PriorYearCutoff)
}

func (s *Service) Stations(ctx context.Context) (_ []types.StationActivity, err error) {
	ctx, span := s.tracer.Start(ctx, "observations.stations")
	defer func() { endSpan(span, err) }()

	return s.repository.GetStationActivity(ctx)
}

func (s *Service) TemperatureObservations(ctx context.Context) (_ []types.TemperatureObservation, err error) {
	ctx, span := s.tracer.Start(ctx, "observations.tobs",
		trace.WithAttributes(attribute.String("cutoff", PriorYearCutoff)))
	defer func() { endSpan(span, err) }()

	station, obs, err := s.repository.GetMostActiveStationTemperatures(ctx, PriorYearCutoff)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("station", station))
	return obs, nil
}

func (s *Service) TemperatureRangeFrom(ctx context.Context, start string) (_ []types.TemperatureSummary, err error) {
	ctx, span := s.tracer.Start(ctx, "observations.temperature_range_from",
		trace.WithAttributes(attribute.String("start", start)))
	defer func() { endSpan(span, err) }()

	from, err := ParseDate("start", start)
	if err != nil {
		return nil, err
	}
	summary, err := s.repository.GetTemperatureSummaryFrom(ctx, from)
	if err != nil {
		return nil, err
	}
	return []types.TemperatureSummary{summary}, nil
}

func (s *Service) TemperatureRangeBetween(ctx context.Context, start, end string) (_ []types.TemperatureSummary, err error) {
	ctx, span := s.tracer.Start(ctx, "observations.temperature_range_between",
		trace.WithAttributes(attribute.String("start", start), attribute.String("end", end)))
	defer func() { endSpan(span, err) }()

	from, err := ParseDate("start", start)
	if err != nil {
		return nil, err
	}
	to, err := ParseDate("end", end)
	if err != nil {
		return nil, err
	}
	summary, err := s.repository.GetTemperatureSummaryBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return []types.TemperatureSummary{summary}, nil
}

// ParseDate validates a YYYY-MM-DD parameter and returns it in canonical form.
func ParseDate(name, value string) (string, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return "", fmt.Errorf("%w: %s %q (expected YYYY-MM-DD)", ErrInvalidDate, name, value)
	}
	return t.Format(DateLayout), nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
