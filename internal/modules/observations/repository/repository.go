package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"climate-server/internal/modules/observations/types"
)

//go:embed sql/get-precipitation.sql
var getPrecipitationSQL string

//go:embed sql/get-station-activity.sql
var getStationActivitySQL string

//go:embed sql/get-most-active-station.sql
var getMostActiveStationSQL string

//go:embed sql/get-most-recent-date.sql
var getMostRecentDateSQL string

//go:embed sql/get-station-temperatures.sql
var getStationTemperaturesSQL string

//go:embed sql/get-temperature-summary-from.sql
var getTemperatureSummaryFromSQL string

//go:embed sql/get-temperature-summary-between.sql
var getTemperatureSummaryBetweenSQL string

// ObservationRepository reads the measurement table. Dates are canonical
// "YYYY-MM-DD" strings and compare lexicographically. Every method runs in its
// own read-only transaction that is finished before it returns.
type ObservationRepository interface {
	GetPrecipitation(ctx context.Context, since string) ([]types.Precipitation, error)
	GetStationActivity(ctx context.Context) ([]types.StationActivity, error)
	// GetMostActiveStationTemperatures returns the most active station and its
	// observations on or after since. station is empty when there are no readings.
	GetMostActiveStationTemperatures(ctx context.Context, since string) (station string, obs []types.TemperatureObservation, err error)
	GetTemperatureSummaryFrom(ctx context.Context, start string) (types.TemperatureSummary, error)
	GetTemperatureSummaryBetween(ctx context.Context, start string, end string) (types.TemperatureSummary, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ObservationRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) withReadTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("begin read tx: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("rollback read tx", "error", err)
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *repositoryImpl) GetPrecipitation(ctx context.Context, since string) ([]types.Precipitation, error) {
	out := make([]types.Precipitation, 0)
	err := r.withReadTx(ctx, func(tx *sql.Tx) error {
		return queryEach(ctx, tx, getPrecipitationSQL, []any{since}, func(rows *sql.Rows) error {
			var (
				p    types.Precipitation
				prcp sql.NullFloat64
			)
			if err := rows.Scan(&p.Date, &prcp); err != nil {
				return err
			}
			p.Prcp = nullableFloat(prcp)
			out = append(out, p)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("get precipitation: %w", err)
	}
	return out, nil
}

func (r *repositoryImpl) GetStationActivity(ctx context.Context) ([]types.StationActivity, error) {
	out := make([]types.StationActivity, 0)
	err := r.withReadTx(ctx, func(tx *sql.Tx) error {
		return queryEach(ctx, tx, getStationActivitySQL, nil, func(rows *sql.Rows) error {
			var s types.StationActivity
			if err := rows.Scan(&s.Station, &s.Count); err != nil {
				return err
			}
			out = append(out, s)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("get station activity: %w", err)
	}
	return out, nil
}

func (r *repositoryImpl) GetMostActiveStationTemperatures(ctx context.Context, since string) (string, []types.TemperatureObservation, error) {
	var station string
	out := make([]types.TemperatureObservation, 0)
	err := r.withReadTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, getMostActiveStationSQL).Scan(&station)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("most active station: %w", err)
		}

		// The window stays anchored to the fixed cutoff; the latest date is
		// only reported.
		var latest sql.NullString
		if err := tx.QueryRowContext(ctx, getMostRecentDateSQL).Scan(&latest); err != nil {
			return fmt.Errorf("most recent date: %w", err)
		}
		slog.DebugContext(ctx, "most active station",
			"station", station,
			"most_recent_date", latest.String,
			"since", since,
		)

		return queryEach(ctx, tx, getStationTemperaturesSQL, []any{since, station}, func(rows *sql.Rows) error {
			var (
				o    types.TemperatureObservation
				tobs sql.NullFloat64
			)
			if err := rows.Scan(&o.Date, &tobs); err != nil {
				return err
			}
			o.Tobs = nullableFloat(tobs)
			out = append(out, o)
			return nil
		})
	})
	if err != nil {
		return "", nil, fmt.Errorf("get most active station temperatures: %w", err)
	}
	return station, out, nil
}

func (r *repositoryImpl) GetTemperatureSummaryFrom(ctx context.Context, start string) (types.TemperatureSummary, error) {
	s, err := r.temperatureSummary(ctx, getTemperatureSummaryFromSQL, start)
	if err != nil {
		return types.TemperatureSummary{}, fmt.Errorf("get temperature summary from %s: %w", start, err)
	}
	return s, nil
}

func (r *repositoryImpl) GetTemperatureSummaryBetween(ctx context.Context, start string, end string) (types.TemperatureSummary, error) {
	s, err := r.temperatureSummary(ctx, getTemperatureSummaryBetweenSQL, start, end)
	if err != nil {
		return types.TemperatureSummary{}, fmt.Errorf("get temperature summary %s..%s: %w", start, end, err)
	}
	return s, nil
}

// temperatureSummary runs an aggregate query; aggregates always yield exactly one row.
func (r *repositoryImpl) temperatureSummary(ctx context.Context, query string, args ...any) (types.TemperatureSummary, error) {
	var tmin, tavg, tmax sql.NullFloat64
	err := r.withReadTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query, args...).Scan(&tmin, &tavg, &tmax)
	})
	if err != nil {
		return types.TemperatureSummary{}, err
	}
	return types.TemperatureSummary{
		Min: nullableFloat(tmin),
		Avg: nullableFloat(tavg),
		Max: nullableFloat(tmax),
	}, nil
}

func queryEach(ctx context.Context, tx *sql.Tx, query string, args []any, scan func(rows *sql.Rows) error) error {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close rows", "error", err)
		}
	}()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func nullableFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
