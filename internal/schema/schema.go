// Package schema declares the tables the query service reads and checks a live
// store against that declaration at startup.
package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrMismatch is wrapped by every error Verify reports about the store's shape.
var ErrMismatch = errors.New("schema mismatch")

// Affinity is a SQLite column type affinity.
type Affinity string

const (
	AffinityInteger Affinity = "INTEGER"
	AffinityText    Affinity = "TEXT"
	AffinityReal    Affinity = "REAL"
	AffinityNumeric Affinity = "NUMERIC"
	AffinityBlob    Affinity = "BLOB"
)

type Column struct {
	Name     string
	Affinity Affinity
}

type Table struct {
	Name    string
	Columns []Column
}

const (
	MeasurementTable = "measurement"
	StationTable     = "station"
)

// Tables is the shape of the climate dataset. Columns not listed here are
// tolerated; listed columns must exist with a compatible affinity.
var Tables = []Table{
	{
		Name: MeasurementTable,
		Columns: []Column{
			{Name: "id", Affinity: AffinityInteger},
			{Name: "station", Affinity: AffinityText},
			{Name: "date", Affinity: AffinityText},
			{Name: "prcp", Affinity: AffinityReal},
			{Name: "tobs", Affinity: AffinityReal},
		},
	},
	{
		Name: StationTable,
		Columns: []Column{
			{Name: "id", Affinity: AffinityInteger},
			{Name: "station", Affinity: AffinityText},
			{Name: "name", Affinity: AffinityText},
			{Name: "latitude", Affinity: AffinityReal},
			{Name: "longitude", Affinity: AffinityReal},
			{Name: "elevation", Affinity: AffinityReal},
		},
	},
}

// Queryer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// ColumnAffinity applies SQLite's affinity rules (https://sqlite.org/datatype3.html, 3.1)
// to a declared column type.
func ColumnAffinity(declared string) Affinity {
	t := strings.ToUpper(declared)
	switch {
	case strings.Contains(t, "INT"):
		return AffinityInteger
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"):
		return AffinityText
	case t == "", strings.Contains(t, "BLOB"):
		return AffinityBlob
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"), strings.Contains(t, "DOUB"):
		return AffinityReal
	default:
		return AffinityNumeric
	}
}

// Verify compares every declared table with pragma_table_info and returns all
// differences joined into one error.
func Verify(ctx context.Context, q Queryer) error {
	var problems []error
	for _, table := range Tables {
		actual, err := tableColumns(ctx, q, table.Name)
		if err != nil {
			return fmt.Errorf("inspect table %s: %w", table.Name, err)
		}
		if len(actual) == 0 {
			problems = append(problems, fmt.Errorf("%w: table %q not found", ErrMismatch, table.Name))
			continue
		}
		for _, col := range table.Columns {
			declared, ok := actual[col.Name]
			if !ok {
				problems = append(problems, fmt.Errorf("%w: column %s.%s not found", ErrMismatch, table.Name, col.Name))
				continue
			}
			if got := ColumnAffinity(declared); got != col.Affinity {
				problems = append(problems, fmt.Errorf("%w: column %s.%s declared %q (%s affinity), want %s affinity",
					ErrMismatch, table.Name, col.Name, declared, got, col.Affinity))
			}
		}
	}
	return errors.Join(problems...)
}

func tableColumns(ctx context.Context, q Queryer, table string) (map[string]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT name, type FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]string)
	for rows.Next() {
		var name, declType string
		if err := rows.Scan(&name, &declType); err != nil {
			return nil, err
		}
		out[name] = declType
	}
	return out, rows.Err()
}
