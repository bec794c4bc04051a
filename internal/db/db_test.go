package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"climate-server/internal/config"
)

func TestBuildDSN(t *testing.T) {
	existing := filepath.Join(t.TempDir(), "hawaii.sqlite")
	if err := os.WriteFile(existing, nil, 0o644); err != nil {
		t.Fatalf("create file: %v", err)
	}

	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{
			name: "explicit dsn wins",
			cfg:  config.Config{DSN: "file::memory:?cache=shared", Path: existing, ReadOnly: true},
			want: "file::memory:?cache=shared",
		},
		{
			name: "read only plain path",
			cfg:  config.Config{Path: existing, ReadOnly: true},
			want: "file:" + existing + "?mode=ro&_busy_timeout=5000",
		},
		{
			name: "read only file uri with params",
			cfg:  config.Config{Path: "file:" + existing + "?cache=private", ReadOnly: true},
			want: "file:" + existing + "?cache=private&mode=ro&_busy_timeout=5000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildDSN(tt.cfg)
			if err != nil {
				t.Fatalf("buildDSN: %v", err)
			}
			if got != tt.want {
				t.Errorf("buildDSN = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildDSN_ReadWriteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "hawaii.sqlite")

	got, err := buildDSN(config.Config{Path: path})
	if err != nil {
		t.Fatalf("buildDSN: %v", err)
	}
	if !strings.Contains(got, "_journal_mode=DELETE") || strings.Contains(got, "mode=ro") {
		t.Errorf("buildDSN = %q, want read-write params", got)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}

func TestBuildDSN_ReadOnlyMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.sqlite")

	if _, err := buildDSN(config.Config{Path: path, ReadOnly: true}); err == nil {
		t.Fatal("buildDSN error = nil, want error for missing dataset")
	}
}

func TestBuildDSN_NothingConfigured(t *testing.T) {
	if _, err := buildDSN(config.Config{}); err == nil {
		t.Fatal("buildDSN error = nil, want error")
	}
}

func TestOpen_ReadOnlyRejectsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hawaii.sqlite")
	ctx := context.Background()

	// Plain rollback journal: a WAL file needs a writable -shm to be read.
	rw, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open read-write: %v", err)
	}
	if _, err := rw.Exec(`CREATE TABLE measurement (id INTEGER PRIMARY KEY, station TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if err := Close(rw); err != nil {
		t.Fatalf("close: %v", err)
	}

	ro, err := Open(ctx, config.Config{Driver: "sqlite3", Path: path, ReadOnly: true, MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("open read-only: %v", err)
	}
	defer func() {
		if err := Close(ro); err != nil {
			t.Errorf("close: %v", err)
		}
	}()

	var n int
	if err := ro.QueryRow(`SELECT COUNT(*) FROM measurement`).Scan(&n); err != nil {
		t.Fatalf("read: %v", err)
	}
	if _, err := ro.Exec(`INSERT INTO measurement (station) VALUES ('USC00519397')`); err == nil {
		t.Fatal("insert on read-only connection succeeded, want error")
	}
}

func TestOpen_WithSQLLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hawaii.sqlite")

	conn, err := Open(context.Background(), config.Config{Path: path, LogSQL: true, MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = Close(conn) }()

	var one int
	if err := conn.QueryRow(`SELECT 1`).Scan(&one); err != nil {
		t.Fatalf("select: %v", err)
	}
	if one != 1 {
		t.Fatalf("got %d, want 1", one)
	}
}

func TestClose_Nil(t *testing.T) {
	if err := Close(nil); err != nil {
		t.Fatalf("Close(nil) = %v, want nil", err)
	}
}
