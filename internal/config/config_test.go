package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/go-playground/validator/v10"
)

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	got, err := FromEnv(env(nil))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if want := Default(); got != want {
		t.Fatalf("config=%+v, want %+v", got, want)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	got, err := FromEnv(env(map[string]string{
		"TESSERA_LOG_FILE":              "/tmp/t.log",
		"TESSERA_LOG_LEVEL":             "debug",
		"TESSERA_HISTORY_LIMIT":         "10",
		"TESSERA_HANDLE_WIDTH":          "2",
		"TESSERA_CELL_MIN_WIDTH":        "4",
		"TESSERA_COLUMN_WIDTH":          "8",
		"TESSERA_LAST_COLUMN_RESIZABLE": "false",
		"TESSERA_ROWS":                  "5",
		"TESSERA_COLS":                  "2",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	want := Config{
		LogFile:      "/tmp/t.log",
		LogLevel:     "debug",
		HistoryLimit: 10,
		HandleWidth:  2,
		CellMinWidth: 4,
		ColumnWidth:  8,
		Rows:         5,
		Cols:         2,
	}
	if got != want {
		t.Fatalf("config=%+v, want %+v", got, want)
	}
}

func TestFromEnv_RejectsBadNumbers(t *testing.T) {
	_, err := FromEnv(env(map[string]string{"TESSERA_ROWS": "many"}))
	var numErr *strconv.NumError
	if !errors.As(err, &numErr) {
		t.Fatalf("err=%v, want *strconv.NumError", err)
	}
}

func TestFromEnv_Validates(t *testing.T) {
	tests := []map[string]string{
		{"TESSERA_LOG_LEVEL": "loud"},
		{"TESSERA_HANDLE_WIDTH": "0"},
		{"TESSERA_COLUMN_WIDTH": "2"},
		{"TESSERA_ROWS": "0"},
		{"TESSERA_COLS": "21"},
		{"TESSERA_LOG_FILE": ""},
	}
	for _, tt := range tests {
		_, err := FromEnv(env(tt))
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("%v: err=%v, want validation errors", tt, err)
		}
	}
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("TESSERA_ROWS=7\nTESSERA_COLS=4\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	// Load does not override variables that are already set.
	t.Setenv("TESSERA_COLS", "6")
	t.Setenv("TESSERA_ROWS", "")
	os.Unsetenv("TESSERA_ROWS")

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Rows != 7 || got.Cols != 6 {
		t.Fatalf("rows=%d cols=%d, want 7 and 6", got.Rows, got.Cols)
	}
}

func TestLoad_MissingFileUsesEnvironment(t *testing.T) {
	t.Setenv("TESSERA_ROWS", "9")
	got, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := got.Rows, 9; got != want {
		t.Fatalf("rows=%d, want %d", got, want)
	}
}
