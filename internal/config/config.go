// Package config loads the demo settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	LogFile  string `validate:"required"`
	LogLevel string `validate:"oneof=debug info warn error"`

	HistoryLimit int `validate:"gte=0"`

	HandleWidth         int `validate:"gte=1,lte=4"`
	CellMinWidth        int `validate:"gte=1"`
	ColumnWidth         int `validate:"gtefield=CellMinWidth"`
	LastColumnResizable bool

	// Rows and Cols size the table of the starting document.
	Rows int `validate:"gte=1,lte=50"`
	Cols int `validate:"gte=1,lte=20"`
}

func Default() Config {
	return Config{
		LogFile:             "tessera.log",
		LogLevel:            "info",
		HistoryLimit:        1000,
		HandleWidth:         1,
		CellMinWidth:        3,
		ColumnWidth:         12,
		LastColumnResizable: true,
		Rows:                3,
		Cols:                3,
	}
}

// Load reads the given .env files (".env" when none are given) into the
// environment and builds the config from it. Missing files are skipped.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load env file: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds the config from lookup, falling back to Default for unset
// variables.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if v, ok := lookup("TESSERA_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := lookup("TESSERA_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"TESSERA_HISTORY_LIMIT", &cfg.HistoryLimit},
		{"TESSERA_HANDLE_WIDTH", &cfg.HandleWidth},
		{"TESSERA_CELL_MIN_WIDTH", &cfg.CellMinWidth},
		{"TESSERA_COLUMN_WIDTH", &cfg.ColumnWidth},
		{"TESSERA_ROWS", &cfg.Rows},
		{"TESSERA_COLS", &cfg.Cols},
	}
	for _, f := range ints {
		v, ok := lookup(f.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", f.key, err)
		}
		*f.dst = n
	}

	if v, ok := lookup("TESSERA_LAST_COLUMN_RESIZABLE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: TESSERA_LAST_COLUMN_RESIZABLE: %w", err)
		}
		cfg.LastColumnResizable = b
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: invalid: %w", err)
	}
	return cfg, nil
}
