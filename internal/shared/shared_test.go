package shared

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestParseLevel(t *testing.T) {
	tc := []struct {
		name    string
		input   string
		want    log.Level
		wantErr bool
	}{
		{name: "empty defaults to info", input: "", want: log.InfoLevel},
		{name: "debug", input: "debug", want: log.DebugLevel},
		{name: "mixed case and spaces", input: "  Warn ", want: log.WarnLevel},
		{name: "error", input: "error", want: log.ErrorLevel},
		{name: "unknown", input: "verbose", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("WithLogger adds fields", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := WithLogger(NewLogger(buf), "component", "test")
		logger.Info("hello")

		out := buf.String()
		if !strings.Contains(out, "hello") || !strings.Contains(out, "component=test") {
			t.Errorf("unexpected log output: %q", out)
		}
	})

	t.Run("SetLogLevel filters", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(buf)
		SetLogLevel(logger, log.WarnLevel)
		logger.Info("hidden")

		if buf.Len() != 0 {
			t.Errorf("info should be filtered at warn level, got %q", buf.String())
		}
	})
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("GenerateID() = %q is not a uuid: %v", id, err)
	}
	if id == GenerateID() {
		t.Error("GenerateID() should not repeat")
	}
}

func TestDatabase(t *testing.T) {
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	defer db.Close()

	ConfigureDatabase(db, 1, 1)

	ok, err := TableExists(db, "users")
	if err != nil {
		t.Fatalf("TableExists() error = %v", err)
	}
	if ok {
		t.Error("users should not exist in a new database")
	}

	if _, err := db.Exec("CREATE TABLE users (id INTEGER)"); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	ok, err = TableExists(db, "users")
	if err != nil {
		t.Fatalf("TableExists() error = %v", err)
	}
	if !ok {
		t.Error("users should exist after create")
	}
}
