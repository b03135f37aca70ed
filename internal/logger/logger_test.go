package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sudo-init-do/rentaskill/internal/config"
)

func TestBuildLevels(t *testing.T) {
	tests := []struct {
		env  string
		want zerolog.Level
	}{
		{config.EnvDev, zerolog.DebugLevel},
		{config.EnvProd, zerolog.InfoLevel},
		{config.EnvLocal, zerolog.TraceLevel},
	}
	for _, tt := range tests {
		if got := build(tt.env, &bytes.Buffer{}).GetLevel(); got != tt.want {
			t.Errorf("%s: level = %v, want %v", tt.env, got, tt.want)
		}
	}
}

func TestProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := build(config.EnvProd, &buf)
	log.Debug().Msg("hidden")
	log.Info().Str("k", "v").Msg("shown")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not a single JSON line: %q", buf.String())
	}
	if entry["message"] != "shown" || entry["k"] != "v" || entry["env"] != config.EnvProd {
		t.Errorf("entry = %v", entry)
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("missing timestamp field")
	}
}
