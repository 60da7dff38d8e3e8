package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
pool:
  url: "https://picks.cbssports.com/football/pickem/pools/abc"
  state_file: "state.json"
browser:
  headless: true
extractor:
  page_timeout: 30s
predictor:
  always_pick: "LIONS"
  preferred_teams: ["RAVENS"]
  reasonable_spread: 4.5
teams:
  overrides:
    "777": "EXPANSION"
postgres:
  dsn: "postgres://localhost/picks"
logging:
  level: "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Pool.URL != "https://picks.cbssports.com/football/pickem/pools/abc" {
		t.Errorf("Pool.URL = %q", cfg.Pool.URL)
	}
	if cfg.Pool.StateFile != "state.json" {
		t.Errorf("Pool.StateFile = %q, want state.json", cfg.Pool.StateFile)
	}
	if !cfg.Browser.Headless {
		t.Error("Browser.Headless = false, want true")
	}
	if cfg.Extractor.PageTimeout != 30*time.Second {
		t.Errorf("Extractor.PageTimeout = %v, want 30s", cfg.Extractor.PageTimeout)
	}
	if cfg.Predictor.AlwaysPick != "LIONS" {
		t.Errorf("Predictor.AlwaysPick = %q, want LIONS", cfg.Predictor.AlwaysPick)
	}
	if len(cfg.Predictor.PreferredTeams) != 1 || cfg.Predictor.PreferredTeams[0] != "RAVENS" {
		t.Errorf("Predictor.PreferredTeams = %v, want [RAVENS]", cfg.Predictor.PreferredTeams)
	}
	if cfg.Predictor.ReasonableSpread != 4.5 {
		t.Errorf("Predictor.ReasonableSpread = %v, want 4.5", cfg.Predictor.ReasonableSpread)
	}
	if cfg.Teams.Overrides["777"] != "EXPANSION" {
		t.Errorf("Teams.Overrides = %v", cfg.Teams.Overrides)
	}
	if cfg.Postgres.DSN != "postgres://localhost/picks" {
		t.Errorf("Postgres.DSN = %q", cfg.Postgres.DSN)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("pool:\n  url: \"https://example.com\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Pool.StateFile != "cbs_storage.json" {
		t.Errorf("Pool.StateFile default = %q", cfg.Pool.StateFile)
	}
	if cfg.Extractor.PageTimeout != 60*time.Second {
		t.Errorf("Extractor.PageTimeout default = %v", cfg.Extractor.PageTimeout)
	}
	if cfg.Extractor.CloseDelay != 500*time.Millisecond {
		t.Errorf("Extractor.CloseDelay default = %v", cfg.Extractor.CloseDelay)
	}
	if cfg.Predictor.AlwaysPick != "SEAHAWKS" {
		t.Errorf("Predictor.AlwaysPick default = %q", cfg.Predictor.AlwaysPick)
	}
	if len(cfg.Predictor.PreferredTeams) != 5 {
		t.Errorf("Predictor.PreferredTeams default = %v", cfg.Predictor.PreferredTeams)
	}
	if cfg.Predictor.ReasonableSpread != 5.5 {
		t.Errorf("Predictor.ReasonableSpread default = %v", cfg.Predictor.ReasonableSpread)
	}
	if cfg.Predictor.StrongConsensus != 0.75 {
		t.Errorf("Predictor.StrongConsensus default = %v", cfg.Predictor.StrongConsensus)
	}
	if cfg.Preview.IconsDir != "team_icons" {
		t.Errorf("Preview.IconsDir default = %q", cfg.Preview.IconsDir)
	}
	if cfg.Storage.RootDir != "." {
		t.Errorf("Storage.RootDir default = %q", cfg.Storage.RootDir)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load() succeeded on a missing file")
	}
}
