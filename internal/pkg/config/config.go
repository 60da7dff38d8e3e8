package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Pool      PoolConfig      `yaml:"pool"`
	Browser   BrowserConfig   `yaml:"browser"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Predictor PredictorConfig `yaml:"predictor"`
	Picks     PicksConfig     `yaml:"picks"`
	Teams     TeamsConfig     `yaml:"teams"`
	Preview   PreviewConfig   `yaml:"preview"`
	Storage   StorageConfig   `yaml:"storage"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Workflow  WorkflowConfig  `yaml:"workflow"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type PoolConfig struct {
	URL       string `yaml:"url"`
	StateFile string `yaml:"state_file"` // persisted session cookies
}

type BrowserConfig struct {
	Headless  bool   `yaml:"headless"`
	UserAgent string `yaml:"user_agent"`
}

type ExtractorConfig struct {
	PageTimeout  time.Duration `yaml:"page_timeout"`  // initial wait for the matchup list
	PanelTimeout time.Duration `yaml:"panel_timeout"` // wait for one analysis panel
	SettleDelay  time.Duration `yaml:"settle_delay"`  // extra render time after the list appears
	PanelSettle  time.Duration `yaml:"panel_settle"`  // extra render time after a panel appears
	CloseDelay   time.Duration `yaml:"close_delay"`   // time for a panel to disappear after closing
}

type PredictorConfig struct {
	AlwaysPick       string   `yaml:"always_pick"`
	PreferredTeams   []string `yaml:"preferred_teams"` // in preference order
	ReasonableSpread float64  `yaml:"reasonable_spread"`
	StrongConsensus  float64  `yaml:"strong_consensus"`
}

type PicksConfig struct {
	PageTimeout time.Duration `yaml:"page_timeout"`
	ClickDelay  time.Duration `yaml:"click_delay"` // pacing between state-changing clicks
}

type TeamsConfig struct {
	// Overrides extends/replaces the built-in icon-id -> team-code table.
	Overrides map[string]string `yaml:"overrides"`
}

type PreviewConfig struct {
	IconsDir string `yaml:"icons_dir"` // downloaded team logo SVGs
}

type StorageConfig struct {
	RootDir string `yaml:"root_dir"` // holds season/week folders and default documents
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"` // empty disables the archive
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type WorkflowConfig struct {
	PreviewDir string `yaml:"preview_dir"`
	GitCommit  bool   `yaml:"git_commit"`
	GitPush    bool   `yaml:"git_push"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // optional log file in addition to stdout
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.applyDefaults()

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Pool.StateFile == "" {
		c.Pool.StateFile = "cbs_storage.json"
	}
	if c.Browser.UserAgent == "" {
		c.Browser.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if c.Extractor.PageTimeout <= 0 {
		c.Extractor.PageTimeout = 60 * time.Second
	}
	if c.Extractor.PanelTimeout <= 0 {
		c.Extractor.PanelTimeout = 5 * time.Second
	}
	if c.Extractor.SettleDelay <= 0 {
		c.Extractor.SettleDelay = 2 * time.Second
	}
	if c.Extractor.PanelSettle <= 0 {
		c.Extractor.PanelSettle = time.Second
	}
	if c.Extractor.CloseDelay <= 0 {
		c.Extractor.CloseDelay = 500 * time.Millisecond
	}
	if c.Predictor.AlwaysPick == "" {
		c.Predictor.AlwaysPick = "SEAHAWKS"
	}
	if len(c.Predictor.PreferredTeams) == 0 {
		c.Predictor.PreferredTeams = []string{"LIONS", "FALCONS", "RAIDERS", "RAVENS", "VIKINGS"}
	}
	if c.Predictor.ReasonableSpread <= 0 {
		c.Predictor.ReasonableSpread = 5.5
	}
	if c.Predictor.StrongConsensus <= 0 {
		c.Predictor.StrongConsensus = 0.75
	}
	if c.Picks.PageTimeout <= 0 {
		c.Picks.PageTimeout = 60 * time.Second
	}
	if c.Picks.ClickDelay <= 0 {
		c.Picks.ClickDelay = 500 * time.Millisecond
	}
	if c.Preview.IconsDir == "" {
		c.Preview.IconsDir = "team_icons"
	}
	if c.Storage.RootDir == "" {
		c.Storage.RootDir = "."
	}
	if c.Workflow.PreviewDir == "" {
		c.Workflow.PreviewDir = "previews"
	}
}
