package config

import (
	"encoding/json"
	"os"
)

// Config holds everything one run needs. It is loaded once at startup and
// passed by value into the orchestrator; nothing reads it ambiently.
type Config struct {
	// Retail database (the tabular data provider).
	SourceDriver string `json:"sourceDriver"`
	SourceDSN    string `json:"sourceDSN"`
	BranchCode   int64  `json:"branchCode"`

	// Reporting endpoint.
	ClientID     string `json:"clientID"`
	ClientSecret string `json:"clientSecret"`
	TokenURL     string `json:"tokenURL"`
	UploadURL    string `json:"uploadURL"`
	EstabCode    string `json:"estabCode"`

	// Output.
	OutDir        string `json:"outDir"`
	UploadDefault bool   `json:"uploadDefault"`

	// Validation.
	ValidationEnabled bool   `json:"validationEnabled"`
	LayoutExamplePath string `json:"layoutExamplePath"`

	// Last run, for convenience when re-running interactively.
	LastFrom string `json:"lastFrom"`
	LastTo   string `json:"lastTo"`
}

const DefaultPath = "./gddi_config.json"

// Defaults is the configuration a fresh install runs with.
func Defaults() Config {
	return Config{
		SourceDriver: "sqlite3",
		SourceDSN:    "./retail.db?_journal_mode=WAL&_busy_timeout=5000",
		BranchCode:   1,
		OutDir:       "./out",
	}
}

// Load reads the config file, filling defaults for anything unset. A missing
// file is not an error: it yields the defaults.
func Load(path string) (Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return Config{}, err
	}

	cfg := Defaults()
	if err := json.Unmarshal(file, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.SourceDriver == "" {
		cfg.SourceDriver = "sqlite3"
	}
	if cfg.BranchCode == 0 {
		cfg.BranchCode = 1
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "./out"
	}
	return cfg, nil
}

// Save writes the config back, pretty-printed so it stays hand-editable.
func Save(path string, cfg Config) error {
	file, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, file, 0644)
}
