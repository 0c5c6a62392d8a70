package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Content struct {
		TTL string `yaml:"ttl"`
	} `yaml:"content"`
	Leaderboard struct {
		File string `yaml:"file"`
	} `yaml:"leaderboard"`
	Sheets struct {
		Enabled         bool   `yaml:"enabled"`
		SpreadsheetID   string `yaml:"spreadsheet_id"`
		CredentialsFile string `yaml:"credentials_file"`
		CredentialsJSON string `yaml:"credentials_json"`
		// Leaderboard switches the leaderboard store itself to the sheet's
		// Leaderboard worksheet instead of the local file.
		Leaderboard bool `yaml:"leaderboard"`
	} `yaml:"sheets"`
	Game struct {
		MissionTimer  string `yaml:"mission_timer"`
		QuestionTimer string `yaml:"question_timer"`
		QuizQuestions int    `yaml:"quiz_questions"`
	} `yaml:"game"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
