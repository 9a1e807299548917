// Package config loads runtime settings from an optional YAML file and POLITY_*
// environment variables. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talgya/polity/internal/finance"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds server and game settings.
type Config struct {
	Seed       int64  `yaml:"seed"` // 0 means a fresh random seed
	DBPath     string `yaml:"db_path"`
	Port       int    `yaml:"port"`
	CatalogDir string `yaml:"catalog_dir"`
	LogLevel   string `yaml:"log_level"`
	AdminKey   string `yaml:"admin_key"`
	Country    string `yaml:"country"`

	Game Game `yaml:"game"`
}

// Game configures a new game's setup.
type Game struct {
	ElectionLevel   finance.Level `yaml:"election_level"`
	LawID           string        `yaml:"law"`
	Seats           int           `yaml:"seats"`
	Dominant        []string      `yaml:"dominant_ideologies"`
	Minority        int           `yaml:"minority_parties"`
	MembersPerParty int           `yaml:"members_per_party"`
	ElectionDay     int           `yaml:"election_day"` // Game day of the vote
	StartDate       string        `yaml:"start_date"`   // YYYY-MM-DD
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Seed:     42,
		DBPath:   "data/polity.db",
		Port:     8080,
		LogLevel: "info",
		Country:  "usa",
		Game: Game{
			ElectionLevel:   finance.LevelNational,
			LawID:           "federal",
			Seats:           100,
			Dominant:        []string{"conservative", "progressive"},
			Minority:        2,
			MembersPerParty: 8,
			ElectionDay:     180,
			StartDate:       "2028-05-01",
		},
	}
}

// Load returns the defaults, overlaid by the YAML file at path when path is non-empty,
// overlaid by the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("POLITY_DB", &c.DBPath)
	str("POLITY_CATALOG_DIR", &c.CatalogDir)
	str("POLITY_LOG_LEVEL", &c.LogLevel)
	str("POLITY_ADMIN_KEY", &c.AdminKey)
	str("POLITY_COUNTRY", &c.Country)
	str("POLITY_LAW", &c.Game.LawID)

	if v, ok := lookup("POLITY_SEED"); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parse POLITY_SEED: %w", err)
		}
		c.Seed = seed
	}
	if v, ok := lookup("POLITY_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse POLITY_PORT: %w", err)
		}
		c.Port = port
	}
	if v, ok := lookup("POLITY_SEATS"); ok && v != "" {
		seats, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse POLITY_SEATS: %w", err)
		}
		c.Game.Seats = seats
	}
	if v, ok := lookup("POLITY_ELECTION_LEVEL"); ok && v != "" {
		c.Game.ElectionLevel = finance.Level(strings.ToLower(v))
	}
	if v, ok := lookup("POLITY_DOMINANT"); ok && v != "" {
		var ids []string
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		c.Game.Dominant = ids
	}
	return nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	switch c.Game.ElectionLevel {
	case finance.LevelNational, finance.LevelState, finance.LevelRegional, finance.LevelMunicipal:
	default:
		return fmt.Errorf("election level %q: %w", c.Game.ElectionLevel, ErrInvalid)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d: %w", c.Port, ErrInvalid)
	}
	if c.Game.Seats < 0 {
		return fmt.Errorf("seats %d: %w", c.Game.Seats, ErrInvalid)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", c.LogLevel, ErrInvalid)
	}
	return l, nil
}
