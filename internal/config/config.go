package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the server configuration, read from LEDGER_* environment variables.
type Config struct {
	HTTPAddress     string        `env:"LEDGER_HTTP_ADDRESS" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"LEDGER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel        string        `env:"LEDGER_LOG_LEVEL" envDefault:"info"`

	// Token
	TokenName      string `env:"LEDGER_TOKEN_NAME" envDefault:"TESR Token"`
	TokenSymbol    string `env:"LEDGER_TOKEN_SYMBOL" envDefault:"TESR"`
	TokenDecimals  uint8  `env:"LEDGER_TOKEN_DECIMALS" envDefault:"18"`
	Admin          string `env:"LEDGER_ADMIN,required"` // creator, receives the initial supply
	SnapshotPolicy string `env:"LEDGER_SNAPSHOT_POLICY" envDefault:"public"`

	// Journal; empty keeps operations in memory only.
	DatabaseURL string `env:"LEDGER_DATABASE_URL"`

	// Events; no brokers keeps a bounded in-memory log.
	KafkaBrokers []string `env:"LEDGER_KAFKA_BROKERS" envSeparator:","`
	TopicPrefix  string   `env:"LEDGER_TOPIC_PREFIX" envDefault:"ledger"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the given dotenv files (".env" when none are given) into the
// process environment and parses Config. Missing files are ignored; variables
// already set in the environment win.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
