package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

var (
	ErrMissingToken  = errors.New("BOT_TOKEN environment variable not set")
	ErrMissingAdmins = errors.New("ADMIN_IDS environment variable not set, expected a comma-separated list of Telegram user IDs")
)

type DB struct {
	Driver string `env:"DRIVER, default=sqlite3"`
	DSN    string `env:"DSN, default=invitebot.db"`
}

type Store struct {
	RetryAttempts uint          `env:"RETRY_ATTEMPTS, default=3"`
	RetryDelay    time.Duration `env:"RETRY_DELAY, default=200ms"`
}

type Config struct {
	BotToken       string        `env:"BOT_TOKEN"`
	AdminIDs       []int64       `env:"ADMIN_IDS"`
	CommandTimeout time.Duration `env:"COMMAND_TIMEOUT, default=10s"`
	Debug          bool          `env:"DEBUG, default=false"`
	PrintMsgs      bool          `env:"PRINT_MSGS, default=false"`

	// IgnoreMigration skips the embedded schema migrations on start
	IgnoreMigration bool `env:"IGNORE_SQL_MIGRATION, default=false"`

	DB    DB    `env:", prefix=DB_"`
	Store Store `env:", prefix=STORE_"`
}

func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	})
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	c.BotToken = strings.TrimSpace(c.BotToken)
	if c.BotToken == "" {
		return ErrMissingToken
	}

	if len(c.AdminIDs) == 0 {
		return ErrMissingAdmins
	}

	if c.CommandTimeout <= 0 {
		return fmt.Errorf("COMMAND_TIMEOUT must be positive, got %s", c.CommandTimeout)
	}

	if c.Store.RetryAttempts == 0 {
		c.Store.RetryAttempts = 1
	}

	return nil
}
