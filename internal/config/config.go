package config

import (
	"os"

	"github.com/branlanda/poker-galaxy-arena-sub002/internal/util"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config provides configuration for the poker server
type Config struct {
	loaded         bool
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	JWT            struct {
		PublicKey  string `yaml:"publicKey" envconfig:"public_key"`
		PrivateKey string `yaml:"privateKey" envconfig:"private_key"`
	}
	Log struct {
		Level             string `yaml:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
	RecaptchaSecret string `yaml:"recaptchaSecret" envconfig:"recaptcha_secret"`
	// Host is the public URL of the front-end, used when building links in emails
	Host  string `yaml:"host"`
	Email struct {
		Disable                                bool `yaml:"disable"`
		From, Sender, Username, Password, Host string
		TemplateDir                            string `yaml:"templateDir" envconfig:"template_dir"`
	}
	// PlayerCreateDelay is the number of seconds an IP address must wait between signups
	PlayerCreateDelay int `yaml:"playerCreateDelay" envconfig:"player_create_delay"`
	Game              GameConfig
}

// GameConfig configures how hands are run at a table
type GameConfig struct {
	// NextHandDelay is the number of seconds between a showdown and the next deal
	NextHandDelay int `yaml:"nextHandDelay" envconfig:"next_hand_delay"`
	// MinRaise overrides the minimum raise increment. Zero means each raise
	// must be at least the size of the last bet or raise on the street.
	MinRaise     int `yaml:"minRaise" envconfig:"min_raise"`
	DefaultBuyIn int `yaml:"defaultBuyIn" envconfig:"default_buy_in"`
	SmallBlind   int `yaml:"smallBlind" envconfig:"small_blind"`
	BigBlind     int `yaml:"bigBlind" envconfig:"big_blind"`
	MaxSeats     int `yaml:"maxSeats" envconfig:"max_seats"`
}

var config Config

// DefaultConfig returns a config with sane defaults
func DefaultConfig() Config {
	var c Config
	c.PGDSN = "postgres://postgres@localhost:5432/postgres?sslmode=disable"
	c.MigrationsPath = "./sql"
	c.PlayerCreateDelay = 60
	c.Game = GameConfig{
		NextHandDelay: 5,
		DefaultBuyIn:  1000,
		SmallBlind:    5,
		BigBlind:      10,
		MaxSeats:      10,
	}

	return c
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
func Load() error {
	config = DefaultConfig()

	configFile := util.Getenv("PGA_CONFIG_FILE", "config.yaml")
	if file, err := os.Open(configFile); err == nil {
		err = yaml.NewDecoder(file).Decode(&config)
		_ = file.Close()
		if err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("pga", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}
