package config

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/ipetrenko/cardshop/internal/log"
)

type Application struct {
	Env       string `mapstructure:"env"        json:"env"`
	Host      string `mapstructure:"host"       json:"host"`
	SecretKey string `mapstructure:"secret_key" json:"-"`
	Port      int    `mapstructure:"port"       json:"port"`
}

type Database struct {
	Name           string `mapstructure:"name"            json:"name"`
	Host           string `mapstructure:"host"            json:"host"`
	MigrationPath  string `mapstructure:"migration_path"  json:"migration_path"`
	Password       string `mapstructure:"password"        json:"-"`
	Username       string `mapstructure:"username"        json:"username"`
	MaxConnections int    `mapstructure:"max_connections" json:"max_connections"`
	MinConnections int    `mapstructure:"min_connections" json:"min_connections"`
	Port           uint16 `mapstructure:"port"            json:"port"`
}

type Cache struct {
	Host     string `mapstructure:"host"     json:"host"`
	Password string `mapstructure:"password" json:"-"`
	Database int    `mapstructure:"database" json:"database"`
	Port     uint16 `mapstructure:"port"     json:"port"`
}

type Otel struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

// Telegram holds the upstream credentials of the notification channel. Both
// fields empty is a valid deployment state; the relay then rejects every
// submission with a configuration error.
type Telegram struct {
	BotToken string `mapstructure:"bot_token" json:"-"`
	ChatID   string `mapstructure:"chat_id"   json:"chat_id"`
	ApiURL   string `mapstructure:"api_url"   json:"api_url"`
}

type Shop struct {
	RelayURL   string `mapstructure:"relay_url"   json:"relay_url"`
	CatalogURL string `mapstructure:"catalog_url" json:"catalog_url"`
	Currency   string `mapstructure:"currency"    json:"currency"`
}

type Storage struct {
	Dir     string `mapstructure:"dir"      json:"dir"`
	BaseURL string `mapstructure:"base_url" json:"base_url"`
}

type Config struct {
	Database    `mapstructure:"db"          json:"db"`
	Cache       `mapstructure:"cache"       json:"cache"`
	Application `mapstructure:"application" json:"application"`
	Otel        `mapstructure:"otel"        json:"otel"`
	Telegram    `mapstructure:"telegram"    json:"telegram"`
	Shop        `mapstructure:"shop"        json:"shop"`
	Storage     `mapstructure:"storage"     json:"storage"`
}

var (
	once   sync.Once
	config *Config
)

func InitConfig(c context.Context, filename string) *Config {
	cfg := Config{}
	once.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "main InitConfig").
			Str(log.KeyProcess, "init config").
			Str("filename", filename).
			Logger()

		viper.SetConfigName(filename)
		viper.AddConfigPath("./env")
		viper.SetConfigType("yaml")
		viper.AutomaticEnv()

		logger = logger.With().Str(log.KeyProcess, "reading config").Logger()
		logger.Info().Msg("reading config")
		err := viper.ReadInConfig()
		if err != nil {
			err = fmt.Errorf("error when reading config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("read config")

		logger = logger.With().Str(log.KeyProcess, "unmarshaling config").Logger()
		logger.Info().Msg("unmarshaling config")
		err = viper.Unmarshal(&cfg)
		if err != nil {
			err = fmt.Errorf("error unmarshaling config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		config = &cfg
		logger = logger.With().Any(log.KeyConfig, cfg).Logger()
		logger.Info().Msg("unmarshaled config")
	})
	return config
}
