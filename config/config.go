// Package config resolves settings from flags, DBDEF_ environment variables,
// an optional config file and defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Altinn/altinn-authorization-tmp-sub012/dialect"
	"github.com/Altinn/altinn-authorization-tmp-sub012/utils"
)

const EnvPrefix = "DBDEF"

// DefaultFile is looked up in the working directory when no file is given.
const DefaultFile = "dbdef"

type Schemas struct {
	Default     string `mapstructure:"default"`
	Translation string `mapstructure:"translation"`
	History     string `mapstructure:"history"`
}

type Config struct {
	Dialect          string  `mapstructure:"dialect"`
	ConnectionString string  `mapstructure:"connection_string"`
	Schemas          Schemas `mapstructure:"schemas"`
	CollectionId     string  `mapstructure:"collection_id"`
	FunctionsFile    string  `mapstructure:"functions_file"`
	ModelsDir        string  `mapstructure:"models_dir"`
	ScriptDir        string  `mapstructure:"script_dir"`
	Debug            bool    `mapstructure:"debug"`
}

var defaults = map[string]any{
	"dialect":             "mssql",
	"connection_string":   "",
	"schemas.default":     "dbo",
	"schemas.translation": "translation",
	"schemas.history":     "history",
	"collection_id":       "default",
	"functions_file":      "",
	"models_dir":          "models",
	"script_dir":          "migrations",
	"debug":               false,
}

// New returns a viper instance with defaults and environment binding. Flags
// can be bound onto it before Load.
func New() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads file when set and decodes the settings.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", file, err)
		}
	} else {
		v.SetConfigName(DefaultFile)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.ConnectionString == "" {
		cfg.ConnectionString = utils.GetDatabaseURL()
	}
	return &cfg, nil
}

// Validate checks the settings needed to talk to a database.
func (c *Config) Validate() error {
	if _, err := dialect.Parse(c.Dialect); err != nil {
		return err
	}
	if c.ConnectionString == "" {
		return fmt.Errorf("connection string not set (%s_CONNECTION_STRING or DATABASE_URL)", EnvPrefix)
	}
	if c.CollectionId == "" {
		return fmt.Errorf("collection id not set")
	}
	return nil
}

func (c *Config) DialectValue() (dialect.Dialect, error) {
	return dialect.Parse(c.Dialect)
}
