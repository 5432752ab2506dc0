package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "LAKE_ALMANAC"

// DotEnvFiles are loaded, in order, before the environment is read.
// Variables already set are never overridden.
var DotEnvFiles = []string{".env.local", ".env"}

// YAMLProvider implements ConfigProvider for YAML configuration files,
// layered over defaults and environment variables.
type YAMLProvider struct {
	filename string
	v        *viper.Viper
}

// NewYAMLProvider creates a new YAML configuration provider. An empty
// filename searches for lake-almanac.yaml in the working directory and
// runs on defaults when none is found.
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
		v:        viper.New(),
	}
}

// LoadConfig loads, merges and validates the configuration
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	loadDotEnv()

	v := y.v
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database.url", envPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("binding DATABASE_URL: %w", err)
	}

	if y.filename != "" {
		v.SetConfigFile(y.filename)
	} else {
		v.SetConfigName("lake-almanac")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg ConfigData
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigFileUsed returns the file the configuration was read from, if any.
func (y *YAMLProvider) ConfigFileUsed() string {
	return y.v.ConfigFileUsed()
}

// IsReadOnly returns true since YAML configs are edited by hand
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// Validate checks cfg against its struct constraints.
func Validate(cfg *ConfigData) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if cfg.Storage.Backend == "postgres" && cfg.PostgresConnectionString() == "" {
		return fmt.Errorf("%w: postgres storage needs storage.connection-string or database.url", ErrInvalidConfig)
	}
	return nil
}

func loadDotEnv() {
	for _, f := range DotEnvFiles {
		// Missing files are expected.
		_ = godotenv.Load(f)
	}
}
