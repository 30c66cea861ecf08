package app

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tiendapocket/nubesync/pkg/constants"
	"github.com/tiendapocket/nubesync/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string `validate:"omitempty,oneof=table json yaml wide"`

	// Config file
	ConfigFile string

	// Store credentials, only required by commands that talk to the store
	Credentials Credentials

	// Remote API
	BaseURL           string        `validate:"required,url"`
	Timeout           time.Duration `validate:"gt=0"`
	RequestsPerSecond float64       `validate:"gte=0"`
	RequestBurst      int           `validate:"gte=0"`

	// Local exports
	DataDir string `validate:"required"`

	// Reconciliation defaults, overridable per command
	ManagePrice   bool
	ManageStock   bool
	CreateMissing bool
	Orphans       string `validate:"oneof=hide delete keep"`

	// Logging configuration
	LogLevel  string
	LogFormat string `validate:"omitempty,oneof=auto json console pretty"`
	LogOutput string
}

// Credentials authenticate against one store.
type Credentials struct {
	AccessToken string `validate:"required"`
	StoreID     string `validate:"required,numeric"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (NUBESYNC_*, plus ACCESS_TOKEN and USER_ID)
// 3. .env files
// 4. Config file (~/.nubesync.yaml or ./.nubesync.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig("")
}

// loadConfig loads the configuration, reading configFile when it is set
// instead of searching the standard locations.
func loadConfig(configFile string) (*Config, error) {
	// .env files are loaded before viper binds the environment
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, errors.NewConfigError("env", "failed to bind environment variables", err)
	}

	if configFile == "" {
		configFile = v.GetString("config")
	}
	explicit := configFile != ""
	if explicit {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".nubesync")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("file", "failed to read config file", err)
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		Credentials: Credentials{
			AccessToken: strings.TrimSpace(v.GetString("access_token")),
			StoreID:     strings.TrimSpace(v.GetString("store_id")),
		},

		BaseURL:           v.GetString("base_url"),
		Timeout:           v.GetDuration("timeout"),
		RequestsPerSecond: v.GetFloat64("requests_per_second"),
		RequestBurst:      v.GetInt("request_burst"),

		DataDir: v.GetString("data_dir"),

		ManagePrice:   v.GetBool("manage_price"),
		ManageStock:   v.GetBool("manage_stock"),
		CreateMissing: v.GetBool("create_missing"),
		Orphans:       strings.ToLower(v.GetString("orphans")),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", constants.DefaultAPIBaseURL)
	v.SetDefault("timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("requests_per_second", constants.DefaultRequestsPerSecond)
	v.SetDefault("request_burst", constants.DefaultRequestBurst)
	v.SetDefault("data_dir", ".")
	v.SetDefault("manage_price", true)
	v.SetDefault("manage_stock", true)
	v.SetDefault("create_missing", true)
	v.SetDefault("orphans", "hide")
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// bindEnv binds the keys that also answer to unprefixed variables, such as
// the ACCESS_TOKEN and USER_ID pair written to .env by the store setup.
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"access_token": {constants.EnvPrefix + "_ACCESS_TOKEN", "ACCESS_TOKEN"},
		"store_id":     {constants.EnvPrefix + "_STORE_ID", "USER_ID"},
		"log_level":    {constants.EnvPrefix + "_LOG_LEVEL", "LOG_LEVEL"},
		"log_format":   {constants.EnvPrefix + "_LOG_FORMAT", "LOG_FORMAT"},
		"log_output":   {constants.EnvPrefix + "_LOG_OUTPUT", "LOG_OUTPUT"},
		"no-color":     {constants.EnvPrefix + "_NO_COLOR", "NO_COLOR"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the configuration, leaving out the store credentials.
func (c *Config) Validate() error {
	if err := validate.StructExcept(c, "Credentials"); err != nil {
		return configError("config", err)
	}
	return nil
}

// ValidateCredentials checks that the store credentials are present.
func (c *Config) ValidateCredentials() error {
	if err := validate.Struct(c.Credentials); err != nil {
		return configError("credentials", err)
	}
	return nil
}

// configError turns the first validator failure into a ConfigError naming
// the offending field.
func configError(component string, err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errors.NewConfigError(component,
			fe.Namespace()+" failed the '"+fe.Tag()+"' check",
			errors.NewValidationError(fe.Field(), fe.Value(), fe.Error()))
	}
	return errors.NewConfigError(component, err.Error(), err)
}

// UpdateFromFlags updates config values from parsed command flags.
// Flag values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = strings.ToLower(format)
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// Variables already set in the environment win over both files.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
