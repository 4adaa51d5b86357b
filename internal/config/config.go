// Package config resolves settings from the environment and the config.toml
// file in the observation home directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	homeDirName    = ".observation-displayer"
	configFileName = "config.toml"

	DriverSQLite = "sqlite"
	DriverTOML   = "toml"
)

const (
	KeyStorageDriver     = "storage.driver"
	KeyStoragePath       = "storage.path"
	KeyCallbackNamespace = "callback.namespace"
	KeyCallbackRate      = "callback.rate"
	KeyCallbackBurst     = "callback.burst"
	KeySweepInterval     = "sweep.interval"
	KeyStoreTimeout      = "persistence.store-timeout"
	KeyPageSize          = "listing.page-size"
	KeyDefaultExpiration = "observe.default-expiration"
	KeyGuidedExpiration  = "guided.expiration"
	KeyGuidedMaxLength   = "guided.max-length"
	KeyTemplatesPath     = "templates.path"
	KeyTemplatesWatch    = "templates.watch"
	KeyMarkerRise        = "marker.rise"
	KeyMarkerForward     = "marker.forward"
	KeyMetricsAddr       = "metrics.addr"
	KeyDebug             = "debug"
)

// Env holds the settings read before any file is opened.
type Env struct {
	Home       string `env:"OBS_HOME"`
	ConfigFile string `env:"OBS_CONFIG"`
	Debug      bool   `env:"OBS_DEBUG"`
	LogFormat  string `env:"OBS_LOG_FORMAT" envDefault:"text"`
}

type Config struct {
	Home       string
	ConfigFile string
	Debug      bool
	LogFormat  string `validate:"oneof=text json"`

	StorageDriver string `validate:"required"`
	StoragePath   string `validate:"required"`

	CallbackNamespace string  `validate:"required,alphanum,lowercase"`
	CallbackRate      float64 `validate:"min=0"`
	CallbackBurst     int     `validate:"min=0"`

	SweepInterval     time.Duration `validate:"gt=0"`
	StoreTimeout      time.Duration `validate:"gt=0"`
	PageSize          int           `validate:"min=1,max=100"`
	DefaultExpiration time.Duration `validate:"min=0"`

	GuidedExpiration time.Duration `validate:"min=0"`
	GuidedMaxLength  int           `validate:"min=1"`

	TemplatesPath  string
	TemplatesWatch bool

	MarkerRise    float64
	MarkerForward float64

	MetricsAddr string

	// Viper carries the resolved settings for adapters that read their own
	// keys.
	Viper *viper.Viper `validate:"-"`
}

var validate = validator.New()

// Load reads the environment, then the config file. A missing config file
// is not an error.
func Load() (Config, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return FromEnv(e)
}

func FromEnv(e Env) (Config, error) {
	home := e.Home
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
		home = filepath.Join(userHome, homeDirName)
	}

	if e.LogFormat == "" {
		e.LogFormat = "text"
	}

	configFile := e.ConfigFile
	if configFile == "" {
		configFile = filepath.Join(home, configFileName)
	}

	v := viper.New()
	setDefaults(v, home)
	v.SetConfigFile(configFile)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil && !isMissingConfig(err) {
		return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
	}
	if e.Debug {
		v.Set(KeyDebug, true)
	}

	driver := strings.ToLower(strings.TrimSpace(v.GetString(KeyStorageDriver)))
	if driver != DriverSQLite && driver != DriverTOML {
		return Config{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedDriver, driver)
	}
	v.Set(KeyStorageDriver, driver)
	if strings.TrimSpace(v.GetString(KeyStoragePath)) == "" {
		v.Set(KeyStoragePath, defaultStoragePath(home, driver))
	}

	cfg := Config{
		Home:              home,
		ConfigFile:        configFile,
		Debug:             v.GetBool(KeyDebug),
		LogFormat:         strings.ToLower(e.LogFormat),
		StorageDriver:     driver,
		StoragePath:       v.GetString(KeyStoragePath),
		CallbackNamespace: v.GetString(KeyCallbackNamespace),
		CallbackRate:      v.GetFloat64(KeyCallbackRate),
		CallbackBurst:     v.GetInt(KeyCallbackBurst),
		SweepInterval:     v.GetDuration(KeySweepInterval),
		StoreTimeout:      v.GetDuration(KeyStoreTimeout),
		PageSize:          v.GetInt(KeyPageSize),
		DefaultExpiration: v.GetDuration(KeyDefaultExpiration),
		GuidedExpiration:  v.GetDuration(KeyGuidedExpiration),
		GuidedMaxLength:   v.GetInt(KeyGuidedMaxLength),
		TemplatesPath:     v.GetString(KeyTemplatesPath),
		TemplatesWatch:    v.GetBool(KeyTemplatesWatch),
		MarkerRise:        v.GetFloat64(KeyMarkerRise),
		MarkerForward:     v.GetFloat64(KeyMarkerForward),
		MetricsAddr:       v.GetString(KeyMetricsAddr),
		Viper:             v,
	}

	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return Config{}, fmt.Errorf("invalid config: %s failed %q", fieldErrs[0].Field(), fieldErrs[0].Tag())
		}
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, home string) {
	v.SetDefault(KeyStorageDriver, DriverSQLite)
	v.SetDefault(KeyCallbackNamespace, "observe")
	v.SetDefault(KeyCallbackRate, 5.0)
	v.SetDefault(KeyCallbackBurst, 10)
	v.SetDefault(KeySweepInterval, time.Minute)
	v.SetDefault(KeyStoreTimeout, 10*time.Second)
	v.SetDefault(KeyPageSize, 10)
	v.SetDefault(KeyDefaultExpiration, time.Duration(0))
	v.SetDefault(KeyGuidedExpiration, time.Duration(0))
	v.SetDefault(KeyGuidedMaxLength, 64)
	v.SetDefault(KeyTemplatesPath, filepath.Join(home, "templates.yaml"))
	v.SetDefault(KeyTemplatesWatch, true)
	v.SetDefault(KeyMarkerRise, 3.0)
	v.SetDefault(KeyMarkerForward, 2.0)
	v.SetDefault(KeyMetricsAddr, "")
	v.SetDefault(KeyDebug, false)
}

func defaultStoragePath(home, driver string) string {
	if driver == DriverTOML {
		return filepath.Join(home, "observations.toml")
	}
	return filepath.Join(home, "observations.db")
}

func isMissingConfig(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}
