// Package conf loads the process configuration from config.yml and ARENAX_
// environment variables.
package conf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/arenax/arenax/internal/eventbus"
	"github.com/arenax/arenax/internal/log"
	"github.com/arenax/arenax/internal/media"
	"github.com/arenax/arenax/internal/metrics"
	"github.com/arenax/arenax/internal/payment"
	"github.com/arenax/arenax/internal/pkg/querycache"
	"github.com/arenax/arenax/internal/pkg/xcache"
	"github.com/arenax/arenax/internal/server"
	"github.com/arenax/arenax/internal/server/api"
	"github.com/arenax/arenax/internal/server/biz"
	"github.com/arenax/arenax/internal/server/db"
)

const EnvPrefix = "ARENAX"

type Config struct {
	fx.Out `yaml:"-" json:"-"`

	APIServer    server.Config       `conf:"server" yaml:"server" json:"server"`
	Log          log.Config          `conf:"log" yaml:"log" json:"log"`
	DB           db.Config           `conf:"db" yaml:"db" json:"db"`
	Cache        xcache.Config       `conf:"cache" yaml:"cache" json:"cache"`
	EventBus     eventbus.Config     `conf:"eventbus" yaml:"eventbus" json:"eventbus"`
	QueryCache   querycache.Options  `conf:"query_cache" yaml:"query_cache" json:"query_cache"`
	Events       api.EventsConfig    `conf:"events" yaml:"events" json:"events"`
	Payment      payment.Config      `conf:"payment" yaml:"payment" json:"payment"`
	MediaStorage media.StorageConfig `conf:"media" yaml:"media" json:"media"`
	MediaClient  media.ClientConfig  `conf:"media_client" yaml:"media_client" json:"media_client"`
	Biz          biz.Config          `conf:"biz" yaml:"biz" json:"biz"`
	Metrics      metrics.Config      `conf:"metrics" yaml:"metrics" json:"metrics"`
}

// Load reads config.yml from ., ./conf or /etc/arenax.
func Load() (Config, error) {
	return LoadFile("")
}

// LoadFile reads the given file instead of searching the default paths.
// A missing config.yml in the default paths is not an error.
func LoadFile(path string) (Config, error) {
	v, err := newViper(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decoderOptions); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, nil
}

// Get returns the raw value of a dotted key, such as server.port.
func Get(path, key string) (any, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}

	if !v.IsSet(key) {
		return nil, fmt.Errorf("unknown config key: %s", key)
	}

	return v.Get(key), nil
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		v.AddConfigPath("./conf")
		v.AddConfigPath("/etc/arenax")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return v, nil
}

func decoderOptions(dc *mapstructure.DecoderConfig) {
	dc.TagName = "conf"
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}
