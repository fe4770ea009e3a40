package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// APISettings are the runtime-tunable API knobs. They live in a config file
// rather than the environment so operators can adjust them without a restart.
type APISettings struct {
	Listing ListingSettings `mapstructure:"listing"`
}

// ListingSettings bounds the window accepted by collection endpoints.
type ListingSettings struct {
	DefaultLimit int `mapstructure:"defaultLimit"`
	MaxLimit     int `mapstructure:"maxLimit"`
}

func DefaultAPISettings() APISettings {
	return APISettings{
		Listing: ListingSettings{
			DefaultLimit: 10,
			MaxLimit:     100,
		},
	}
}

type APISettingsHolder struct {
	current atomic.Value // holds APISettings
}

func NewAPISettingsHolder() (*APISettingsHolder, error) {
	v := viper.New()

	v.SetConfigName("api")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/crm/config") // Volume-mounted config
	v.AddConfigPath("/etc/crm")            // System config
	v.AddConfigPath(".")                   // Current directory (dev mode)

	v.SetEnvPrefix("CRM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultAPISettings()
	v.SetDefault("api.listing.defaultLimit", defaults.Listing.DefaultLimit)
	v.SetDefault("api.listing.maxLimit", defaults.Listing.MaxLimit)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// no config file: run on defaults
	}

	var cfg APISettings
	if err := v.UnmarshalKey("api", &cfg); err != nil {
		return nil, err
	}
	if err := validateAPISettings(cfg); err != nil {
		return nil, err
	}

	holder := &APISettingsHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated APISettings
		if err := v.UnmarshalKey("api", &updated); err != nil {
			log.Printf("[api-config] reload failed: %v", err)
			return
		}
		if err := validateAPISettings(updated); err != nil {
			log.Printf("[api-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[api-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// StaticAPISettings pins a holder to cfg. It never reloads; use
// NewAPISettingsHolder for the file-backed holder.
func StaticAPISettings(cfg APISettings) *APISettingsHolder {
	holder := &APISettingsHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *APISettingsHolder) Get() APISettings {
	return h.current.Load().(APISettings)
}

func validateAPISettings(cfg APISettings) error {
	if cfg.Listing.DefaultLimit < 1 {
		return errors.New("api.listing.defaultLimit must be at least 1")
	}
	if cfg.Listing.MaxLimit < cfg.Listing.DefaultLimit {
		return errors.New("api.listing.maxLimit must be at least the default limit")
	}
	return nil
}
