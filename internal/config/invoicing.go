package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// InvoicingConfig holds operator-tunable invoicing defaults. It lives in its
// own file (invoicing.yml) so deployments can adjust numbering without a
// restart.
type InvoicingConfig struct {
	// DefaultNumberPattern is used when a generation request carries no
	// pattern of its own.
	DefaultNumberPattern string `mapstructure:"defaultNumberPattern"`

	// DefaultCurrency overrides the env-level default when set.
	DefaultCurrency string `mapstructure:"defaultCurrency"`
}

func DefaultInvoicingConfig() InvoicingConfig {
	return InvoicingConfig{
		DefaultNumberPattern: "INV-{YEAR}-{MONTH:00}-{NUMBER:0000}",
		DefaultCurrency:      "EUR",
	}
}

type InvoicingConfigHolder struct {
	current atomic.Value // holds InvoicingConfig
}

func NewInvoicingConfigHolder(log *zap.Logger) (*InvoicingConfigHolder, error) {
	log = log.Named("config.invoicing")
	v := viper.New()

	v.SetConfigName("invoicing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/invara/config") // Volume-mounted config
	v.AddConfigPath("/etc/invara")            // System config
	v.AddConfigPath(".")                      // Current directory (dev mode)

	v.SetEnvPrefix("INVARA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultInvoicingConfig()
		v.SetDefault("invoicing.defaultNumberPattern", defaults.DefaultNumberPattern)
		v.SetDefault("invoicing.defaultCurrency", defaults.DefaultCurrency)
	}

	var cfg InvoicingConfig
	if err := v.UnmarshalKey("invoicing", &cfg); err != nil {
		return nil, err
	}
	if err := validateInvoicingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &InvoicingConfigHolder{}
	holder.current.Store(normalizeInvoicingConfig(cfg))

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		var next InvoicingConfig
		if err := v.UnmarshalKey("invoicing", &next); err != nil {
			log.Warn("invoicing config reload failed", zap.Error(err))
			return
		}
		if err := validateInvoicingConfig(next); err != nil {
			log.Warn("invoicing config reload rejected", zap.Error(err))
			return
		}
		holder.current.Store(normalizeInvoicingConfig(next))
		log.Info("invoicing config reloaded",
			zap.String("default_number_pattern", next.DefaultNumberPattern),
			zap.String("default_currency", next.DefaultCurrency),
		)
	})

	return holder, nil
}

// NewStaticInvoicingConfigHolder wraps a fixed configuration, with no
// file watching. Intended for tests and tooling.
func NewStaticInvoicingConfigHolder(cfg InvoicingConfig) *InvoicingConfigHolder {
	holder := &InvoicingConfigHolder{}
	holder.current.Store(normalizeInvoicingConfig(cfg))
	return holder
}

// Current returns the active invoicing configuration snapshot.
func (h *InvoicingConfigHolder) Current() InvoicingConfig {
	cfg, _ := h.current.Load().(InvoicingConfig)
	return cfg
}

func normalizeInvoicingConfig(cfg InvoicingConfig) InvoicingConfig {
	cfg.DefaultNumberPattern = strings.TrimSpace(cfg.DefaultNumberPattern)
	cfg.DefaultCurrency = strings.ToUpper(strings.TrimSpace(cfg.DefaultCurrency))
	return cfg
}

func validateInvoicingConfig(cfg InvoicingConfig) error {
	if strings.TrimSpace(cfg.DefaultNumberPattern) == "" {
		return errors.New("invoicing.defaultNumberPattern must not be empty")
	}
	currency := strings.TrimSpace(cfg.DefaultCurrency)
	if currency != "" && len(currency) != 3 {
		return errors.New("invoicing.defaultCurrency must be a 3-letter code")
	}
	return nil
}
