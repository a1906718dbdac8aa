package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Urgency  UrgencyConfig  `yaml:"urgency"`
	Snooze   SnoozeConfig   `yaml:"snooze"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Batching BatchingConfig `yaml:"batching"`
	Toasts   ToastConfig    `yaml:"toasts"`
	Staging  StagingConfig  `yaml:"staging"`
	Stations []Station      `yaml:"stations"`
	Menu     []MenuItem     `yaml:"menu"`
}

// ServerConfig holds the listen ports for the API and metrics servers.
type ServerConfig struct {
	Port        int `yaml:"port"`
	MetricsPort int `yaml:"metrics_port"`
}

// UrgencyConfig holds the wait-time thresholds for ticket urgency tiers.
type UrgencyConfig struct {
	WarningMinutes int `yaml:"warning_minutes"`
	UrgentMinutes  int `yaml:"urgent_minutes"`
}

// SnoozeConfig controls snooze eligibility and the wake-up sweep.
type SnoozeConfig struct {
	MaxWaitMinutes int `yaml:"max_wait_minutes"`
	TickSeconds    int `yaml:"tick_seconds"`
}

// ArchiveConfig bounds the completed-order archive.
type ArchiveConfig struct {
	Capacity int `yaml:"capacity"`
}

// BatchingConfig controls batch-suggestion detection.
// DismissalScope is "never_expire" or "session"; with "session", dismissed
// suggestion keys are forgotten when the active order board drains empty.
type BatchingConfig struct {
	MinOrders      int    `yaml:"min_orders"`
	MaxSuggestions int    `yaml:"max_suggestions"`
	DismissalScope string `yaml:"dismissal_scope"`
}

// ToastConfig holds notification toast lifetimes.
type ToastConfig struct {
	NewOrderSeconds int `yaml:"new_order_seconds"`
	ModifiedSeconds int `yaml:"modified_seconds"`
	StockSeconds    int `yaml:"stock_seconds"`
	MaxVisible      int `yaml:"max_visible"`
}

// StagingConfig controls how long a just-arrived ticket stays pinned to the
// top of its column before settling into sorted position.
type StagingConfig struct {
	WindowMillis       int `yaml:"window_ms"`
	ModifiedHighlightS int `yaml:"modified_highlight_seconds"`
}

// Station describes a preparation station.
type Station struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// MenuItem describes a catalog entry used by the 86 board and all-day view.
type MenuItem struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`
	Station  string `yaml:"station" json:"station"`
}

// DismissalScope values for BatchingConfig.
const (
	DismissNeverExpire = "never_expire"
	DismissPerSession  = "session"
)

// Default returns the built-in configuration, matching the thresholds the
// display frontends were designed around.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080, MetricsPort: 9090},
		Urgency: UrgencyConfig{WarningMinutes: 5, UrgentMinutes: 10},
		Snooze:  SnoozeConfig{MaxWaitMinutes: 10, TickSeconds: 1},
		Archive: ArchiveConfig{Capacity: 10},
		Batching: BatchingConfig{
			MinOrders:      3,
			MaxSuggestions: 4,
			DismissalScope: DismissNeverExpire,
		},
		Toasts: ToastConfig{
			NewOrderSeconds: 5,
			ModifiedSeconds: 60,
			StockSeconds:    10,
			MaxVisible:      3,
		},
		Staging: StagingConfig{WindowMillis: 1100, ModifiedHighlightS: 120},
		Stations: []Station{
			{ID: "kitchen", Name: "Kitchen"},
			{ID: "bar", Name: "Bar"},
			{ID: "dessert", Name: "Dessert"},
		},
		Menu: []MenuItem{
			{ID: "burger", Name: "Burger", Category: "Mains", Station: "kitchen"},
			{ID: "caesar-salad", Name: "Caesar Salad", Category: "Starters", Station: "kitchen"},
			{ID: "old-fashioned", Name: "Old Fashioned", Category: "Drinks", Station: "bar"},
			{ID: "cheesecake", Name: "Cheesecake", Category: "Desserts", Station: "dessert"},
		},
	}
}

// Load reads configuration from a YAML file, filling unset fields with
// defaults. A missing file is not an error; the defaults are returned.
//
// Zero-valued numeric fields are treated as unset and take the default, so
// a literal zero is not expressible in the file; negative values are
// rejected by validation.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills every zero-valued field from Default. Zero means
// unset here; fields that must stay positive are checked by validate.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.MetricsPort == 0 {
		c.Server.MetricsPort = def.Server.MetricsPort
	}
	if c.Urgency.WarningMinutes == 0 {
		c.Urgency.WarningMinutes = def.Urgency.WarningMinutes
	}
	if c.Urgency.UrgentMinutes == 0 {
		c.Urgency.UrgentMinutes = def.Urgency.UrgentMinutes
	}
	if c.Snooze.MaxWaitMinutes == 0 {
		c.Snooze.MaxWaitMinutes = def.Snooze.MaxWaitMinutes
	}
	if c.Snooze.TickSeconds == 0 {
		c.Snooze.TickSeconds = def.Snooze.TickSeconds
	}
	if c.Archive.Capacity == 0 {
		c.Archive.Capacity = def.Archive.Capacity
	}
	if c.Batching.MinOrders == 0 {
		c.Batching.MinOrders = def.Batching.MinOrders
	}
	if c.Batching.MaxSuggestions == 0 {
		c.Batching.MaxSuggestions = def.Batching.MaxSuggestions
	}
	if c.Batching.DismissalScope == "" {
		c.Batching.DismissalScope = def.Batching.DismissalScope
	}
	if c.Toasts.NewOrderSeconds == 0 {
		c.Toasts.NewOrderSeconds = def.Toasts.NewOrderSeconds
	}
	if c.Toasts.ModifiedSeconds == 0 {
		c.Toasts.ModifiedSeconds = def.Toasts.ModifiedSeconds
	}
	if c.Toasts.StockSeconds == 0 {
		c.Toasts.StockSeconds = def.Toasts.StockSeconds
	}
	if c.Toasts.MaxVisible == 0 {
		c.Toasts.MaxVisible = def.Toasts.MaxVisible
	}
	if c.Staging.WindowMillis == 0 {
		c.Staging.WindowMillis = def.Staging.WindowMillis
	}
	if c.Staging.ModifiedHighlightS == 0 {
		c.Staging.ModifiedHighlightS = def.Staging.ModifiedHighlightS
	}
	if len(c.Stations) == 0 {
		c.Stations = def.Stations
	}
	if len(c.Menu) == 0 {
		c.Menu = def.Menu
	}
}

func (c *Config) validate() error {
	counts := map[string]int{
		"server.port":                        c.Server.Port,
		"server.metrics_port":                c.Server.MetricsPort,
		"urgency.warning_minutes":            c.Urgency.WarningMinutes,
		"urgency.urgent_minutes":             c.Urgency.UrgentMinutes,
		"snooze.max_wait_minutes":            c.Snooze.MaxWaitMinutes,
		"snooze.tick_seconds":                c.Snooze.TickSeconds,
		"archive.capacity":                   c.Archive.Capacity,
		"batching.min_orders":                c.Batching.MinOrders,
		"batching.max_suggestions":           c.Batching.MaxSuggestions,
		"toasts.new_order_seconds":           c.Toasts.NewOrderSeconds,
		"toasts.modified_seconds":            c.Toasts.ModifiedSeconds,
		"toasts.stock_seconds":               c.Toasts.StockSeconds,
		"toasts.max_visible":                 c.Toasts.MaxVisible,
		"staging.window_ms":                  c.Staging.WindowMillis,
		"staging.modified_highlight_seconds": c.Staging.ModifiedHighlightS,
	}
	for name, v := range counts {
		if v < 0 {
			return fmt.Errorf("%s: must not be negative, got %d", name, v)
		}
	}
	if c.Urgency.WarningMinutes >= c.Urgency.UrgentMinutes {
		return fmt.Errorf("urgency: warning_minutes (%d) must be below urgent_minutes (%d)",
			c.Urgency.WarningMinutes, c.Urgency.UrgentMinutes)
	}
	switch c.Batching.DismissalScope {
	case DismissNeverExpire, DismissPerSession:
	default:
		return fmt.Errorf("batching: unknown dismissal_scope %q", c.Batching.DismissalScope)
	}
	return nil
}

// WarningAfter returns the warning-tier threshold as a duration.
func (c *Config) WarningAfter() time.Duration {
	return time.Duration(c.Urgency.WarningMinutes) * time.Minute
}

// UrgentAfter returns the urgent-tier threshold as a duration.
func (c *Config) UrgentAfter() time.Duration {
	return time.Duration(c.Urgency.UrgentMinutes) * time.Minute
}

// SnoozeMaxWait returns the maximum elapsed wait during which an order may
// still be snoozed.
func (c *Config) SnoozeMaxWait() time.Duration {
	return time.Duration(c.Snooze.MaxWaitMinutes) * time.Minute
}

// StagingWindow returns how long just-arrived tickets stay staged.
func (c *Config) StagingWindow() time.Duration {
	return time.Duration(c.Staging.WindowMillis) * time.Millisecond
}

// ModifiedHighlight returns the read-time modification emphasis window.
func (c *Config) ModifiedHighlight() time.Duration {
	return time.Duration(c.Staging.ModifiedHighlightS) * time.Second
}
