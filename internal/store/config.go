package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"sdui-cli/internal/format"
)

const configFileName = "config.toml"

// Config holds user preferences. Values come from config.toml in ConfigDir,
// overridden by SDUI_* environment variables (SDUI_LOG_LEVEL, ...).
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Log     LogConfig     `mapstructure:"log"`
	Output  OutputConfig  `mapstructure:"output"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Web     WebConfig     `mapstructure:"web"`
}

type CatalogConfig struct {
	// Path is the catalog directory (holds catalog.sqlite). Empty means
	// <ConfigDir>/catalog.
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	// Level is one of debug|info|warn|error.
	Level string `mapstructure:"level"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
	Pretty bool   `mapstructure:"pretty"`
}

type TUIConfig struct {
	Markdown bool `mapstructure:"markdown"`
	// DebugLog names a file for TUI logs; the alt screen owns stderr.
	DebugLog string `mapstructure:"debugLog"`
}

type WebConfig struct {
	Addr string `mapstructure:"addr"`
}

var configDefaults = map[string]any{
	"catalog.path":  "",
	"log.level":     "warn",
	"output.format": "text",
	"output.pretty": false,
	"tui.markdown":  true,
	"tui.debugLog":  "",
	"web.addr":      "127.0.0.1:8765",
}

// ConfigKeys lists every key accepted by Config.Set, sorted.
func ConfigKeys() []string {
	out := make([]string, 0, len(configDefaults))
	for k := range configDefaults {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.sdui).
	if v := strings.TrimSpace(os.Getenv("SDUI_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".sdui"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, def := range configDefaults {
		v.SetDefault(k, def)
	}
	v.SetConfigType("toml")
	v.SetEnvPrefix("SDUI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only covers keys viper already knows; the camelCase key
	// needs an explicit name.
	_ = v.BindEnv("tui.debugLog", "SDUI_DEBUG_LOG")
	return v
}

// LoadConfig reads the config file if present. A missing file yields the
// defaults.
func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	// Keep a copy of the previous file so an accidental overwrite is
	// recoverable.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = WriteFileAtomic(path+".bak", prev, 0o644)
	}

	v := viper.New()
	v.SetConfigType("toml")
	for _, k := range ConfigKeys() {
		val, _ := cfg.Get(k)
		v.Set(k, val)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Get returns the value for a dotted key.
func (c *Config) Get(key string) (any, bool) {
	switch key {
	case "catalog.path":
		return c.Catalog.Path, true
	case "log.level":
		return c.Log.Level, true
	case "output.format":
		return c.Output.Format, true
	case "output.pretty":
		return c.Output.Pretty, true
	case "tui.markdown":
		return c.TUI.Markdown, true
	case "tui.debugLog":
		return c.TUI.DebugLog, true
	case "web.addr":
		return c.Web.Addr, true
	}
	return nil, false
}

// Set parses raw for a dotted key and stores it.
func (c *Config) Set(key, raw string) error {
	raw = strings.TrimSpace(raw)
	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return false, fmt.Errorf("%s: expected true|false, got %q", key, raw)
		}
		return b, nil
	}
	switch key {
	case "catalog.path":
		c.Catalog.Path = raw
	case "log.level":
		switch strings.ToLower(raw) {
		case "debug", "info", "warn", "error":
			c.Log.Level = strings.ToLower(raw)
		default:
			return fmt.Errorf("log.level: expected debug|info|warn|error, got %q", raw)
		}
	case "output.format":
		f := strings.ToLower(raw)
		if !format.Valid(f) {
			return fmt.Errorf("output.format: expected text|json|edn|yaml, got %q", raw)
		}
		c.Output.Format = f
	case "output.pretty":
		b, err := parseBool()
		if err != nil {
			return err
		}
		c.Output.Pretty = b
	case "tui.markdown":
		b, err := parseBool()
		if err != nil {
			return err
		}
		c.TUI.Markdown = b
	case "tui.debugLog":
		c.TUI.DebugLog = raw
	case "web.addr":
		c.Web.Addr = raw
	default:
		return fmt.Errorf("unknown config key: %q (known: %s)", key, strings.Join(ConfigKeys(), ", "))
	}
	return nil
}

// CatalogDir resolves the catalog directory, defaulting under ConfigDir.
func (c *Config) CatalogDir() (string, error) {
	if p := strings.TrimSpace(c.Catalog.Path); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "catalog"), nil
}
