// Package config loads the bridge settings from a TOML file.
//
// All fields are optional. A missing file yields [Defaults]:
//
//	host = "127.0.0.1"
//	port = 5050
//	notify_host = "127.0.0.1"
//	notify_port = 6020
//	godot_project_path = "/home/me/games/demo"
//	wait_timeout = "10s"
//
//	[redis]
//	addr = "127.0.0.1:6379"
//	channel = "gslbridge:status"
//
// The export destination is resolved by [Config.Destination]: an explicit
// override (export_base_dir or GSL_EXPORT_BASE_DIR) wins over the persisted
// project path; when both are empty textures are not copied.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gslbridge/pkg/errors"
)

const appName = "gslbridge"

// Defaults for the listener and the status notification.
const (
	DefaultHost       = "127.0.0.1"
	DefaultPort       = 5050
	DefaultNotifyHost = "127.0.0.1"
	DefaultNotifyPort = 6020
	DefaultChannel    = "gslbridge:status"
)

// EnvExportBaseDir overrides the export destination.
const EnvExportBaseDir = "GSL_EXPORT_BASE_DIR"

// Config holds the bridge settings.
type Config struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	NotifyHost string `toml:"notify_host"`
	NotifyPort int    `toml:"notify_port"`

	// ProjectPath is the persisted engine project root.
	ProjectPath string `toml:"godot_project_path"`
	// ExportBaseDir overrides ProjectPath when set.
	ExportBaseDir string `toml:"export_base_dir"`

	// Scene is the snapshot file the serve and export commands read.
	Scene string `toml:"scene"`

	// WaitTimeout bounds how long a request waits for the main thread.
	// Zero waits indefinitely.
	WaitTimeout Duration `toml:"wait_timeout"`

	Redis Redis `toml:"redis"`
}

// Redis configures the optional status mirror. Empty Addr disables it.
type Redis struct {
	Addr    string `toml:"addr"`
	Channel string `toml:"channel"`
}

// Duration is a time.Duration written as a string ("1.5s") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		d.Duration = 0
		return nil
	}
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	if d.Duration == 0 {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

// Defaults returns a config with every default applied.
func Defaults() Config {
	c := Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills zero fields with their defaults.
func (c *Config) SetDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.NotifyHost == "" {
		c.NotifyHost = DefaultNotifyHost
	}
	if c.NotifyPort == 0 {
		c.NotifyPort = DefaultNotifyPort
	}
	if c.Redis.Addr != "" && c.Redis.Channel == "" {
		c.Redis.Channel = DefaultChannel
	}
}

// Validate checks the listener and notification endpoints.
func (c *Config) Validate() error {
	if err := errors.ValidateLoopbackHost(c.Host); err != nil {
		return err
	}
	if err := errors.ValidatePort("port", c.Port); err != nil {
		return err
	}
	if err := errors.ValidateLoopbackHost(c.NotifyHost); err != nil {
		return err
	}
	if err := errors.ValidatePort("notify_port", c.NotifyPort); err != nil {
		return err
	}
	if c.WaitTimeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "wait_timeout cannot be negative")
	}
	return nil
}

// Addr returns the listener address.
func (c *Config) Addr() string {
	return joinHostPort(c.Host, c.Port)
}

// NotifyAddr returns the status notification address.
func (c *Config) NotifyAddr() string {
	return joinHostPort(c.NotifyHost, c.NotifyPort)
}

func joinHostPort(host string, port int) string {
	return host + ":" + strconv.Itoa(port)
}

// Destination returns the directory textures are copied into.
func (c *Config) Destination() string {
	return DestinationResolver{Override: c.ExportBaseDir, Preference: c.ProjectPath}.Resolve()
}

// LiveDestination returns a func that re-reads the settings at path on every
// call, so a project path saved while the bridge runs applies to the next
// request. GSL_EXPORT_BASE_DIR still wins. If the file cannot be read the
// values in c are used.
func (c Config) LiveDestination(path string) func() string {
	return func() string {
		fresh, err := Read(path)
		if err != nil {
			return c.Destination()
		}
		override := fresh.ExportBaseDir
		if v := os.Getenv(EnvExportBaseDir); v != "" {
			override = v
		}
		return DestinationResolver{Override: override, Preference: fresh.ProjectPath}.Resolve()
	}
}

// DestinationResolver picks the export destination.
type DestinationResolver struct {
	Override   string
	Preference string
}

// Resolve returns Override, then Preference, then "".
func (r DestinationResolver) Resolve() string {
	if r.Override != "" {
		return r.Override
	}
	return r.Preference
}

// =============================================================================
// Loading
// =============================================================================

// Parse decodes TOML data on top of the zero config, applies environment
// overrides and defaults, and validates the result.
func Parse(data []byte) (Config, error) {
	c, err := decode(data)
	if err != nil {
		return Config{}, err
	}
	return finish(c)
}

// Load reads the config at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	c, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	return finish(c)
}

// Read decodes the file at path as written, without defaults or
// environment overrides. A missing file yields the zero config.
func Read(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return decode(data)
}

func decode(data []byte) (Config, error) {
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	return c, nil
}

func finish(c Config) (Config, error) {
	if v := os.Getenv(EnvExportBaseDir); v != "" {
		c.ExportBaseDir = v
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Save writes c to path, creating parent directories.
func Save(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "create config dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "create config")
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "encode config")
	}
	return nil
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/gslbridge/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
