package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gslbridge/pkg/bridge"
	"github.com/matzehuels/gslbridge/pkg/buildinfo"
	"github.com/matzehuels/gslbridge/pkg/config"
	"github.com/matzehuels/gslbridge/pkg/mainthread"
	"github.com/matzehuels/gslbridge/pkg/source"
	"github.com/matzehuels/gslbridge/pkg/source/snapshot"
	"github.com/matzehuels/gslbridge/pkg/translate"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "gslbridge"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string // --config; empty uses config.DefaultPath
	scene      string // --scene; overrides the configured snapshot
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "gslbridge serves shader node graphs to the game engine",
		Long: `gslbridge translates the active material's shader node graph into a JSON
node/link description and serves it to the engine over loopback HTTP.`,
		Version:      buildinfo.Resolved(),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/gslbridge/config.toml)")
	root.PersistentFlags().StringVar(&c.scene, "scene", "", "scene snapshot file (overrides the config)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.texturesCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Collector Factory
// =============================================================================

// resolveConfigPath returns --config or the default location.
func (c *CLI) resolveConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.DefaultPath()
}

// loadConfig reads the config file and applies the --scene override.
func (c *CLI) loadConfig() (config.Config, error) {
	path, err := c.resolveConfigPath()
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if c.scene != "" {
		cfg.Scene = c.scene
	}
	c.Logger.Debug("loaded config", "path", path, "listen", cfg.Addr(), "scene", cfg.Scene)
	return cfg, nil
}

// newCollector wires the snapshot host, translator and optional pump.
// Without a scene the collector reports that no host is available. The
// texture destination re-reads the config file on every request.
func (c *CLI) newCollector(cfg config.Config, pump *mainthread.Pump) *bridge.Collector {
	var host source.Host
	if cfg.Scene != "" {
		host = snapshot.NewFileHost(cfg.Scene)
	}
	col := bridge.NewCollector(host, pump, translate.New(nil, nil, c.Logger), c.Logger)
	col.Destination = cfg.Destination
	if path, err := c.resolveConfigPath(); err == nil {
		col.Destination = cfg.LiveDestination(path)
	}
	return col
}

