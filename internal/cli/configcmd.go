package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gslbridge/pkg/config"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit the bridge settings",
	}

	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configSetProjectCommand())

	return cmd
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolveConfigPath()
			if err != nil {
				return fmt.Errorf("get config path: %w", err)
			}
			fmt.Println(path)
			return nil
		},
	}
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			printKeyValue("Listen", cfg.Addr())
			printKeyValue("Notify", cfg.NotifyAddr())
			printKeyValue("Scene", orNone(cfg.Scene))
			printKeyValue("Project", orNone(cfg.ProjectPath))
			printKeyValue("Override", orNone(cfg.ExportBaseDir))
			printKeyValue("Textures", orNone(cfg.Destination()))
			timeout := "none"
			if cfg.WaitTimeout.Duration > 0 {
				timeout = cfg.WaitTimeout.String()
			}
			printKeyValue("Wait", timeout)
			if cfg.Redis.Addr != "" {
				printKeyValue("Redis", cfg.Redis.Addr+" "+strconv.Quote(cfg.Redis.Channel))
			}
			return nil
		},
	}
}

// configSetProjectCommand creates the "config set-project" subcommand. It
// persists the engine project root textures are copied into.
func (c *CLI) configSetProjectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-project <dir>",
		Short: "Persist the engine project path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolveConfigPath()
			if err != nil {
				return err
			}
			dir, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			cfg, err := config.Read(path)
			if err != nil {
				return err
			}
			cfg.ProjectPath = dir
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			printSuccess("Project path set to %s", dir)
			printFile(path)
			if cfg.ExportBaseDir != "" {
				printWarning("export_base_dir (%s) still takes precedence", cfg.ExportBaseDir)
			}
			return nil
		},
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
