package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gslbridge/pkg/assets"
	"github.com/matzehuels/gslbridge/pkg/errors"
)

// texturesCommand creates the texture management command.
func (c *CLI) texturesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "textures",
		Short: "Manage textures copied into the engine project",
	}

	cmd.AddCommand(c.texturesPathCommand())
	cmd.AddCommand(c.texturesListCommand())
	cmd.AddCommand(c.texturesClearCommand())

	return cmd
}

// textureRoot returns the configured export destination.
func (c *CLI) textureRoot() (string, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return "", err
	}
	root := cfg.Destination()
	if root == "" {
		return "", errors.New(errors.ErrCodeInvalidConfig,
			"no export destination: set godot_project_path, export_base_dir or GSL_EXPORT_BASE_DIR")
	}
	return root, nil
}

// texturesPathCommand creates the "textures path" subcommand.
func (c *CLI) texturesPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path [material]",
		Short: "Print the texture directory (optionally for one material)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := c.textureRoot()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				fmt.Println(assets.Dir(root, args[0]))
				return nil
			}
			fmt.Println(assets.Root(root))
			return nil
		},
	}
}

// texturesListCommand creates the "textures list" subcommand.
func (c *CLI) texturesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List copied textures as res:// paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := c.textureRoot()
			if err != nil {
				return err
			}
			files, err := assets.List(root)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				printInfo("No textures copied")
				return nil
			}
			for _, f := range files {
				fmt.Println(assets.ResPrefix + f)
			}
			printDetail("%d textures under %s", len(files), root)
			return nil
		},
	}
}

// texturesClearCommand creates the "textures clear" subcommand.
func (c *CLI) texturesClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all copied textures",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := c.textureRoot()
			if err != nil {
				return err
			}
			count, err := assets.Clear(root)
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("No textures to clear")
				return nil
			}
			printSuccess("Cleared %d textures", count)
			printDetail("Directory: %s", root)
			return nil
		},
	}
}
