package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gslbridge/pkg/errors"
	"github.com/matzehuels/gslbridge/pkg/ir"
)

// inspectCommand creates the inspect command. It browses either a fresh
// translation of the scene snapshot or a previously exported JSON payload.
func (c *CLI) inspectCommand() *cobra.Command {
	var irFile string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Browse a translation interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.loadResult(cmd.Context(), irFile)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(NewNodeListModel(res), tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&irFile, "ir", "", "exported JSON payload to browse instead of the scene snapshot")
	return cmd
}

// loadResult reads an exported payload, or translates the configured scene.
func (c *CLI) loadResult(ctx context.Context, irFile string) (*ir.Result, error) {
	if irFile != "" {
		p, err := ir.ReadPayloadFile(irFile)
		if err != nil {
			return nil, err
		}
		if !p.OK() {
			return nil, errors.New(errors.ErrCodeInvalidScene, "payload carries an error: %s", p.Error)
		}
		return p.Result, nil
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Scene == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no scene snapshot: pass --scene, --ir or set scene in the config")
	}
	col := c.newCollector(cfg, nil)
	// Browsing must not touch the project's texture folder.
	col.Destination = nil
	return col.Gather(ctx)
}
