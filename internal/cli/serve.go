package cli

import (
	"context"
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gslbridge/pkg/buildinfo"
	"github.com/matzehuels/gslbridge/pkg/config"
	"github.com/matzehuels/gslbridge/pkg/mainthread"
	"github.com/matzehuels/gslbridge/pkg/notify"
	"github.com/matzehuels/gslbridge/pkg/transport"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	port int // overrides the configured listener port
}

// serveCommand creates the serve command. It runs the listener until the
// process is interrupted, driving the main-thread pump on the command's
// goroutine.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the active material on GET /link",
		Long: `Serve the active material of the scene snapshot on http://127.0.0.1:5050/link.

Every request re-reads the snapshot and translates it on the main goroutine.
A {"status":"started"} datagram is sent to the notify port once listening, and
{"status":"stopped"} on shutdown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if opts.port != 0 {
				cfg.Port = opts.port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "listener port (default from config, 5050)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config) error {
	logger := loggerFromContext(ctx)
	if cfg.Scene == "" {
		printWarning("No scene snapshot configured; requests will report that no host is available")
	}

	logger.Debug("starting bridge", "version", buildinfo.String(), "addr", cfg.Addr())
	pump := mainthread.New(cfg.WaitTimeout.Duration)
	collector := c.newCollector(cfg, pump)

	notifier, closeNotifier := newNotifier(cfg)
	defer closeNotifier()

	svc := transport.NewService(cfg.Addr(), transport.NewRouter(collector, logger), notifier, logger)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	printSuccess("Listening on http://%s%s", svc.BoundAddr(), transport.LinkPath)
	if dest := cfg.Destination(); dest != "" {
		printKeyValue("Textures", dest)
	}
	printKeyValue("Notify", cfg.NotifyAddr())
	printDetail("Press Ctrl+C to stop")

	// Requests are served from the pump until interrupted.
	runErr := pump.Run(ctx)

	if err := svc.Stop(context.WithoutCancel(ctx)); err != nil {
		return err
	}
	printSuccess("Stopped")
	if stderrors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

// newNotifier builds the UDP notifier plus the optional Redis mirror. The
// returned func releases the Redis client.
func newNotifier(cfg config.Config) (notify.Notifier, func()) {
	udp := notify.NewUDP(cfg.NotifyAddr())
	if cfg.Redis.Addr == "" {
		return udp, func() {}
	}
	r := notify.NewRedis(cfg.Redis.Addr, cfg.Redis.Channel)
	return notify.Multi{udp, r}, func() { _ = r.Close() }
}
