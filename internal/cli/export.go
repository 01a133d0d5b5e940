package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gslbridge/pkg/errors"
	"github.com/matzehuels/gslbridge/pkg/ir"
	"github.com/matzehuels/gslbridge/pkg/render/nodelink"
)

// Output formats of the export command.
const (
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPNG  = "png"
)

var validFormats = map[string]bool{formatJSON: true, formatDOT: true, formatSVG: true, formatPNG: true}

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	output   string // output file; empty or "-" writes to stdout
	format   string // json (default), dot, svg, png
	detailed bool   // node classes and params in diagram labels
	indent   bool   // indent JSON output
	dest     string // overrides the configured export base dir
	noCopy   bool   // leave image paths absolute
	summary  bool   // print a node table to stderr
}

// exportCommand creates the export command for one-shot translations.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{summary: true}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Translate the active material once and write the result",
		Long: `Translate the active material of the scene snapshot and write it as the
JSON payload served on /link, or as a Graphviz diagram (dot, svg, png).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format == "" {
				opts.format = formatFromPath(opts.output)
			}
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return c.runExport(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json, dot, svg, png (default from --output extension, else json)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node classes and parameters in diagrams")
	cmd.Flags().BoolVar(&opts.indent, "indent", false, "indent JSON output")
	cmd.Flags().StringVar(&opts.dest, "dest", "", "copy textures into this project root")
	cmd.Flags().BoolVar(&opts.noCopy, "no-copy", false, "do not copy textures; keep absolute image paths")
	cmd.Flags().BoolVar(&opts.summary, "summary", opts.summary, "print a node summary to stderr")

	return cmd
}

// validateFormat checks that f is a supported export format.
func validateFormat(f string) error {
	if !validFormats[f] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid format: %s (must be 'json', 'dot', 'svg', or 'png')", f)
	}
	return nil
}

// formatFromPath derives the format from an output file extension.
func formatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if validFormats[ext] {
		return ext
	}
	return formatJSON
}

func (c *CLI) runExport(ctx context.Context, opts *exportOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Scene == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "no scene snapshot: pass --scene or set scene in the config")
	}
	if opts.format == formatPNG && (opts.output == "" || opts.output == "-") && stdoutIsTerminal() {
		return errors.New(errors.ErrCodeInvalidConfig, "refusing to write PNG to a terminal: pass --output")
	}
	if opts.dest != "" {
		cfg.ExportBaseDir = opts.dest
	}
	if opts.noCopy {
		cfg.ExportBaseDir, cfg.ProjectPath = "", ""
	}

	logger.Infof("Exporting %s", cfg.Scene)
	col := c.newCollector(cfg, nil)
	if opts.dest != "" || opts.noCopy {
		col.Destination = cfg.Destination
	}
	res, err := col.Gather(ctx)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	data, err := renderResult(res, opts.format, opts.detailed, opts.indent)
	if err != nil {
		return err
	}
	prog.done("Rendered " + opts.format)

	if err := writeOutput(opts.output, data); err != nil {
		return err
	}
	if opts.summary {
		printResultSummary(os.Stderr, res)
	}
	if opts.output != "" && opts.output != "-" {
		printSuccess("Exported material '%s'", res.Material)
		printFile(opts.output)
	}
	return nil
}

// renderResult encodes res in the given format.
func renderResult(res *ir.Result, format string, detailed, indent bool) ([]byte, error) {
	switch format {
	case formatJSON:
		var buf bytes.Buffer
		if err := ir.Write(ir.Payload{Result: res}, &buf, indent); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case formatDOT:
		return []byte(nodelink.ToDOT(res, nodelink.Options{Detailed: detailed})), nil
	case formatSVG:
		return nodelink.RenderSVG(nodelink.ToDOT(res, nodelink.Options{Detailed: detailed}))
	case formatPNG:
		return nodelink.RenderPNG(nodelink.ToDOT(res, nodelink.Options{Detailed: detailed}))
	}
	return nil, fmt.Errorf("unknown format: %s", format)
}

// writeOutput writes data to path, or to stdout when path is empty or "-".
func writeOutput(path string, data []byte) error {
	var w io.Writer = os.Stdout
	if path != "" && path != "-" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	_, err := w.Write(data)
	return err
}

// stdoutIsTerminal reports whether stdout is a character device.
func stdoutIsTerminal() bool {
	fi, err := os.Stdout.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
