package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ayusman/gestura/internal/engine"
	"github.com/ayusman/gestura/internal/gesture"
)

func newListCmd(opts *options) *cobra.Command {
	var channel string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered gestures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withEngine(func(e *engine.Engine) error {
				gestures := e.Gestures()
				if channel != "" {
					c, err := gesture.ParseChannel(channel)
					if err != nil {
						return err
					}
					gestures = e.GesturesByChannel(c)
				}
				return printGestures(cmd, gestures)
			})
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "", "only enabled gestures of this channel (Mouse, Trackpad, Touch, Rocker, Wheel)")
	return cmd
}

func printGestures(cmd *cobra.Command, gestures []gesture.Gesture) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCHANNEL\tPATTERN\tACTION\tENABLED\tUSES")
	for _, g := range gestures {
		dirs := make([]string, len(g.Pattern.Directions))
		for i, d := range g.Pattern.Directions {
			dirs[i] = string(d)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\t%d\n",
			g.ID, g.Name, g.Channel, strings.Join(dirs, ","), g.Action, g.Enabled, g.UsageCount)
	}
	return w.Flush()
}

// formatFor picks the codec from the flag, falling back to the file extension.
func formatFor(flag, path string) (gesture.Format, error) {
	if flag == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			return gesture.FormatYAML, nil
		}
	}
	return gesture.ParseFormat(flag)
}

func newExportCmd(opts *options) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export custom gestures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := formatFor(format, output)
			if err != nil {
				return err
			}
			return opts.withEngine(func(e *engine.Engine) error {
				data, err := e.ExportGestures(f)
				if err != nil {
					return fmt.Errorf("failed to export gestures: %w", err)
				}
				if output == "" {
					_, err := cmd.OutOrStdout().Write(data)
					return err
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "exported to %s\n", output)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "output format (json, yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func newImportCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import gestures as new custom gestures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := formatFor(format, path)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			return opts.withEngine(func(e *engine.Engine) error {
				imported, err := e.ImportGestures(data, f)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d gestures\n", len(imported))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "input format (json, yaml); defaults to the file extension")
	return cmd
}

func newResetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the builtin gestures to their defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withEngine(func(e *engine.Engine) error {
				e.ResetGestures()
				fmt.Fprintln(cmd.OutOrStdout(), "builtin gestures restored")
				return nil
			})
		},
	}
}

func newPresetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "preset NAME",
		Short:     "Load a browser preset pack",
		Long:      "Load a browser preset pack. Available packs: " + strings.Join(gesture.PresetNames(), ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: gesture.PresetNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withEngine(func(e *engine.Engine) error {
				loaded, err := e.LoadPreset(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "loaded %d gestures from %s\n", len(loaded), args[0])
				return nil
			})
		},
	}
}
