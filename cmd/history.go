package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/replshell/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or manage the persisted command history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the stored history, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withHistory(cmd, func(h *history.History) error {
			entries := h.Entries()
			width := len(fmt.Sprint(len(entries)))
			for i, e := range entries {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%*d  %s\n", width, i+1, e); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the stored history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withHistory(cmd, func(h *history.History) error {
			n := h.Len()
			if err := h.Clear(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries\n", n)
			return err
		})
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the stored history as JSON or YAML",
	Long:  "Write the stored history to file, or to stdout when no file is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return withHistory(cmd, func(h *history.History) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				f, err := os.Create(args[0]) //nolint:gosec // G304: user-chosen export path
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer func() { _ = f.Close() }()
				out = f
			}
			return exportHistory(out, h.Entries(), format)
		})
	},
}

func init() {
	historyExportCmd.Flags().StringP("format", "f", "json", "output format: json or yaml")
	historyCmd.AddCommand(historyListCmd, historyClearCmd, historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}

func withHistory(cmd *cobra.Command, fn func(*history.History) error) error {
	hist, store, _, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	if err := hist.Restore(cmd.Context()); err != nil {
		return err
	}
	return fn(hist)
}

func exportHistory(w io.Writer, entries []string, format string) error {
	if entries == nil {
		entries = []string{}
	}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown export format %q (want json or yaml)", format)
	}
}
