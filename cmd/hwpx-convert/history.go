// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/hwpx-convert/internal/journal"
	"github.com/pdiddy/hwpx-convert/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent conversions from the journal",
	Long: `History lists the most recent conversions recorded in the journal,
newest first, as a table, JSON or YAML.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd); err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")

	cfg := journalConfig()
	if cfg.Path == "" {
		return fmt.Errorf("journal is disabled")
	}
	j, err := journal.Open(cfg.Path)
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	return formatHistory(os.Stdout, recs, format)
}

func formatHistory(w io.Writer, recs []types.ConversionRecord, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(recs); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
	default:
		return fmt.Errorf("unsupported format %q: use table, json or yaml", format)
	}

	if len(recs) == 0 {
		fmt.Fprintln(w, "No conversions recorded.")
		return nil
	}
	fmt.Fprintf(w, "%-14s  %-9s  %-40s  %-8s  %s\n", "When", "Status", "Input", "Size", "Detail")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, r := range recs {
		detail := r.Reader
		if r.Status == types.StatusFailed {
			detail = r.Error
		}
		fmt.Fprintf(w, "%-14s  %-9s  %-40s  %-8s  %s\n",
			humanize.Time(r.StartedAt), r.Status, clip(r.InputPath, 40),
			humanize.Bytes(uint64(r.OutputBytes)), clip(detail, 60))
	}
	fmt.Fprintf(w, "\n%d conversions\n", len(recs))
	return nil
}

// clip shortens s to n runes, keeping the tail of long paths.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return "..." + string(r[len(r)-n+3:])
}

func init() {
	historyCmd.Flags().Int("limit", 20, "number of records to show")
	historyCmd.Flags().String("format", "table", "output format: table, json or yaml")
	historyCmd.Flags().String("journal", "", "conversion journal database")

	rootCmd.AddCommand(historyCmd)
}
