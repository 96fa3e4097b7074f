// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/hwpx-convert/internal/convert"
	"github.com/pdiddy/hwpx-convert/internal/logx"
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir|file>...",
	Short: "Convert many documents to HWPX in parallel",
	Long: `Batch converts every input file, walking directories for files with the
selected extensions (.html and .htm by default). Outputs go next to their
inputs, or under --out-dir keeping the directory layout. Existing outputs are
skipped unless --overwrite is set. With --incremental, outputs a recorded
run wrote are reconverted only when their input or template changed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd); err != nil {
		return err
	}
	cfg := batchConfig()

	jobs, err := convert.PlanJobs(args, cfg.OutDir, cfg.Extensions)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Fprintln(os.Stdout, "No input files found.")
		return nil
	}

	j := openJournal()
	if j != nil {
		defer j.Close()
	}
	incremental := cfg.Incremental
	if incremental && j == nil {
		logx.Log.Warn().Msg("--incremental needs the journal; converting everything")
	}

	c, err := convert.New(cfg.ConversionConfig, j)
	if err != nil {
		return err
	}
	result := c.ConvertBatch(cmd.Context(), jobs, cfg.Workers, incremental, os.Stdout)
	if result.HasFailures() {
		logx.Log.Debug().Err(result.Err).Msg("batch failures")
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}

func init() {
	addConversionFlags(batchCmd, false)
	batchCmd.Flags().String("out-dir", "", "directory for outputs (default: next to each input)")
	batchCmd.Flags().Int("workers", 0, "parallel conversions (default: number of CPUs)")
	batchCmd.Flags().StringSlice("ext", nil, "input extensions when walking directories (default .html,.htm)")
	batchCmd.Flags().Bool("incremental", false, "skip inputs unchanged since the last recorded conversion")

	rootCmd.AddCommand(batchCmd)
}
