package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/hwpx-convert/internal/convert"
	"github.com/pdiddy/hwpx-convert/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> [output.hwpx] [template.hwpx]",
	Short: "Convert one document to HWPX",
	Long: `Convert reads an HTML document (or any format pandoc reads), renders it
into a copy of a blank HWPX template and writes the result. The output
defaults to the input name with a .hwpx extension and an existing output is
replaced unless --overwrite=false is given. The template may be given
as the third argument, with --template, or in the config file; without one
the built-in A4 template is used.`,
	Args: cobra.RangeArgs(1, 3),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd); err != nil {
		return err
	}
	if len(args) == 3 {
		viper.Set("template", args[2])
	}
	cfg := conversionConfig()

	input := args[0]
	output := convert.OutputPath(input, "")
	if len(args) >= 2 {
		output = args[1]
	}

	j := openJournal()
	if j != nil {
		defer j.Close()
	}
	c, err := convert.New(cfg, j)
	if err != nil {
		return err
	}

	res := c.ConvertFile(cmd.Context(), convert.Job{Input: input, Output: output}, false)
	convert.Report(os.Stdout, res)
	if res.Status == types.StatusFailed {
		return fmt.Errorf("converting %s: %w", input, res.Err)
	}
	return nil
}

func init() {
	addConversionFlags(convertCmd, true)
	rootCmd.AddCommand(convertCmd)
}
