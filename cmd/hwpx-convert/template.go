// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/hwpx-convert/internal/hwpx"
)

var templateCmd = &cobra.Command{
	Use:   "template <output.hwpx>",
	Short: "Write the built-in blank template",
	Long: `Template writes the built-in A4 template so it can be opened in Hangul,
restyled and passed back with --template.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(args[0]); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to replace it)", args[0])
		}
		if err := hwpx.Blank().Save(args[0]); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", args[0])
		return nil
	},
}

func init() {
	templateCmd.Flags().Bool("force", false, "replace an existing file")
	rootCmd.AddCommand(templateCmd)
}
