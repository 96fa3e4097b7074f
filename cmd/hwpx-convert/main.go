// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the hwpx-convert CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/hwpx-convert/internal/logx"
	"github.com/pdiddy/hwpx-convert/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the hwpx-convert CLI.
var rootCmd = &cobra.Command{
	Use:   "hwpx-convert",
	Short: "Convert HTML and other documents into HWPX",
	Long: `hwpx-convert fills a blank HWPX template with the content of HTML
documents (and, through pandoc, Markdown, DOCX, ODT and friends). Colours,
fonts, tables, lists, images and links are carried over as native Hangul
formatting.

Convert one file with "convert", many with "batch". Past runs are kept in a
local journal shown by "history".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
			viper.Set("log_level", f.Value.String())
		}
		logx.Configure(viper.GetString("log_level"))

		s, err := secrets.Load(secrets.DefaultDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logx.Log.Info().Strs("keys", keys).Msg("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./hwpx-convert.yaml or ~/.config/hwpx-convert/hwpx-convert.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default warn)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("hwpx-convert")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "hwpx-convert"))
		}
	}

	viper.SetEnvPrefix("HWPX_CONVERT")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		logx.Log.Info().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
