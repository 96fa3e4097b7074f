// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/hwpx-convert/internal/convert"
	"github.com/pdiddy/hwpx-convert/internal/journal"
	"github.com/pdiddy/hwpx-convert/internal/secrets"
	"github.com/pdiddy/hwpx-convert/pkg/types"
)

// tokenEnv overrides the image token secret.
const tokenEnv = "HWPX_CONVERT_IMAGE_TOKEN"

// flagKeys maps command flags to config keys.
var flagKeys = map[string]string{
	"template":       "template",
	"fontmap":        "fontmap",
	"reader":         "reader",
	"encoding":       "encoding",
	"links":          "links",
	"overwrite":      "overwrite",
	"images":         "images.embed",
	"remote-images":  "images.remote",
	"image-timeout":  "images.timeout",
	"max-image-size": "images.max_bytes",
	"pandoc":         "pandoc.binary",
	"pandoc-image":   "pandoc.image",
	"journal":        "journal",
	"out-dir":        "out_dir",
	"workers":        "workers",
	"ext":            "extensions",
	"incremental":    "incremental",
}

func setDefaults() {
	viper.SetDefault("reader", string(types.ReaderAuto))
	viper.SetDefault("links", true)
	viper.SetDefault("images.embed", true)
	viper.SetDefault("images.remote", false)
	viper.SetDefault("images.timeout", 30*time.Second)
	viper.SetDefault("images.max_retries", 3)
	viper.SetDefault("journal", journal.DefaultPath)
	viper.SetDefault("log_level", "warn")
}

// bindFlags binds the flags cmd defines to their config keys. Binding
// happens per invocation because several commands share flag names.
func bindFlags(cmd *cobra.Command) error {
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

// addConversionFlags registers the flags shared by convert and batch.
// overwrite is the --overwrite default: a named single output is replaced,
// batch outputs are kept.
func addConversionFlags(cmd *cobra.Command, overwrite bool) {
	cmd.Flags().String("template", "", "blank HWPX template (default: built-in A4 template)")
	cmd.Flags().String("fontmap", "", "YAML font map overlaying the built-in one")
	cmd.Flags().String("reader", "auto", "input reader: auto, html or pandoc")
	cmd.Flags().String("encoding", "", "HTML character set, e.g. euc-kr (default: detect)")
	cmd.Flags().Bool("links", true, "keep hyperlinks as HWP fields")
	cmd.Flags().Bool("overwrite", overwrite, "replace existing outputs")
	cmd.Flags().Bool("images", true, "embed images; otherwise use their alt text")
	cmd.Flags().Bool("remote-images", false, "download http(s) images")
	cmd.Flags().Duration("image-timeout", 0, "HTTP timeout for image downloads (default 30s)")
	cmd.Flags().Int64("max-image-size", 0, "largest image to embed in bytes (default 20 MiB)")
	cmd.Flags().String("pandoc", "", "pandoc binary (default: pandoc on PATH)")
	cmd.Flags().String("pandoc-image", "", "pandoc container image when no binary is found")
	cmd.Flags().String("journal", "", "conversion journal database, \"off\" to disable")
}

// conversionConfig resolves flags, config file and environment.
func conversionConfig() types.ConversionConfig {
	timeout := viper.GetDuration("images.timeout")
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return types.ConversionConfig{
		Template:  viper.GetString("template"),
		FontMap:   viper.GetString("fontmap"),
		Reader:    types.ReaderKind(strings.ToLower(viper.GetString("reader"))),
		Encoding:  viper.GetString("encoding"),
		Links:     viper.GetBool("links"),
		Overwrite: viper.GetBool("overwrite"),
		Images: types.ImageConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:    timeout,
				MaxRetries: viper.GetInt("images.max_retries"),
			},
			Embed:    viper.GetBool("images.embed"),
			Remote:   viper.GetBool("images.remote"),
			MaxBytes: viper.GetInt64("images.max_bytes"),
			Token:    secrets.Lookup(loadedSecrets, secrets.ImageAuthToken, tokenEnv),
		},
		Pandoc: types.PandocConfig{
			Binary: viper.GetString("pandoc.binary"),
			Image:  viper.GetString("pandoc.image"),
		},
	}
}

// batchConfig extends conversionConfig with the batch-only settings.
func batchConfig() types.BatchConfig {
	exts := viper.GetStringSlice("extensions")
	if len(exts) == 0 {
		exts = convert.DefaultExtensions
	}
	return types.BatchConfig{
		ConversionConfig: conversionConfig(),
		OutDir:           viper.GetString("out_dir"),
		Workers:          viper.GetInt("workers"),
		Extensions:       exts,
		Incremental:      viper.GetBool("incremental"),
	}
}

func journalConfig() types.JournalConfig {
	path := viper.GetString("journal")
	switch strings.ToLower(strings.TrimSpace(path)) {
	case "off", "none", "false":
		path = ""
	}
	return types.JournalConfig{Path: path}
}

// openJournal opens the configured journal, or returns nil when disabled.
// A journal that cannot be opened is reported and ignored so conversions
// still run.
func openJournal() *journal.Journal {
	cfg := journalConfig()
	if cfg.Path == "" {
		return nil
	}
	j, err := journal.Open(cfg.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: journal disabled: %v\n", err)
		return nil
	}
	return j
}
