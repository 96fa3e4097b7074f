// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pdiddy/hwpx-convert/internal/hwpx"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [template.hwpx]",
	Short: "Show the styles, fonts and tables of an HWPX template",
	Long: `Inspect reports what a template offers the converter: its entries, the
styles used for body text and headings, the registered fonts and the size
of each header table. Without an argument the built-in template is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

// templateReport is the JSON form of inspect's output.
type templateReport struct {
	Path      string         `json:"path"`
	Entries   []entryReport  `json:"entries"`
	Normal    string         `json:"normal_style"`
	Headings  []string       `json:"heading_styles"`
	Styles    []hwpx.Style   `json:"styles"`
	Fonts     []string       `json:"fonts"`
	Counts    map[string]int `json:"counts"`
	TextWidth int            `json:"text_width"`
}

type entryReport struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	t := hwpx.Blank()
	if len(args) == 1 {
		var err error
		if t, err = hwpx.OpenTemplate(args[0]); err != nil {
			return err
		}
	}
	rep, err := inspectTemplate(t)
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	printReport(os.Stdout, rep)
	return nil
}

func inspectTemplate(t *hwpx.Template) (templateReport, error) {
	pkg, err := hwpx.NewPackage(t)
	if err != nil {
		return templateReport{}, err
	}
	h := pkg.Header
	rep := templateReport{
		Path:      t.Path,
		Normal:    h.Normal().Name,
		Styles:    h.Styles(),
		Fonts:     h.Fonts(),
		Counts:    h.Counts(),
		TextWidth: pkg.Section.TextWidth(),
	}
	for _, e := range t.Entries {
		rep.Entries = append(rep.Entries, entryReport{Name: e.Name, Size: len(e.Data)})
	}
	for level := 1; level <= 6; level++ {
		rep.Headings = append(rep.Headings, h.HeadingStyle(level).Name)
	}
	return rep, nil
}

func printReport(w io.Writer, rep templateReport) {
	fmt.Fprintf(w, "Template: %s\n\n", rep.Path)

	fmt.Fprintln(w, "Entries:")
	for _, e := range rep.Entries {
		fmt.Fprintf(w, "  %-32s %s\n", e.Name, humanize.Bytes(uint64(e.Size)))
	}

	fmt.Fprintf(w, "\nBody style: %s\n", rep.Normal)
	fmt.Fprintln(w, "Heading styles:")
	for i, name := range rep.Headings {
		fmt.Fprintf(w, "  h%d  %s\n", i+1, name)
	}

	fmt.Fprintln(w, "\nStyles:")
	for _, s := range rep.Styles {
		fmt.Fprintf(w, "  %-4s %-20s %-20s paraPr=%s charPr=%s\n", s.ID, s.Name, s.EngName, s.ParaPr, s.CharPr)
	}

	fmt.Fprintln(w, "\nFonts:")
	for _, f := range rep.Fonts {
		fmt.Fprintf(w, "  %s\n", f)
	}

	fmt.Fprintln(w, "\nHeader tables:")
	names := make([]string, 0, len(rep.Counts))
	for k := range rep.Counts {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(w, "  %-20s %d\n", k, rep.Counts[k])
	}
	fmt.Fprintf(w, "\nText width: %d HWPUNIT (%.1f mm)\n", rep.TextWidth, float64(rep.TextWidth)/hwpx.UnitsPerInch*25.4)
}

func init() {
	inspectCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(inspectCmd)
}
