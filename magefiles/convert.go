//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Samples converts every HTML file under samples/html into samples/out.
func Samples() error {
	mg.Deps(Build, Init)
	bin := filepath.Join(binDir, binName)
	if err := sh.RunV(bin, "batch", "samples/html", "--out-dir", "samples/out", "--overwrite"); err != nil {
		return fmt.Errorf("converting samples: %w", err)
	}
	return nil
}

// Template writes the built-in blank template to samples/out/blank.hwpx.
func Template() error {
	mg.Deps(Build, Init)
	return sh.RunV(filepath.Join(binDir, binName), "template", "samples/out/blank.hwpx", "--force")
}
