//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Convert builds docmark and converts the documents listed in
// input/config.ini into output/.
func Convert() error {
	mg.Deps(Build)
	return sh.RunV("./bin/docmark", "convert", "--input-dir", "input", "--output-dir", "output")
}
