//go:build mage

package main

import (
	"context"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	hadoopext "github.com/contriboss/hadoop-extension-go"
)

// Build runs the full package build pipeline against the local toolchain.
func Build() error {
	mg.Deps(Test)
	pipeline := hadoopext.NewPipeline(&hadoopext.BuildConfig{ProjectDir: "."}, nil)
	return pipeline.Run(context.Background())
}

// Clean removes generated artifacts and temporary build state.
func Clean() {
	hadoopext.CleanAll(&hadoopext.BuildConfig{ProjectDir: "."})
}

// Test runs the Go test suite.
func Test() error {
	return sh.RunV("go", "test", "./...")
}
