package internal

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	hadoopext "github.com/contriboss/hadoop-extension-go"
)

var (
	buildProjectDir string
	buildTemp       string
	buildLib        string
	buildImpl       string
	buildOptsFile   string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the native extensions and the Java component",
	Long: `Build generates the runtime configuration and version artifacts,
selects the native extensions for the detected Hadoop version, and compiles
and packages the Java pipes component into the build lib.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildProjectDir, "project-dir", "C", ".", "Project root directory")
	buildCmd.Flags().StringVar(&buildTemp, "build-temp", "", "Temporary build directory")
	buildCmd.Flags().StringVar(&buildLib, "build-lib", "", "Final package output directory")
	buildCmd.Flags().StringVar(&buildImpl, "hdfs-core-impl", "",
		fmt.Sprintf("hdfs core implementation [%s]", strings.Join(hadoopext.SupportedImplModes(), ", ")))
	buildCmd.Flags().StringVar(&buildOptsFile, "options", "", "Build options file (TOML)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	config, err := mergedConfig()
	if err != nil {
		return err
	}
	// Reject a bad mode before the pipeline touches anything.
	if config.ImplMode != "" {
		if err := config.ImplMode.Validate(); err != nil {
			return err
		}
	}

	pipeline := hadoopext.NewPipeline(config, nil)
	return pipeline.Run(context.Background())
}

// mergedConfig layers flag values over the options file.
func mergedConfig() (*hadoopext.BuildConfig, error) {
	optsPath := buildOptsFile
	required := optsPath != ""
	if optsPath == "" {
		optsPath = filepath.Join(buildProjectDir, defaultOptionsFile)
	}
	opts, err := loadOptions(optsPath, required)
	if err != nil {
		return nil, err
	}

	config := opts.buildConfig()
	if buildProjectDir != "" {
		config.ProjectDir = buildProjectDir
	}
	if buildTemp != "" {
		config.BuildTemp = buildTemp
	}
	if buildLib != "" {
		config.BuildLib = buildLib
	}
	if buildImpl != "" {
		config.ImplMode = hadoopext.ImplMode(buildImpl)
	}
	config.Verbose = verbose
	return config, nil
}
