package internal

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	hadoopext "github.com/contriboss/hadoop-extension-go"
)

// defaultOptionsFile is looked up in the project directory when --config is
// not given. A missing file is fine; flags and environment cover everything.
const defaultOptionsFile = "hadoopext.toml"

// buildOptions is the optional TOML build-options file. Command-line flags
// override anything set here.
type buildOptions struct {
	ProjectDir   string           `toml:"project_dir"`
	BuildTemp    string           `toml:"build_temp"`
	BuildLib     string           `toml:"build_lib"`
	HDFSCoreImpl string           `toml:"hdfs_core_impl"`
	Toolchain    toolchainOptions `toml:"toolchain"`
}

type toolchainOptions struct {
	JavaHome      string `toml:"java_home"`
	HadoopHome    string `toml:"hadoop_home"`
	HadoopVersion string `toml:"hadoop_version"`
	Javac         string `toml:"javac"`
	Jar           string `toml:"jar"`
	Git           string `toml:"git"`
	Hadoop        string `toml:"hadoop"`
}

// loadOptions reads an options file. With required=false a missing file
// yields empty options.
func loadOptions(path string, required bool) (*buildOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return &buildOptions{}, nil
		}
		return nil, fmt.Errorf("failed to read options file: %w", err)
	}
	var opts buildOptions
	if err := toml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &opts, nil
}

// buildConfig merges file options into a BuildConfig. Empty flag values
// inherit from the file.
func (o *buildOptions) buildConfig() *hadoopext.BuildConfig {
	return &hadoopext.BuildConfig{
		ProjectDir:    o.ProjectDir,
		BuildTemp:     o.BuildTemp,
		BuildLib:      o.BuildLib,
		ImplMode:      hadoopext.ImplMode(o.HDFSCoreImpl),
		JavaHome:      o.Toolchain.JavaHome,
		HadoopHome:    o.Toolchain.HadoopHome,
		HadoopVersion: o.Toolchain.HadoopVersion,
		Javac:         o.Toolchain.Javac,
		Jar:           o.Toolchain.Jar,
		Git:           o.Toolchain.Git,
		Hadoop:        o.Toolchain.Hadoop,
	}
}
