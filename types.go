package hadoopext

import "path/filepath"

// ImplMode selects which native backend satisfies the HDFS filesystem
// extension point.
type ImplMode string

// Supported HDFS core implementation modes.
const (
	// ImplNative compiles the libhdfs-backed C extension.
	ImplNative ImplMode = "native"
	// ImplBridged routes HDFS access through the JVM bridge at runtime;
	// no native HDFS extension is compiled.
	ImplBridged ImplMode = "bridged"

	// DefaultImplMode is used when no mode is configured.
	DefaultImplMode = ImplNative
)

// SupportedImplModes returns the accepted --hdfs-core-impl values.
func SupportedImplModes() []string {
	return []string{string(ImplNative), string(ImplBridged)}
}

// Validate rejects unsupported modes with an *InvalidOptionError. It runs
// during option validation, before any file is written or process spawned.
func (m ImplMode) Validate() error {
	switch m {
	case ImplNative, ImplBridged:
		return nil
	}
	return &InvalidOptionError{
		Option:    "hdfs-core-impl",
		Value:     string(m),
		Supported: SupportedImplModes(),
	}
}

// Macro is a preprocessor definition passed to the native compiler.
type Macro struct {
	Name  string
	Value string // empty means defined without a value
}

// BuildConfig contains configuration for one build run.
//
// Source layout:
//   - ProjectDir: root of the package tree (sources, VERSION file)
//   - BuildTemp: workspace for intermediate compiled output
//   - BuildLib: final package/install tree receiving the jar
//
// Toolchain overrides (all optional; environment variables and default-path
// discovery apply when unset):
//   - JavaHome, HadoopHome, HadoopVersion
//   - Javac, Jar, Git, Hadoop: executable names or paths
//
// Build behavior:
//   - ImplMode: HDFS core implementation selector
//   - Env: extra environment variables for spawned tools
//   - Verbose: log every external command line
//   - DryRun: cleanup only reports what it would remove
type BuildConfig struct {
	// Source paths
	ProjectDir string
	BuildTemp  string
	BuildLib   string

	// Build options
	ImplMode ImplMode

	// Toolchain overrides
	JavaHome      string
	HadoopHome    string
	HadoopVersion string

	// External tool overrides
	Javac  string
	Jar    string
	Git    string
	Hadoop string

	// Process environment for spawned tools
	Env map[string]string

	// Build behavior
	Verbose bool
	DryRun  bool
}

// withDefaults fills unset fields with their defaults. Callers keep the
// original config untouched; the pipeline works on the returned copy.
func (c *BuildConfig) withDefaults() *BuildConfig {
	out := *c
	if out.ProjectDir == "" {
		out.ProjectDir = "."
	}
	if out.BuildTemp == "" {
		out.BuildTemp = filepath.Join(out.ProjectDir, "build", "temp")
	}
	if out.BuildLib == "" {
		out.BuildLib = filepath.Join(out.ProjectDir, "build", "lib")
	}
	if out.ImplMode == "" {
		out.ImplMode = DefaultImplMode
	}
	if out.Javac == "" {
		out.Javac = "javac"
	}
	if out.Jar == "" {
		out.Jar = "jar"
	}
	if out.Git == "" {
		out.Git = "git"
	}
	if out.Hadoop == "" {
		out.Hadoop = "hadoop"
	}
	return &out
}

// Paths of generated artifacts, all relative to ProjectDir.

// MarkerPath is the marker file recording the first-detected Hadoop home.
// Once written it becomes a permanent staleness prerequisite and is never
// silently overwritten.
func (c *BuildConfig) MarkerPath() string {
	return filepath.Join(c.ProjectDir, "DEFAULT_HADOOP_HOME")
}

// RuntimeConfigPath is the generated runtime configuration consumed by the
// package's library code at import time.
func (c *BuildConfig) RuntimeConfigPath() string {
	return filepath.Join(c.ProjectDir, "lib", "config.properties")
}

// VersionDeclPath is the hand-maintained version declaration file.
func (c *BuildConfig) VersionDeclPath() string {
	return filepath.Join(c.ProjectDir, "VERSION")
}

// VersionFilePath is the generated version file (version string plus an
// optional source-control revision).
func (c *BuildConfig) VersionFilePath() string {
	return filepath.Join(c.ProjectDir, "lib", "version.properties")
}

// NativeConfigPath is the generated config.h for the version-specific
// libhdfs source tree.
func (c *BuildConfig) NativeConfigPath(v HadoopVersion) string {
	return filepath.Join(c.ProjectDir, "src", "libhdfs", v.Raw, "config.h")
}

// LibhdfsDir is the version-specific libhdfs source directory.
func (c *BuildConfig) LibhdfsDir(v HadoopVersion) string {
	return filepath.Join(c.ProjectDir, "src", "libhdfs", v.Raw)
}
