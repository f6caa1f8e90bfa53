package hadoopext

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/phuslu/log"
)

// javaPackageRoot is the top-level directory of the compiled class tree
// that gets packaged into the jar.
const javaPackageRoot = "./com"

// mapreduce pipes sources exist only for Hadoop 2.2 and later.
const (
	mapreducePipesSinceMajor = 2
	mapreducePipesSinceMinor = 2
)

// JavaLib is one packaging unit for the Java component: the jar it produces,
// the classpath it compiles against and its version-dependent source list.
// Created once per build, consumed once by the JavaBuilder.
type JavaLib struct {
	Version   HadoopVersion
	JarName   string
	Classpath string
	Sources   []string
}

// NewJavaLib resolves the Java source set for the given Hadoop version. The
// base sources are always included; the mapreduce pipes sources join only
// when the target version ships the new pipes API.
func NewJavaLib(config *BuildConfig, v HadoopVersion, classpath string) *JavaLib {
	srcRoot := filepath.Join(config.ProjectDir, "src", "com", "contriboss", "hadoopext")

	sources := []string{filepath.Join(srcRoot, "NoSeparatorTextOutputFormat.java")}
	pipes, _ := filepath.Glob(filepath.Join(srcRoot, "pipes", "*.java"))
	sources = append(sources, pipes...)
	if v.AtLeast(mapreducePipesSinceMajor, mapreducePipesSinceMinor) {
		mrPipes, _ := filepath.Glob(filepath.Join(srcRoot, "mapreduce", "pipes", "*.java"))
		sources = append(sources, mrPipes...)
	}

	return &JavaLib{
		Version:   v,
		JarName:   fmt.Sprintf("hadoopext-%s.jar", v.Raw),
		Classpath: classpath,
		Sources:   sources,
	}
}

// JavaBuilder compiles and packages the Java component. The design allows
// several target configurations per build; in practice there is one, for
// the detected Hadoop version.
type JavaBuilder struct {
	config    *BuildConfig
	toolchain *ToolchainPaths
	libs      []*JavaLib
}

// NewJavaBuilder prepares a builder for the detected toolchain and version.
// The classpath is computed here so Run only spawns compiler processes.
func NewJavaBuilder(ctx context.Context, config *BuildConfig, toolchain *ToolchainPaths, v HadoopVersion) *JavaBuilder {
	classpath := hadoopClasspath(ctx, config, toolchain.HadoopHome)
	return &JavaBuilder{
		config:    config,
		toolchain: toolchain,
		libs:      []*JavaLib{NewJavaLib(config, v, classpath)},
	}
}

// RequiredTools returns the external tools the Java build needs.
func (b *JavaBuilder) RequiredTools() []ToolRequirement {
	return []ToolRequirement{
		{Name: b.config.Javac, Purpose: "Java compiler"},
		{Name: b.config.Jar, Purpose: "jar archiver"},
		{Name: b.config.Git, Optional: true, Purpose: "revision capture for the version file"},
	}
}

// CheckTools verifies that the Java toolchain is available.
func (b *JavaBuilder) CheckTools() error {
	return CheckRequiredTools(b.RequiredTools())
}

// Run builds every configured JavaLib. A non-zero exit from the compiler or
// the archiver is fatal and reported as a *BuildError carrying the exact
// command line.
func (b *JavaBuilder) Run(ctx context.Context) error {
	log.Info().
		Str("hadoop_home", b.toolchain.HadoopHome).
		Str("java_home", b.toolchain.JavaHome).
		Msg("building java component")
	for _, lib := range b.libs {
		if err := b.buildLib(ctx, lib); err != nil {
			return err
		}
	}
	return nil
}

func (b *JavaBuilder) buildLib(ctx context.Context, lib *JavaLib) error {
	log.Info().Str("hadoop_version", lib.Version.Raw).Msg("building java code")
	if lib.Classpath == "" {
		log.Warn().Msg("could not set classpath, java code may not compile")
	}

	classDir := filepath.Join(b.config.BuildTemp, "pipes-"+lib.Version.Raw)
	if err := os.MkdirAll(classDir, 0o755); err != nil {
		return fmt.Errorf("creating class directory: %w", err)
	}
	jarDir := filepath.Join(b.config.BuildLib, "hadoopext")
	if err := os.MkdirAll(jarDir, 0o755); err != nil {
		return fmt.Errorf("creating package directory: %w", err)
	}
	jarPath := filepath.Join(jarDir, lib.JarName)

	var compileArgs []string
	if lib.Classpath != "" {
		compileArgs = append(compileArgs, "-classpath", lib.Classpath)
	}
	compileArgs = append(compileArgs, "-d", classDir)
	compileArgs = append(compileArgs, lib.Sources...)

	log.Info().Msg("compiling java classes")
	if err := b.runTool(ctx, "Javac", b.config.Javac, compileArgs); err != nil {
		return err
	}

	log.Info().Str("jar", jarPath).Msg("packaging java classes")
	packageArgs := []string{"cf", jarPath, "-C", classDir, javaPackageRoot}
	return b.runTool(ctx, "Jar", b.config.Jar, packageArgs)
}

// runTool executes one external tool with an explicit argument list. The
// argv is never joined into a shell string; it is logged and embedded into
// the *BuildError verbatim on failure.
func (b *JavaBuilder) runTool(ctx context.Context, step, tool string, args []string) error {
	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Dir = b.config.ProjectDir

	cmd.Env = os.Environ()
	for key, value := range b.config.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}

	command := append([]string{tool}, args...)
	if b.config.Verbose {
		log.Info().Str("command", strings.Join(command, " ")).Msg("running")
	}

	output, err := cmd.CombinedOutput()
	outputLines := strings.Split(strings.TrimRight(string(output), "\n"), "\n")
	if err != nil {
		return newBuildError(step, command, outputLines, err)
	}
	return nil
}
