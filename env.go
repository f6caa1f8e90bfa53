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

// ToolchainPaths holds the fully resolved host toolchain locations. It is
// produced once by ResolveToolchain and read-only to every downstream
// component.
type ToolchainPaths struct {
	JavaHome    string   // JDK installation root
	JVMLibDir   string   // directory containing the JVM dynamic library
	JVMLibName  string   // e.g. "libjvm.so"
	IncludeDirs []string // JNI header directories
	LibraryDirs []string // extra linker search directories
	Libraries   []string // libraries the native extensions link against
	Macros      []Macro  // JVM-related preprocessor definitions
	HadoopHome  string   // Hadoop installation root; may be empty
}

// Default search locations for a JDK when neither the config nor JAVA_HOME
// points at one.
var defaultJavaHomes = []string{
	"/usr/lib/jvm/default-java",
	"/usr/lib/jvm/java",
	"/usr/java/default",
	"/opt/java",
	"/System/Library/Frameworks/JavaVM.framework/Home",
}

// Default search locations for a Hadoop installation.
var defaultHadoopHomes = []string{
	"/usr/lib/hadoop",
	"/usr/local/hadoop",
	"/opt/hadoop",
	"/usr/lib/hadoop-0.20",
}

// ResolveToolchain locates the JDK, its JVM dynamic library, the Hadoop
// installation and the Hadoop version. Explicit config fields win, then
// environment variables (JAVA_HOME, HADOOP_HOME, HADOOP_VERSION), then
// default-path discovery.
//
// It is a hard prerequisite for every build stage: nothing downstream runs
// before it succeeds. A JDK that cannot be located, or a Hadoop version
// that cannot be determined, is a *ConfigurationError naming the override
// to set. The only side effects are reading the environment, the
// filesystem, and (for version detection) running the hadoop launcher.
func ResolveToolchain(ctx context.Context, config *BuildConfig) (*ToolchainPaths, HadoopVersion, error) {
	javaHome, err := resolveJavaHome(config)
	if err != nil {
		return nil, HadoopVersion{}, err
	}

	jvmLibDir, jvmLibName, err := findJVMLib(javaHome)
	if err != nil {
		return nil, HadoopVersion{}, err
	}

	hadoopHome := resolveHadoopHome(config)
	if hadoopHome == "" {
		log.Warn().Msg("hadoop home not found, runtime config will record an empty home")
	}

	version, err := detectHadoopVersion(ctx, config, hadoopHome)
	if err != nil {
		return nil, HadoopVersion{}, err
	}

	tc := &ToolchainPaths{
		JavaHome:    javaHome,
		JVMLibDir:   jvmLibDir,
		JVMLibName:  jvmLibName,
		IncludeDirs: jniIncludeDirs(javaHome),
		LibraryDirs: []string{filepath.Join(javaHome, "Libraries"), jvmLibDir},
		Libraries:   []string{"jvm", "dl"},
		HadoopHome:  hadoopHome,
	}
	return tc, version, nil
}

func resolveJavaHome(config *BuildConfig) (string, error) {
	candidates := []string{config.JavaHome, os.Getenv("JAVA_HOME")}

	// Follow the java launcher symlink back to its installation.
	if javaBin, err := exec.LookPath("java"); err == nil {
		if resolved, err := filepath.EvalSymlinks(javaBin); err == nil {
			home := filepath.Dir(filepath.Dir(resolved)) // strip bin/java
			home = strings.TrimSuffix(home, string(filepath.Separator)+"jre")
			candidates = append(candidates, home)
		}
	}
	candidates = append(candidates, defaultJavaHomes...)

	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			abs, err := filepath.Abs(dir)
			if err != nil {
				return "", err
			}
			return abs, nil
		}
	}
	return "", &ConfigurationError{
		Missing: "JAVA_HOME",
		Detail:  "no JDK found on PATH or in default locations",
	}
}

// findJVMLib locates the JVM dynamic library under the JDK root. The layout
// moved around between JDK generations, so several known subtrees are tried.
func findJVMLib(javaHome string) (dir, name string, err error) {
	patterns := []string{
		filepath.Join(javaHome, "jre", "lib", "*", "server", "libjvm.*"),
		filepath.Join(javaHome, "jre", "lib", "server", "libjvm.*"),
		filepath.Join(javaHome, "lib", "server", "libjvm.*"),
		filepath.Join(javaHome, "lib", "*", "server", "libjvm.*"),
	}
	for _, pattern := range patterns {
		matches, _ := filepath.Glob(pattern)
		for _, m := range matches {
			if info, statErr := os.Stat(m); statErr == nil && info.Mode().IsRegular() {
				return filepath.Dir(m), filepath.Base(m), nil
			}
		}
	}
	return "", "", &ConfigurationError{
		Missing: "JAVA_HOME",
		Detail:  fmt.Sprintf("no JVM dynamic library under %s", javaHome),
	}
}

// jniIncludeDirs returns JAVA_HOME/include plus any platform subdirectory
// (include/linux, include/darwin) that exists.
func jniIncludeDirs(javaHome string) []string {
	base := filepath.Join(javaHome, "include")
	dirs := []string{base}
	matches, _ := filepath.Glob(filepath.Join(base, "*"))
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.IsDir() {
			dirs = append(dirs, m)
		}
	}
	return dirs
}

func resolveHadoopHome(config *BuildConfig) string {
	candidates := append([]string{config.HadoopHome, os.Getenv("HADOOP_HOME")}, defaultHadoopHomes...)
	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(dir); err == nil {
				return abs
			}
		}
	}
	return ""
}

// detectHadoopVersion determines the Hadoop version: explicit config value,
// then the HADOOP_VERSION environment variable, then the first line of
// "hadoop version".
func detectHadoopVersion(ctx context.Context, config *BuildConfig, hadoopHome string) (HadoopVersion, error) {
	if s := config.HadoopVersion; s != "" {
		return ParseHadoopVersion(s)
	}
	if s := os.Getenv("HADOOP_VERSION"); s != "" {
		return ParseHadoopVersion(s)
	}

	launcher := hadoopLauncher(config, hadoopHome)
	if launcher == "" {
		return HadoopVersion{}, &ConfigurationError{
			Missing: "HADOOP_VERSION",
			Detail:  "no hadoop launcher found to probe the version",
		}
	}

	cmd := exec.CommandContext(ctx, launcher, "version")
	out, err := cmd.Output()
	if err != nil {
		return HadoopVersion{}, &ConfigurationError{
			Missing: "HADOOP_VERSION",
			Detail:  fmt.Sprintf("%s version failed: %v", launcher, err),
		}
	}

	// First line looks like "Hadoop 2.6.0".
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return HadoopVersion{}, &ConfigurationError{
			Missing: "HADOOP_VERSION",
			Detail:  fmt.Sprintf("unexpected %s version output: %q", launcher, line),
		}
	}
	return ParseHadoopVersion(fields[len(fields)-1])
}

// hadoopLauncher picks the hadoop executable: configured override, then
// HADOOP_HOME/bin/hadoop, then PATH lookup. Empty when none is available.
func hadoopLauncher(config *BuildConfig, hadoopHome string) string {
	if config.Hadoop != "" && config.Hadoop != "hadoop" {
		return config.Hadoop
	}
	if hadoopHome != "" {
		candidate := filepath.Join(hadoopHome, "bin", "hadoop")
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate
		}
	}
	if path, err := exec.LookPath(config.Hadoop); err == nil {
		return path
	}
	return ""
}

// hadoopClasspath computes the classpath for compiling the Java component.
// It asks the hadoop launcher first and falls back to globbing jars under
// the Hadoop home. An empty result is not an error here; the Java builder
// warns about it because compilation may still partially succeed.
func hadoopClasspath(ctx context.Context, config *BuildConfig, hadoopHome string) string {
	if launcher := hadoopLauncher(config, hadoopHome); launcher != "" {
		cmd := exec.CommandContext(ctx, launcher, "classpath")
		if out, err := cmd.Output(); err == nil {
			if cp := strings.TrimSpace(string(out)); cp != "" {
				return cp
			}
		}
	}

	if hadoopHome == "" {
		return ""
	}
	var jars []string
	for _, pattern := range []string{
		filepath.Join(hadoopHome, "*.jar"),
		filepath.Join(hadoopHome, "lib", "*.jar"),
		filepath.Join(hadoopHome, "share", "hadoop", "*", "*.jar"),
	} {
		matches, _ := filepath.Glob(pattern)
		jars = append(jars, matches...)
	}
	return strings.Join(jars, string(os.PathListSeparator))
}
