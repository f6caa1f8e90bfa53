package hadoopext

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/renameio"
	"github.com/phuslu/log"
)

const generatedHeader = "# GENERATED BY the build, DO NOT EDIT\n"

// ArtifactWriter generates the derived configuration and version files the
// package's library code reads at import time, plus the native build header.
//
// Regenerated files are written atomically so a crashed build never leaves a
// half-written artifact behind. All of them are safe to delete: rerunning
// the pipeline regenerates them.
type ArtifactWriter struct {
	config    *BuildConfig
	toolchain *ToolchainPaths
}

// NewArtifactWriter returns a writer bound to one build's configuration and
// resolved toolchain.
func NewArtifactWriter(config *BuildConfig, toolchain *ToolchainPaths) *ArtifactWriter {
	return &ArtifactWriter{config: config, toolchain: toolchain}
}

// WriteRuntimeConfig writes the generated runtime configuration: the
// detected Hadoop home and the selected HDFS core implementation mode.
//
// An unsupported mode fails fast with an *InvalidOptionError before any
// file is touched. The marker file recording the first-detected Hadoop home
// is created if absent and never overwritten afterwards; it is a permanent
// prerequisite for later staleness checks. The config file itself is always
// rewritten.
func (w *ArtifactWriter) WriteRuntimeConfig() error {
	if err := w.config.ImplMode.Validate(); err != nil {
		return err
	}

	marker := w.config.MarkerPath()
	if _, err := os.Stat(marker); os.IsNotExist(err) {
		if err := os.WriteFile(marker, []byte(w.toolchain.HadoopHome+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", marker, err)
		}
		log.Info().Str("path", marker).Msg("recorded default hadoop home")
	}

	path := w.config.RuntimeConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	var b strings.Builder
	b.WriteString(generatedHeader)
	fmt.Fprintf(&b, "default.hadoop.home=%s\n", w.toolchain.HadoopHome)
	fmt.Fprintf(&b, "hdfs.core.impl=%s\n", w.config.ImplMode)
	if err := renameio.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// WriteVersionFile regenerates the version file when the VERSION
// declaration is newer than it. The source-control revision is captured
// best-effort: a failure to obtain it only omits the field.
func (w *ArtifactWriter) WriteVersionFile(ctx context.Context) error {
	decl := w.config.VersionDeclPath()
	path := w.config.VersionFilePath()
	if !MustGenerate(path, []string{decl}) {
		log.Debug().Str("path", path).Msg("version file up to date")
		return nil
	}

	version, err := readVersionDecl(decl)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(generatedHeader)
	fmt.Fprintf(&b, "version=%s\n", version)
	if commit, ok := gitCommit(ctx, w.config); ok {
		fmt.Fprintf(&b, "revision=%s\n", commit)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := renameio.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// WriteNativeBuildConfig emits config.h into the version-specific libhdfs
// source tree, enabling HAVE_BETTER_TLS when the host toolchain supports
// thread-local storage the way recent libhdfs expects.
func (w *ArtifactWriter) WriteNativeBuildConfig(v HadoopVersion) error {
	path := w.config.NativeConfigPath(v)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	var b strings.Builder
	b.WriteString("#ifndef CONFIG_H\n#define CONFIG_H\n")
	if haveBetterTLS() {
		b.WriteString("#define HAVE_BETTER_TLS\n")
	}
	b.WriteString("#endif\n")
	if err := renameio.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// haveBetterTLS reports whether the compiler supports the thread-local
// storage probe from libhdfs's CMake build. There is no portable way to
// detect this from here, so the flag is always off. Known limitation.
func haveBetterTLS() bool {
	return false
}

// readVersionDecl reads the declared version string. An unreadable
// declaration is fatal: the build cannot stamp the package without it.
func readVersionDecl(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read version info: %w", err)
	}
	version := strings.TrimSpace(string(data))
	if version == "" {
		return "", fmt.Errorf("failed to read version info: %s is empty", path)
	}
	return version, nil
}

// gitCommit captures the current revision. Best-effort: any failure (no
// git, not a repository) is reported as absence, never as an error.
func gitCommit(ctx context.Context, config *BuildConfig) (string, bool) {
	cmd := exec.CommandContext(ctx, config.Git, "rev-parse", "HEAD")
	cmd.Dir = config.ProjectDir
	out, err := cmd.Output()
	if err != nil {
		log.Debug().Err(err).Msg("no git revision available")
		return "", false
	}
	commit := strings.TrimSpace(string(out))
	return commit, commit != ""
}
