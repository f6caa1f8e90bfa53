package hadoopext

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testArtifactWriter(t *testing.T, mode ImplMode) (*ArtifactWriter, *BuildConfig) {
	t.Helper()
	config := (&BuildConfig{
		ProjectDir: t.TempDir(),
		ImplMode:   mode,
		Git:        "git-missing-for-test",
	}).withDefaults()
	toolchain := &ToolchainPaths{HadoopHome: "/opt/hadoop"}
	return NewArtifactWriter(config, toolchain), config
}

func TestWriteRuntimeConfig(t *testing.T) {
	writer, config := testArtifactWriter(t, ImplNative)

	if err := writer.WriteRuntimeConfig(); err != nil {
		t.Fatalf("WriteRuntimeConfig returned error: %v", err)
	}

	data, err := os.ReadFile(config.RuntimeConfigPath())
	if err != nil {
		t.Fatalf("expected runtime config to exist: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "default.hadoop.home=/opt/hadoop\n") {
		t.Errorf("runtime config missing hadoop home: %q", content)
	}
	if !strings.Contains(content, "hdfs.core.impl=native\n") {
		t.Errorf("runtime config missing impl mode: %q", content)
	}

	marker, err := os.ReadFile(config.MarkerPath())
	if err != nil {
		t.Fatalf("expected marker file to exist: %v", err)
	}
	if string(marker) != "/opt/hadoop\n" {
		t.Errorf("unexpected marker content: %q", marker)
	}
}

func TestWriteRuntimeConfigNeverOverwritesMarker(t *testing.T) {
	writer, config := testArtifactWriter(t, ImplNative)

	if err := os.WriteFile(config.MarkerPath(), []byte("/first/detected/home\n"), 0o644); err != nil {
		t.Fatalf("failed to seed marker: %v", err)
	}

	if err := writer.WriteRuntimeConfig(); err != nil {
		t.Fatalf("WriteRuntimeConfig returned error: %v", err)
	}

	marker, err := os.ReadFile(config.MarkerPath())
	if err != nil {
		t.Fatalf("failed to read marker: %v", err)
	}
	if string(marker) != "/first/detected/home\n" {
		t.Errorf("marker was overwritten: %q", marker)
	}
}

func TestWriteRuntimeConfigRejectsUnsupportedModeBeforeWriting(t *testing.T) {
	writer, config := testArtifactWriter(t, ImplMode("jnihdfs"))

	err := writer.WriteRuntimeConfig()
	var optErr *InvalidOptionError
	if !errors.As(err, &optErr) {
		t.Fatalf("expected *InvalidOptionError, got %v", err)
	}
	if optErr.Value != "jnihdfs" {
		t.Errorf("expected rejected value in error, got %q", optErr.Value)
	}

	if _, err := os.Stat(config.MarkerPath()); !os.IsNotExist(err) {
		t.Error("expected no marker file after failed validation")
	}
	if _, err := os.Stat(config.RuntimeConfigPath()); !os.IsNotExist(err) {
		t.Error("expected no runtime config after failed validation")
	}
}

func TestWriteVersionFile(t *testing.T) {
	writer, config := testArtifactWriter(t, ImplNative)

	if err := os.WriteFile(config.VersionDeclPath(), []byte("1.0.0\n"), 0o644); err != nil {
		t.Fatalf("failed to write VERSION: %v", err)
	}

	if err := writer.WriteVersionFile(context.Background()); err != nil {
		t.Fatalf("WriteVersionFile returned error: %v", err)
	}

	data, err := os.ReadFile(config.VersionFilePath())
	if err != nil {
		t.Fatalf("expected version file to exist: %v", err)
	}
	if !strings.Contains(string(data), "version=1.0.0\n") {
		t.Errorf("unexpected version file content: %q", data)
	}
	// git capture is best-effort; with no git the field is simply omitted
	if strings.Contains(string(data), "revision=") {
		t.Errorf("expected no revision field without git: %q", data)
	}
}

func TestWriteVersionFileIsIdempotent(t *testing.T) {
	writer, config := testArtifactWriter(t, ImplNative)

	if err := os.WriteFile(config.VersionDeclPath(), []byte("1.0.0\n"), 0o644); err != nil {
		t.Fatalf("failed to write VERSION: %v", err)
	}

	if err := writer.WriteVersionFile(context.Background()); err != nil {
		t.Fatalf("first WriteVersionFile returned error: %v", err)
	}
	first, err := os.ReadFile(config.VersionFilePath())
	if err != nil {
		t.Fatalf("failed to read version file: %v", err)
	}

	if err := writer.WriteVersionFile(context.Background()); err != nil {
		t.Fatalf("second WriteVersionFile returned error: %v", err)
	}
	second, err := os.ReadFile(config.VersionFilePath())
	if err != nil {
		t.Fatalf("failed to read version file: %v", err)
	}

	if string(first) != string(second) {
		t.Errorf("regeneration changed content: %q vs %q", first, second)
	}
}

func TestWriteVersionFileFailsWithoutDeclaration(t *testing.T) {
	writer, _ := testArtifactWriter(t, ImplNative)

	if err := writer.WriteVersionFile(context.Background()); err == nil {
		t.Error("expected error when VERSION declaration is missing")
	}
}

func TestWriteNativeBuildConfig(t *testing.T) {
	writer, config := testArtifactWriter(t, ImplNative)
	v, err := ParseHadoopVersion("2.6.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := writer.WriteNativeBuildConfig(v); err != nil {
		t.Fatalf("WriteNativeBuildConfig returned error: %v", err)
	}

	data, err := os.ReadFile(config.NativeConfigPath(v))
	if err != nil {
		t.Fatalf("expected config.h to exist: %v", err)
	}
	// better-TLS detection has no portable implementation and always
	// reports unavailable, so the macro must be absent
	expected := "#ifndef CONFIG_H\n#define CONFIG_H\n#endif\n"
	if string(data) != expected {
		t.Errorf("unexpected config.h content: %q", data)
	}

	if filepath.Dir(config.NativeConfigPath(v)) != config.LibhdfsDir(v) {
		t.Error("config.h must live in the version-specific libhdfs tree")
	}
}
