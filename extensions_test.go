package hadoopext

import (
	"strings"
	"testing"
)

func testToolchain() *ToolchainPaths {
	return &ToolchainPaths{
		JavaHome:    "/opt/jdk",
		JVMLibDir:   "/opt/jdk/lib/server",
		JVMLibName:  "libjvm.so",
		IncludeDirs: []string{"/opt/jdk/include", "/opt/jdk/include/linux"},
		LibraryDirs: []string{"/opt/jdk/Libraries", "/opt/jdk/lib/server"},
		Libraries:   []string{"jvm", "dl"},
		HadoopHome:  "/opt/hadoop",
	}
}

func hasMacro(spec ExtensionSpec, name, value string) bool {
	for _, m := range spec.Macros {
		if m.Name == name && m.Value == value {
			return true
		}
	}
	return false
}

func hasSourceSuffix(spec ExtensionSpec, suffix string) bool {
	for _, s := range spec.Sources {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

func specByName(t *testing.T, specs []ExtensionSpec, name string) ExtensionSpec {
	t.Helper()
	for _, spec := range specs {
		if spec.Name == name {
			return spec
		}
	}
	t.Fatalf("no spec named %s in %v", name, specs)
	return ExtensionSpec{}
}

func TestSelectExtensionsLegacyHadoop(t *testing.T) {
	config := (&BuildConfig{ProjectDir: "/proj", ImplMode: ImplNative}).withDefaults()
	v, _ := ParseHadoopVersion("1.2.1")

	specs := SelectExtensions(config, v, testToolchain())
	if len(specs) != 2 {
		t.Fatalf("expected exactly 2 specs, got %d", len(specs))
	}

	sercore := specByName(t, specs, "sercore")
	if !hasSourceSuffix(sercore, "protocol_codec.cc") {
		t.Error("sercore missing protocol_codec.cc")
	}
	if len(sercore.ExtraCompileArgs) != 1 || sercore.ExtraCompileArgs[0] != "-O3" {
		t.Errorf("sercore should compile with -O3, got %v", sercore.ExtraCompileArgs)
	}

	hdfs := specByName(t, specs, "native_core_hdfs")
	if !hasMacro(hdfs, "HADOOP_LIBHDFS_V1", "1") {
		t.Error("expected HADOOP_LIBHDFS_V1=1 for hadoop 1.x")
	}
	if hasMacro(hdfs, "HADOOP_LIBHDFS_V2", "1") {
		t.Error("HADOOP_LIBHDFS_V2 must never appear for hadoop 1.x")
	}
	if !hasSourceSuffix(hdfs, "hdfsJniHelper.c") {
		t.Error("expected legacy JNI helper source")
	}
	for _, v2only := range []string{"exception.c", "native_mini_dfs.c", "jni_helper.c"} {
		if hasSourceSuffix(hdfs, v2only) {
			t.Errorf("v2-only source %s selected for hadoop 1.x", v2only)
		}
	}
}

func TestSelectExtensionsModernHadoop(t *testing.T) {
	config := (&BuildConfig{ProjectDir: "/proj", ImplMode: ImplNative}).withDefaults()
	v, _ := ParseHadoopVersion("2.6.0")

	specs := SelectExtensions(config, v, testToolchain())
	hdfs := specByName(t, specs, "native_core_hdfs")

	if !hasMacro(hdfs, "HADOOP_LIBHDFS_V2", "1") {
		t.Error("expected HADOOP_LIBHDFS_V2=1 for hadoop 2.x")
	}
	if hasMacro(hdfs, "HADOOP_LIBHDFS_V1", "1") {
		t.Error("HADOOP_LIBHDFS_V1 must never appear for hadoop 2.x")
	}
	for _, required := range []string{"exception.c", "native_mini_dfs.c", "jni_helper.c"} {
		if !hasSourceSuffix(hdfs, required) {
			t.Errorf("expected %s in hadoop 2.x source set", required)
		}
	}
	if hasSourceSuffix(hdfs, "hdfsJniHelper.c") {
		t.Error("legacy JNI helper selected for hadoop 2.x")
	}

	// version-specific include dir and jvm rpath come from the toolchain
	libhdfsDir := config.LibhdfsDir(v)
	found := false
	for _, dir := range hdfs.IncludeDirs {
		if dir == libhdfsDir {
			found = true
		}
	}
	if !found {
		t.Errorf("expected include dir %s, got %v", libhdfsDir, hdfs.IncludeDirs)
	}
	wantRpath := []string{"-Xlinker", "-rpath", "/opt/jdk/lib/server"}
	if len(hdfs.ExtraCompileArgs) != 3 {
		t.Fatalf("expected rpath flags, got %v", hdfs.ExtraCompileArgs)
	}
	for i, arg := range wantRpath {
		if hdfs.ExtraCompileArgs[i] != arg {
			t.Errorf("expected rpath flags %v, got %v", wantRpath, hdfs.ExtraCompileArgs)
			break
		}
	}
}

func TestSelectExtensionsBridgedMode(t *testing.T) {
	config := (&BuildConfig{ProjectDir: "/proj", ImplMode: ImplBridged}).withDefaults()
	v, _ := ParseHadoopVersion("2.6.0")

	specs := SelectExtensions(config, v, testToolchain())
	if len(specs) != 1 || specs[0].Name != "sercore" {
		t.Fatalf("expected only the sercore spec in bridged mode, got %v", specs)
	}
}

func TestExtensionRegistryIdempotentPopulation(t *testing.T) {
	config := (&BuildConfig{ProjectDir: "/proj", ImplMode: ImplNative}).withDefaults()
	v, _ := ParseHadoopVersion("2.6.0")
	toolchain := testToolchain()

	var registry ExtensionRegistry
	for i := 0; i < 3; i++ {
		registry.Reset()
		for _, spec := range SelectExtensions(config, v, toolchain) {
			registry.Register(spec)
		}
	}

	if got := len(registry.Specs()); got != 2 {
		t.Errorf("expected 2 specs after repeated population, got %d", got)
	}
}

func TestExtensionRegistrySpecsReturnsCopy(t *testing.T) {
	var registry ExtensionRegistry
	registry.Register(ExtensionSpec{Name: "sercore"})

	specs := registry.Specs()
	specs[0].Name = "mutated"

	if registry.Specs()[0].Name != "sercore" {
		t.Error("Specs must return a copy, not the backing slice")
	}
}

func TestImplModeValidate(t *testing.T) {
	for _, mode := range []ImplMode{ImplNative, ImplBridged} {
		if err := mode.Validate(); err != nil {
			t.Errorf("expected %s to validate, got %v", mode, err)
		}
	}

	err := ImplMode("jpype").Validate()
	if err == nil {
		t.Fatal("expected error for unsupported mode")
	}
	if !strings.Contains(err.Error(), "jpype") {
		t.Errorf("error should name the rejected value: %v", err)
	}
	if !strings.Contains(err.Error(), "native") {
		t.Errorf("error should list supported modes: %v", err)
	}
}
