package hadoopext

import "path/filepath"

// ExtensionSpec describes one native build unit: a module name plus
// everything the external compiler needs to build it.
//
// Specs are plain values. The pipeline accumulates them in an
// ExtensionRegistry during the generation phase and hands the registry's
// contents to the base build collaborator exactly once.
type ExtensionSpec struct {
	Name             string
	Sources          []string
	IncludeDirs      []string
	LibraryDirs      []string
	Libraries        []string
	Macros           []Macro
	ExtraCompileArgs []string
	ExtraLinkArgs    []string
}

// ExtensionRegistry is an ordered, append-only collection of ExtensionSpecs
// owned by the pipeline that populates it. There is deliberately no
// process-wide registry: re-running the generation phase resets and
// repopulates it, so population is idempotent.
type ExtensionRegistry struct {
	specs []ExtensionSpec
}

// Register appends a spec. Registration order is compilation order.
func (r *ExtensionRegistry) Register(spec ExtensionSpec) {
	r.specs = append(r.specs, spec)
}

// Specs returns a copy of the registered specs.
func (r *ExtensionRegistry) Specs() []ExtensionSpec {
	return append([]ExtensionSpec{}, r.specs...)
}

// Reset empties the registry. The generation phase calls this before
// repopulating so a rerun never duplicates entries.
func (r *ExtensionRegistry) Reset() {
	r.specs = r.specs[:0]
}

// SelectExtensions decides which native extensions to build for the
// detected Hadoop version and the chosen implementation mode.
//
// The serialization codec extension is always included. The native HDFS
// extension is added only for ImplNative, with a version-dependent source
// set: Hadoop 1.x and earlier uses the legacy libhdfs API files and defines
// HADOOP_LIBHDFS_V1; 2.x and later uses the newer set (adding exception
// translation and the embedded mini-DFS test cluster helper) and defines
// HADOOP_LIBHDFS_V2. The partition is total and mutually exclusive.
//
// The mode must already have been validated; this function assumes it.
func SelectExtensions(config *BuildConfig, v HadoopVersion, toolchain *ToolchainPaths) []ExtensionSpec {
	specs := []ExtensionSpec{sercoreExtension(config)}
	if config.ImplMode == ImplNative {
		specs = append(specs, nativeHDFSExtension(config, v, toolchain))
	}
	return specs
}

// sercoreExtension is the binary serialization codec, built for every mode
// and every Hadoop version.
func sercoreExtension(config *BuildConfig) ExtensionSpec {
	dir := filepath.Join(config.ProjectDir, "src", "serialize")
	return ExtensionSpec{
		Name: "sercore",
		Sources: []string{
			filepath.Join(dir, "protocol_codec.cc"),
			filepath.Join(dir, "SerialUtils.cc"),
			filepath.Join(dir, "StringUtils.cc"),
		},
		ExtraCompileArgs: []string{"-O3"},
	}
}

func nativeHDFSExtension(config *BuildConfig, v HadoopVersion, toolchain *ToolchainPaths) ExtensionSpec {
	libhdfsDir := config.LibhdfsDir(v)

	var libhdfsSources []string
	var abiMacro Macro
	if v.Major <= 1 {
		libhdfsSources = []string{"hdfs.c", "hdfsJniHelper.c"}
		abiMacro = Macro{Name: "HADOOP_LIBHDFS_V1", Value: "1"}
	} else {
		libhdfsSources = []string{"hdfs.c", "jni_helper.c", "exception.c", "native_mini_dfs.c"}
		abiMacro = Macro{Name: "HADOOP_LIBHDFS_V2", Value: "1"}
	}

	var sources []string
	for _, s := range libhdfsSources {
		sources = append(sources, filepath.Join(libhdfsDir, s))
	}
	coreDir := filepath.Join(config.ProjectDir, "src", "native_core_hdfs")
	for _, s := range []string{"hdfs_module.cc", "hdfs_file.cc", "hdfs_fs.cc"} {
		sources = append(sources, filepath.Join(coreDir, s))
	}

	return ExtensionSpec{
		Name:        "native_core_hdfs",
		Sources:     sources,
		IncludeDirs: append(append([]string{}, toolchain.IncludeDirs...), libhdfsDir),
		LibraryDirs: append([]string{}, toolchain.LibraryDirs...),
		Libraries:   append([]string{}, toolchain.Libraries...),
		Macros:      append(append([]Macro{}, toolchain.Macros...), abiMacro),
		// The extension dlopens libjvm at runtime; bake its location in.
		ExtraCompileArgs: []string{"-Xlinker", "-rpath", toolchain.JVMLibDir},
	}
}
