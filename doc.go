// Package hadoopext orchestrates the build of a multi-language Hadoop
// integration package: native (C/C++) extension modules plus a Java "pipes"
// component compiled separately and packaged into a jar.
//
// This package is the Go equivalent of the distutils-style build driver such
// a project would otherwise carry: it discovers the host toolchain, decides
// what to build from the detected Hadoop version, regenerates derived
// configuration artifacts only when they are stale, invokes the external
// compilers in order and guarantees cleanup of intermediate build state even
// on failure.
//
// # Build Stages
//
// A build runs through a fixed, linear sequence:
//
//	Pipeline
//	├── ResolveToolchain  (JAVA_HOME, libjvm, HADOOP_HOME, Hadoop version)
//	├── ArtifactWriter    (runtime config, version file, libhdfs config.h)
//	├── SelectExtensions  (version- and mode-gated native build units)
//	├── BaseBuilder       (external collaborator: compiles the extensions)
//	└── JavaBuilder       (javac + jar into the package tree)
//
// Cleanup of the temporary workspace always runs, whether or not an earlier
// stage failed, after a short settle delay for lingering NFS handles.
//
// # Basic Usage
//
// Configure and run a pipeline:
//
//	config := &hadoopext.BuildConfig{
//	    ProjectDir: "/path/to/project",
//	    ImplMode:   hadoopext.ImplNative,
//	    Verbose:    true,
//	}
//
//	pipeline := hadoopext.NewPipeline(config, baseBuilder)
//	err := pipeline.Run(ctx)
//
// # Version Branching
//
// All source-set and ABI-macro selection branches on the detected
// HadoopVersion value, never on ad-hoc string matching. Hadoop 1.x selects
// the legacy libhdfs sources with the HADOOP_LIBHDFS_V1 macro; 2.x and later
// select the newer source set with HADOOP_LIBHDFS_V2.
//
// # Platform Support
//
// POSIX only. Toolchain discovery assumes a Unix-style JDK layout and a
// hadoop launcher script on PATH or under HADOOP_HOME.
package hadoopext
