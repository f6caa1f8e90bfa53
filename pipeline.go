package hadoopext

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/phuslu/log"
)

// defaultSettleDelay is how long the pipeline waits before deleting the
// workspace. On NFS an immediate delete races with handles the just-exited
// compiler still holds in the tree.
const defaultSettleDelay = 500 * time.Millisecond

// BaseBuilder is the external collaborator that compiles the registered
// native extensions and runs the base library-tree build step. The pipeline
// hands it the populated extension registry and does not inspect its
// internals.
type BaseBuilder interface {
	// CompileExtensions builds the native extension modules.
	CompileExtensions(ctx context.Context, specs []ExtensionSpec) error

	// Run performs the base build step (copying the library tree into the
	// build lib). It runs after the extensions compiled successfully.
	Run(ctx context.Context) error
}

// NopBaseBuilder is a BaseBuilder that only logs what it was asked to do.
// Useful when the native compilation is driven by an outer build system and
// this pipeline only owns artifact generation and the Java component.
type NopBaseBuilder struct{}

// CompileExtensions logs the selected extensions and succeeds.
func (NopBaseBuilder) CompileExtensions(ctx context.Context, specs []ExtensionSpec) error {
	for _, spec := range specs {
		log.Info().Str("extension", spec.Name).Int("sources", len(spec.Sources)).
			Msg("extension registered (no base builder configured)")
	}
	return nil
}

// Run succeeds without doing anything.
func (NopBaseBuilder) Run(ctx context.Context) error { return nil }

// Pipeline sequences one build: artifact generation, native extension
// compilation, the base build step and the Java component build, followed
// by unconditional cleanup of the temporary workspace.
//
// Stages run in a fixed linear order and never branch back. Any stage
// failure skips the remaining stages; cleanup still runs and the original
// failure is returned afterwards.
//
// A Pipeline is single-use and single-threaded: one build per workspace,
// one workspace per process.
type Pipeline struct {
	// SettleDelay overrides the pause before workspace deletion.
	// Zero means the default.
	SettleDelay time.Duration

	config    *BuildConfig
	base      BaseBuilder
	registry  ExtensionRegistry
	toolchain *ToolchainPaths
	version   HadoopVersion
}

// NewPipeline creates a pipeline for one build. A nil base builder gets the
// logging no-op.
func NewPipeline(config *BuildConfig, base BaseBuilder) *Pipeline {
	if base == nil {
		base = NopBaseBuilder{}
	}
	return &Pipeline{config: config.withDefaults(), base: base}
}

// Extensions returns the specs selected by the last generation phase.
func (p *Pipeline) Extensions() []ExtensionSpec {
	return p.registry.Specs()
}

// stage is one named step of the build sequence.
type stage struct {
	name string
	run  func(ctx context.Context) error
}

// Run executes the build. Option validation and toolchain resolution happen
// before any stage so that nothing is written and no compiler is spawned
// for a build that cannot succeed.
func (p *Pipeline) Run(ctx context.Context) (err error) {
	if err := p.config.ImplMode.Validate(); err != nil {
		return err
	}
	log.Info().Str("hdfs_core_impl", string(p.config.ImplMode)).Msg("starting build")

	toolchain, version, err := ResolveToolchain(ctx, p.config)
	if err != nil {
		return err
	}
	p.toolchain = toolchain
	p.version = version
	log.Info().
		Str("hadoop_home", toolchain.HadoopHome).
		Str("hadoop_version", version.Raw).
		Str("java_home", toolchain.JavaHome).
		Msg("toolchain resolved")

	java := NewJavaBuilder(ctx, p.config, toolchain, version)
	if err := java.CheckTools(); err != nil {
		return &ConfigurationError{Missing: "PATH", Detail: err.Error()}
	}

	stages := []stage{
		{"generate-config", p.generateConfig},
		{"build-native-extensions", p.compileExtensions},
		{"base-build", p.base.Run},
		{"create-workspace", p.createWorkspace},
		{"build-java-component", java.Run},
	}

	defer p.cleanupWorkspace()

	for _, s := range stages {
		log.Info().Str("stage", s.name).Msg("stage started")
		if err := s.run(ctx); err != nil {
			log.Error().Str("stage", s.name).Err(err).Msg("stage failed")
			return err
		}
	}
	log.Info().Msg("build finished")
	return nil
}

// generateConfig writes the generated artifacts and populates the extension
// registry. Safe to rerun: artifact writes are staleness-gated or
// deterministic, and the registry is reset before repopulation.
func (p *Pipeline) generateConfig(ctx context.Context) error {
	writer := NewArtifactWriter(p.config, p.toolchain)
	if err := writer.WriteRuntimeConfig(); err != nil {
		return err
	}
	if err := writer.WriteVersionFile(ctx); err != nil {
		return err
	}

	p.registry.Reset()
	for _, spec := range SelectExtensions(p.config, p.version, p.toolchain) {
		p.registry.Register(spec)
	}

	if p.config.ImplMode == ImplNative {
		if err := writer.WriteNativeBuildConfig(p.version); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) compileExtensions(ctx context.Context) error {
	return p.base.CompileExtensions(ctx, p.registry.Specs())
}

func (p *Pipeline) createWorkspace(ctx context.Context) error {
	for _, dir := range []string{p.config.BuildTemp, p.config.BuildLib} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating workspace %s: %w", dir, err)
		}
	}
	return nil
}

// cleanupWorkspace removes the temporary compilation directory. It never
// fails: the Cleaner swallows OS errors and a workspace that was never
// created is simply nothing to remove.
func (p *Pipeline) cleanupWorkspace() {
	delay := p.SettleDelay
	if delay == 0 {
		delay = defaultSettleDelay
	}
	// Let lingering filesystem handles from the just-finished compiler
	// settle before the tree goes away.
	time.Sleep(delay)

	cleaner := &Cleaner{DryRun: p.config.DryRun}
	cleaner.Clean(p.config.BuildTemp)
}
