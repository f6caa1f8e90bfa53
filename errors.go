package hadoopext

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a missing or unresolvable environment
// prerequisite. The pipeline never starts when one of these is returned:
// toolchain resolution is a hard prerequisite for every other stage.
//
// The Missing field names the environment override the user can export to
// fix the problem (e.g. "JAVA_HOME").
type ConfigurationError struct {
	Missing string // environment override that would resolve the problem
	Detail  string // what was searched and not found
}

func (e *ConfigurationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (set %s to override)", e.Missing, e.Detail, e.Missing)
	}
	return fmt.Sprintf("%s could not be resolved (set %s to override)", e.Missing, e.Missing)
}

// InvalidOptionError reports an unsupported build option value. It is
// returned during option validation, before any generation or external
// process work starts.
type InvalidOptionError struct {
	Option    string   // option name (e.g. "hdfs-core-impl")
	Value     string   // the rejected value
	Supported []string // accepted values
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("%s: %q not supported (supported: %s)",
		e.Option, e.Value, strings.Join(e.Supported, ", "))
}

// BuildError reports a failed external compiler or archiver invocation.
//
// It always carries the exact command line that failed so the user can
// reproduce the invocation by hand. Output holds the combined stdout/stderr
// of the process, when captured.
type BuildError struct {
	Step    string   // which build step failed (e.g. "Javac", "Jar")
	Command []string // the exact argv that was executed
	Output  []string // combined process output, line by line
	Err     error    // underlying exec error, if any
}

func (e *BuildError) Error() string {
	var prefix string
	if e.Err != nil {
		prefix = fmt.Sprintf("%s build failed: %v", e.Step, e.Err)
	} else {
		prefix = fmt.Sprintf("%s build failed", e.Step)
	}
	if len(e.Command) > 0 {
		prefix += fmt.Sprintf("\nCommand: %s", strings.Join(e.Command, " "))
	}
	if out := strings.TrimSpace(strings.Join(e.Output, "\n")); out != "" {
		return fmt.Sprintf("%s\n\nBuild output:\n%s", prefix, out)
	}
	return prefix
}

func (e *BuildError) Unwrap() error { return e.Err }

// newBuildError builds a *BuildError from an argv and captured output.
func newBuildError(step string, command []string, output []string, err error) *BuildError {
	return &BuildError{Step: step, Command: command, Output: output, Err: err}
}
