package hadoopext

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildErrorFormatting(t *testing.T) {
	underlying := errors.New("exit status 2")
	err := newBuildError("Javac",
		[]string{"javac", "-d", "build/temp", "Foo.java"},
		[]string{"Foo.java:1: error: cannot find symbol"},
		underlying)

	msg := err.Error()
	if !strings.Contains(msg, "Javac build failed: exit status 2") {
		t.Errorf("missing failure prefix: %q", msg)
	}
	if !strings.Contains(msg, "Command: javac -d build/temp Foo.java") {
		t.Errorf("missing exact command line: %q", msg)
	}
	if !strings.Contains(msg, "Build output:\nFoo.java:1: error: cannot find symbol") {
		t.Errorf("missing build output: %q", msg)
	}
	if !errors.Is(err, underlying) {
		t.Error("expected Unwrap to expose the exec error")
	}
}

func TestBuildErrorWithoutOutput(t *testing.T) {
	err := newBuildError("Jar", []string{"jar", "cf", "a.jar"}, nil, nil)
	msg := err.Error()
	if strings.Contains(msg, "Build output") {
		t.Errorf("unexpected output section: %q", msg)
	}
	if !strings.Contains(msg, "Jar build failed") {
		t.Errorf("missing prefix: %q", msg)
	}
}

func TestConfigurationErrorNamesOverride(t *testing.T) {
	err := &ConfigurationError{Missing: "JAVA_HOME", Detail: "no JDK found"}
	if !strings.Contains(err.Error(), "JAVA_HOME") {
		t.Errorf("error must name the override: %v", err)
	}
}
