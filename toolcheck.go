package hadoopext

import (
	"fmt"
	"os/exec"
	"strings"
)

// ToolChecker is an optional interface for build components that require
// external tools.
//
// Components implement it to declare their tool dependencies so callers can
// fail fast, before any compiler process is spawned, with a message naming
// exactly what is missing.
//
// # Consumer Usage
//
//	if checker, ok := builder.(ToolChecker); ok {
//	    if err := checker.CheckTools(); err != nil {
//	        return fmt.Errorf("build tools missing: %w", err)
//	    }
//	}
type ToolChecker interface {
	// RequiredTools returns the list of tools this component needs.
	RequiredTools() []ToolRequirement

	// CheckTools verifies that all required tools are available. Optional
	// tools don't cause errors when missing.
	CheckTools() error
}

// ToolRequirement describes one external tool dependency.
//
// # Examples
//
// Required tool:
//
//	ToolRequirement{Name: "javac", Purpose: "Java compiler"}
//
// Optional tool:
//
//	ToolRequirement{Name: "git", Optional: true, Purpose: "revision capture"}
//
// Tool with alternatives:
//
//	ToolRequirement{Name: "gcc", Alternatives: []string{"clang", "cc"}}
type ToolRequirement struct {
	// Name is the primary tool binary name (e.g. "javac", "jar").
	Name string

	// Alternatives are other binaries that can satisfy this requirement.
	Alternatives []string

	// Optional tools are checked but don't fail the build when missing.
	Optional bool

	// Purpose is a human-readable reason the tool is needed.
	Purpose string
}

// CheckToolAvailable checks if a tool is available in the system PATH.
// An explicit path (containing a separator) is accepted as-is by LookPath.
func CheckToolAvailable(tool string) error {
	_, err := exec.LookPath(tool)
	if err != nil {
		return fmt.Errorf("%s not found in PATH", tool)
	}
	return nil
}

// CheckRequiredTools verifies all required tools are available, trying each
// requirement's alternatives in order. All missing required tools are
// reported in a single error.
func CheckRequiredTools(requirements []ToolRequirement) error {
	var missingTools []string

	for _, req := range requirements {
		found := CheckToolAvailable(req.Name) == nil
		if !found {
			for _, alt := range req.Alternatives {
				if CheckToolAvailable(alt) == nil {
					found = true
					break
				}
			}
		}
		if !found && !req.Optional {
			if req.Purpose != "" {
				missingTools = append(missingTools, fmt.Sprintf("%s (%s)", req.Name, req.Purpose))
			} else {
				missingTools = append(missingTools, req.Name)
			}
		}
	}

	if len(missingTools) == 0 {
		return nil
	}
	if len(missingTools) == 1 {
		return fmt.Errorf("%s not found in PATH", missingTools[0])
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missingTools, ", "))
}
