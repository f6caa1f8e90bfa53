package hadoopext

import (
	"fmt"
	"regexp"
	"strconv"
)

// versionPattern accepts the numeric prefix of a Hadoop version string.
// Vendor suffixes ("0.20.2-cdh3u4") are kept in Raw but ignored for
// comparison purposes.
var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?`)

// HadoopVersion is the parsed version of the Hadoop installation the build
// targets. It is detected once by ResolveToolchain and then used, immutable,
// as the decision key for all source-set and ABI-macro selection.
//
// Comparison helpers work on the numeric components only; the original
// string (including any distribution suffix) is preserved in Raw and used
// wherever a version-named path is constructed.
type HadoopVersion struct {
	Major int
	Minor int
	Patch int
	Raw   string
}

// ParseHadoopVersion parses strings like "1.2.1", "2.6.0" or
// "0.20.2-cdh3u4". At least major and minor components are required.
func ParseHadoopVersion(s string) (HadoopVersion, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return HadoopVersion{}, fmt.Errorf("cannot parse hadoop version %q", s)
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch := 0
	if m[3] != "" {
		patch, _ = strconv.Atoi(m[3])
	}
	return HadoopVersion{Major: major, Minor: minor, Patch: patch, Raw: s}, nil
}

// String returns the original version string.
func (v HadoopVersion) String() string { return v.Raw }

// Main returns the leading two version components.
func (v HadoopVersion) Main() (major, minor int) {
	return v.Major, v.Minor
}

// AtLeast reports whether the version's leading components are >= the given
// major.minor pair.
func (v HadoopVersion) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}
