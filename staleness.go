package hadoopext

import "os"

// MustGenerate reports whether a generated artifact needs to be rewritten.
//
// The target is stale when it is missing, or when any prerequisite's
// modification time is strictly newer than the target's. A prerequisite
// that cannot be stat'ed also makes the target stale: the caller cannot
// prove freshness, so regeneration is the safe answer.
//
// Pure function over filesystem metadata; nothing is mutated.
func MustGenerate(target string, prerequisites []string) bool {
	targetInfo, err := os.Stat(target)
	if err != nil {
		return true
	}
	for _, prereq := range prerequisites {
		info, err := os.Stat(prereq)
		if err != nil {
			return true
		}
		if info.ModTime().After(targetInfo.ModTime()) {
			return true
		}
	}
	return false
}
