package hadoopext

import (
	"os"
	"path/filepath"

	"github.com/phuslu/log"
)

// Cleaner removes generated and temporary build state. Removal is
// best-effort by contract: a missing target or an OS-level failure is
// logged and skipped, never raised, so one stubborn path cannot block the
// remaining cleanup targets or abort the caller.
type Cleaner struct {
	// DryRun only logs what would be removed.
	DryRun bool
}

// Clean removes every resolved target. Each target may be a glob pattern;
// patterns that match nothing are silently fine.
func (c *Cleaner) Clean(targets ...string) {
	for _, target := range targets {
		matches, err := filepath.Glob(target)
		if err != nil || len(matches) == 0 {
			// Not a matching pattern: treat the target as a literal path
			// so a plain missing file still gets a log line.
			c.removePath(target)
			continue
		}
		for _, match := range matches {
			c.removePath(match)
		}
	}
}

// removePath removes one path: a symlink is unlinked without following it,
// a directory is removed recursively, a file is unlinked.
func (c *Cleaner) removePath(path string) {
	log.Info().Str("path", path).Msg("removing")
	if c.DryRun {
		return
	}

	info, err := os.Lstat(path)
	if err != nil {
		log.Debug().Str("path", path).Err(err).Msg("nothing to remove")
		return
	}

	if info.IsDir() && info.Mode()&os.ModeSymlink == 0 {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		log.Warn().Str("path", path).Err(err).Msg("removal failed, continuing")
	}
}

// CleanAll removes everything a build can generate: the marker file, the
// generated runtime config and version files, the build tree, patched
// sources and any build symlinks left under src/ or patches/.
func CleanAll(config *BuildConfig) {
	config = config.withDefaults()
	cleaner := &Cleaner{DryRun: config.DryRun}

	targets := []string{
		config.MarkerPath(),
		config.RuntimeConfigPath(),
		config.VersionFilePath(),
		filepath.Join(config.ProjectDir, "build"),
		filepath.Join(config.ProjectDir, "src", "*.patched"),
	}
	targets = append(targets, buildSymlinks(config)...)
	cleaner.Clean(targets...)
}

// buildSymlinks finds symbolic links the build dropped into the source and
// patches trees. Only the links themselves are returned; their targets are
// real sources and must survive cleanup.
func buildSymlinks(config *BuildConfig) []string {
	var links []string
	for _, pattern := range []string{
		filepath.Join(config.ProjectDir, "src", "*"),
		filepath.Join(config.ProjectDir, "patches", "*"),
	} {
		matches, _ := filepath.Glob(pattern)
		for _, match := range matches {
			if info, err := os.Lstat(match); err == nil && info.Mode()&os.ModeSymlink != 0 {
				links = append(links, match)
			}
		}
	}
	return links
}
