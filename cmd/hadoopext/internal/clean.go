package internal

import (
	"github.com/spf13/cobra"

	hadoopext "github.com/contriboss/hadoop-extension-go"
)

var (
	cleanProjectDir string
	cleanDryRun     bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove generated and temporary build state",
	Long: `Clean removes the generated configuration and version files, the
build tree, patched sources and build symlinks. Removal is best-effort:
missing targets are fine and failures are logged, not fatal.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().StringVarP(&cleanProjectDir, "project-dir", "C", ".", "Project root directory")
	cleanCmd.Flags().BoolVarP(&cleanDryRun, "dry-run", "n", false, "Only report what would be removed")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	hadoopext.CleanAll(&hadoopext.BuildConfig{
		ProjectDir: cleanProjectDir,
		DryRun:     cleanDryRun,
	})
	return nil
}
