package internal

import (
	stdlog "log"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "hadoopext",
	Short: "hadoopext builds the native and Java components of the package",
	Long: `hadoopext orchestrates the build of the package's native extension
modules and its Java pipes component against the locally installed Hadoop.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := log.InfoLevel
		if verbose {
			level = log.DebugLevel
		}
		log.DefaultLogger = log.Logger{
			Level:  level,
			Writer: &log.ConsoleWriter{ColorOutput: true},
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		stdlog.Fatal(err)
	}
}
