package main

import (
	"github.com/spf13/cobra"
)

// defaultConfigFile is read from the working directory when --config is not given.
const defaultConfigFile = "testimpact.json"

var (
	configFlag  string
	verboseFlag int
	quietFlag   bool
	formatFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "testimpact",
	Short: "Find the tests affected by your code changes",
	Long: `testimpact compares old and new versions of changed source files,
works out which functions changed and how large the change is, and asks an
impact analysis backend which tests need to be re-run or updated.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("testimpact version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"Path to configuration file (default: "+defaultConfigFile+" if present)")
	rootCmd.PersistentFlags().CountVarP(&verboseFlag, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress logs and progress output")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "human", "Output format (human, markdown, json)")
}
