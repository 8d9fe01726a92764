package cli

import (
	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "devhttp",
	Short: "devhttp is a zero-code HTTP server for local development",
	Long: `devhttp serves static folders, exposes JSON array files as CRUD resources
and answers canned routes, all declared in a project file or on the command line.

Configuration can be provided via flags, environment variables, or a project file.
By default, devhttp looks for devhttp.yaml, devhttp.yml or devhttp.json in the
current directory.`,
	// No Run function here means 'devhttp' with no args will print help text by default.
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in main
}

// Execute runs the command line given in args and returns the command error.
// It is called by main.main.
func Execute(args []string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// Root returns the root command, for documentation and tests.
func Root() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.AddCommand(serveCmd, validateCmd, routesCmd, versionCmd)
}
