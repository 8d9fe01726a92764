package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/devhttp/pkg/cli/internal/output"
	"github.com/getmockd/devhttp/pkg/config"
)

// ValidateOutput is the JSON form of a validation summary.
type ValidateOutput struct {
	File    string `json:"file"`
	Listen  string `json:"listen"`
	Static  int    `json:"static"`
	JSON    int    `json:"json"`
	Routes  int    `json:"routes"`
	Filters int    `json:"filters"`
}

var validateOutput string

var validateCmd = &cobra.Command{
	Use:   "validate [config]",
	Short: "Validate a project file without starting the server",
	Long: `Validate a project file without starting the server.

This command checks:
  - YAML or JSON syntax and unknown fields
  - Required fields and valid values
  - Route and filter patterns (regex, glob, match expressions)
  - That static folders, schemas and body files exist

Without an argument, devhttp.yaml, devhttp.yml or devhttp.json in the
current directory is validated.`,
	Example: `  # Validate the project file in the current directory
  devhttp validate

  # Validate a specific file and print a JSON summary
  devhttp validate ./devhttp.yaml -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(validateOutput)
		if err != nil {
			return err
		}
		cfg, path, err := loadProjectConfig(args)
		if err != nil {
			return err
		}

		out := ValidateOutput{
			File:    path,
			Listen:  cfg.Server.Listener().Address(),
			Static:  len(cfg.Static),
			JSON:    len(cfg.JSON),
			Routes:  len(cfg.Routes),
			Filters: len(cfg.Filters),
		}
		w := cmd.OutOrStdout()
		if format == output.JSON {
			return output.WriteJSON(w, out)
		}

		fmt.Fprintf(w, "Config valid: %s\n", out.File)
		tw := output.Table(w)
		fmt.Fprintf(tw, "  listen:\t%s\n", out.Listen)
		fmt.Fprintf(tw, "  static:\t%d\n", out.Static)
		fmt.Fprintf(tw, "  json:\t%d\n", out.JSON)
		fmt.Fprintf(tw, "  routes:\t%d\n", out.Routes)
		fmt.Fprintf(tw, "  filters:\t%d\n", out.Filters)
		return tw.Flush()
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateOutput, "output", "o", "text", "Output format (text, json)")
}

// loadProjectConfig loads args[0] or the project file discovered in the
// current directory.
func loadProjectConfig(args []string) (*config.Config, string, error) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	} else {
		found, err := config.Discover(".")
		if err != nil {
			return nil, "", err
		}
		path = found
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
