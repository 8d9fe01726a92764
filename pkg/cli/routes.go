package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/getmockd/devhttp/pkg/cli/internal/output"
	"github.com/getmockd/devhttp/pkg/config"
	"github.com/getmockd/devhttp/pkg/router"
	"github.com/getmockd/devhttp/pkg/server"
	"github.com/getmockd/devhttp/pkg/store/file"
)

// RouteOutput describes one registered route.
type RouteOutput struct {
	Method  string `json:"method"`
	Pattern string `json:"pattern"`
	Weight  int    `json:"weight"`
}

// FilterOutput describes one registered filter.
type FilterOutput struct {
	Phase   string `json:"phase"`
	Pattern string `json:"pattern"`
}

// RoutesOutput is the JSON form of the routes listing.
type RoutesOutput struct {
	Routes  []RouteOutput  `json:"routes"`
	Filters []FilterOutput `json:"filters"`
}

var routesOutput string

var routesCmd = &cobra.Command{
	Use:   "routes [config]",
	Short: "List the routes and filters a project file registers",
	Long: `List the routes and filters a project file registers.

Routes are printed in the order they are tried: highest weight first, ties in
registration order. Exact paths weigh 100 plus their length, regular
expressions (static and JSON prefixes included) 1 plus their length, capped
below every exact path, and predicates (glob, match, template) 1.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(routesOutput)
		if err != nil {
			return err
		}
		cfg, _, err := loadProjectConfig(args)
		if err != nil {
			return err
		}

		listing, err := listRoutes(cfg)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if format == output.JSON {
			return output.WriteJSON(w, listing)
		}

		tw := output.Table(w)
		fmt.Fprintln(tw, "METHOD\tPATTERN\tWEIGHT")
		for _, r := range listing.Routes {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", r.Method, r.Pattern, r.Weight)
		}
		if len(listing.Filters) > 0 {
			fmt.Fprintln(tw)
			fmt.Fprintln(tw, "PHASE\tPATTERN\t")
			for _, f := range listing.Filters {
				fmt.Fprintf(tw, "%s\t%s\t\n", f.Phase, f.Pattern)
			}
		}
		return tw.Flush()
	},
}

func init() {
	routesCmd.Flags().StringVarP(&routesOutput, "output", "o", "text", "Output format (text, json)")
}

// listRoutes registers cfg on a server that never listens and reports its
// registry.
func listRoutes(cfg *config.Config) (listing RoutesOutput, err error) {
	srv := server.New(cfg.Server.Listener())
	defer func() { err = errors.Join(err, srv.Close()) }()

	// Stores are only opened to register their routes.
	if err := config.Apply(srv, cfg, file.WithoutWatch()); err != nil {
		return listing, err
	}

	routes := srv.Registry().Routes()
	slices.SortStableFunc(routes, func(a, b router.Route) int {
		return b.Weight() - a.Weight()
	})
	listing.Routes = make([]RouteOutput, 0, len(routes))
	for _, r := range routes {
		listing.Routes = append(listing.Routes, RouteOutput{Method: r.Method, Pattern: r.Pattern.String(), Weight: r.Weight()})
	}

	filters := srv.Registry().Filters()
	listing.Filters = make([]FilterOutput, 0, len(filters))
	for _, f := range filters {
		listing.Filters = append(listing.Filters, FilterOutput{Phase: f.Phase.String(), Pattern: f.Pattern.String()})
	}
	return listing, nil
}
