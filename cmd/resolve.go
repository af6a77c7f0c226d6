package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/riskpilot/internal/directory"
	"github.com/sells-group/riskpilot/internal/model"
	"github.com/sells-group/riskpilot/internal/resilience"
	"github.com/sells-group/riskpilot/internal/search"
	"github.com/sells-group/riskpilot/pkg/yahoo"
)

var resolveSearch bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <company name>",
	Short: "Resolve a company name to a ticker and tier",
	Long:  "Looks the name up in the company directory. With --search, uses the market provider's search and the local fuzzy index instead.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("offline"); err != nil {
			return err
		}
		dir, err := directory.Load(cfg.Directory.Path)
		if err != nil {
			return eris.Wrap(err, "load directory")
		}

		name := strings.Join(args, " ")
		var id model.CompanyIdentity
		if resolveSearch {
			index, err := search.NewIndex(dir.Companies())
			if err != nil {
				return eris.Wrap(err, "build company index")
			}
			client := yahoo.NewClient(
				yahoo.WithSearchBaseURL(cfg.Market.SearchBaseURL),
				yahoo.WithPolicy(resilience.PolicyFromConfig("yahoo", secs(cfg.Market.TimeoutSecs), cfg.Retry, cfg.Circuit)),
			)
			id, err = search.NewFinder(client, index, dir, cfg.Market.ExchangeSuffix).Find(cmd.Context(), name)
			if err != nil {
				return err
			}
		} else {
			id, err = dir.Identify(name)
			if err != nil {
				return err
			}
		}
		return printJSON(cmd.OutOrStdout(), id)
	},
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveSearch, "search", false, "use market search with local fuzzy fallback")
	rootCmd.AddCommand(resolveCmd)
}
