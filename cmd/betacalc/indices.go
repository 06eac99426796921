package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	marketsadapters "beta_backend/internal/feature/markets/adapters"
	marketsusecase "beta_backend/internal/feature/markets/usecase"
)

var indicesCmd = &cobra.Command{
	Use:   "indices",
	Short: "List the selectable market indices",
	Args:  cobra.NoArgs,
	RunE:  runIndices,
}

func runIndices(cmd *cobra.Command, args []string) error {
	catalog, err := marketsadapters.NewStaticCatalog(cfg.Market.Provider)
	if err != nil {
		return err
	}
	indices, err := marketsusecase.NewIndexUsecase(catalog).List(cmd.Context())
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTICKER")
	for _, idx := range indices {
		fmt.Fprintf(tw, "%s\t%s\n", idx.Name, idx.Ticker)
	}
	return tw.Flush()
}
