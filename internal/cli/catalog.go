package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/your-org/burger-pizza/internal/domain/catalog"
)

func newCatalogCmd(catalogFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the menu",
		Example: `  storefrontctl catalog
  storefrontctl catalog --catalog ./menu.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(*catalogFile)

			menu, err := catalog.Load(cfg.Catalog.File)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRICE")
			for _, item := range menu.Items() {
				fmt.Fprintf(w, "%d\t%s\t%s %s\n", item.ID, item.Name, item.UnitPrice.StringFixed(2), cfg.Catalog.Currency)
			}
			return w.Flush()
		},
	}
}
