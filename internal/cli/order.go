package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/your-org/burger-pizza/internal/domain/catalog"
	"github.com/your-org/burger-pizza/internal/domain/order"
	"github.com/your-org/burger-pizza/internal/infrastructure/geolocation"
	"github.com/your-org/burger-pizza/internal/pkg/auth"
	"github.com/your-org/burger-pizza/internal/pkg/validation"
)

type orderOptions struct {
	add     []int
	remove  []int
	contact order.ContactInfo
	lat     float64
	lng     float64
	dryRun  bool
	asJSON  bool
}

func newOrderCmd(catalogFile *string) *cobra.Command {
	opts := &orderOptions{}

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Build a cart, check out and submit it in one go",
		Long: `Adds the given items to a fresh cart, removes any listed with --remove
(every unit of them), then checks out with the contact details and submits.
Submitted orders are written to the log.`,
		Example: `  # Two classic burgers and a margherita
  storefrontctl order --add 1,1,2 --name Ana --email ana@example.com \
    --mobile 0600000000 --address "1 rue de la Paix"

  # Show the checkout snapshot without submitting
  storefrontctl order --add 3 --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(*catalogFile)

			menu, err := catalog.Load(cfg.Catalog.File)
			if err != nil {
				return err
			}

			log := newLogger(cmd, cfg)
			session := order.NewSession(auth.NewSessionID(),
				order.WithLogger(log),
				order.WithSink(order.NewLogSink(log)),
				order.WithCurrency(cfg.Catalog.Currency),
			)

			if cmd.Flags().Changed("lat") != cmd.Flags().Changed("lng") {
				return errors.New("--lat and --lng must be given together")
			}
			var locator order.Geolocator
			if cmd.Flags().Changed("lat") {
				locator = geolocation.Reported{Lat: opts.lat, Lng: opts.lng}
			}

			return runOrder(cmd, menu, session, locator, opts)
		},
	}

	cmd.Flags().IntSliceVar(&opts.add, "add", nil, "Catalog ids to add, one unit per occurrence")
	cmd.Flags().IntSliceVar(&opts.remove, "remove", nil, "Catalog ids to remove from the cart")
	cmd.Flags().StringVar(&opts.contact.Name, "name", "", "Customer name")
	cmd.Flags().StringVar(&opts.contact.Email, "email", "", "Customer email")
	cmd.Flags().StringVar(&opts.contact.Mobile, "mobile", "", "Customer mobile number")
	cmd.Flags().StringVar(&opts.contact.Address, "address", "", "Delivery address")
	cmd.Flags().Float64Var(&opts.lat, "lat", 0, "Delivery latitude")
	cmd.Flags().Float64Var(&opts.lng, "lng", 0, "Delivery longitude")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Stop after checkout instead of submitting")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the result as JSON")

	return cmd
}

func runOrder(cmd *cobra.Command, menu catalog.Provider, session *order.Session, locator order.Geolocator, opts *orderOptions) error {
	out := cmd.OutOrStdout()

	for _, id := range opts.add {
		item, ok := menu.Lookup(id)
		if !ok {
			return fmt.Errorf("item %d: %w", id, catalog.ErrNotFound)
		}
		session.AddItem(item)
	}
	for _, id := range opts.remove {
		session.RemoveItem(id)
	}

	snapshot, err := session.BeginCheckout()
	if err != nil {
		return err
	}

	fields := map[order.ContactField]string{
		order.FieldName:    opts.contact.Name,
		order.FieldEmail:   opts.contact.Email,
		order.FieldMobile:  opts.contact.Mobile,
		order.FieldAddress: opts.contact.Address,
	}
	for field, value := range fields {
		if value == "" {
			delete(fields, field)
		}
	}
	if err := session.UpdateContact(fields); err != nil {
		return err
	}

	if locator != nil {
		result, err := session.CaptureLocation(cmd.Context(), locator)
		if err != nil {
			return err
		}
		if res := <-result; res.Err != nil {
			return fmt.Errorf("location: %w", res.Err)
		}
	}

	if opts.dryRun {
		return printResult(out, opts.asJSON, snapshot, session.State().Currency)
	}

	sub, err := session.SubmitOrder(cmd.Context(), validation.RequireContact)
	if err != nil {
		return err
	}

	if opts.asJSON {
		return json.NewEncoder(out).Encode(sub)
	}

	fmt.Fprintf(out, "Order %s placed\n", sub.OrderNumber)
	for _, line := range sub.Lines() {
		fmt.Fprintf(out, "  %d x %s  %s\n", line.Quantity, line.Name, line.Total.StringFixed(2))
	}
	fmt.Fprintf(out, "Total: %s %s\n", sub.Total.StringFixed(2), sub.Currency)
	return nil
}

func printResult(out io.Writer, asJSON bool, snapshot order.Snapshot, currency string) error {
	if asJSON {
		return json.NewEncoder(out).Encode(snapshot)
	}

	fmt.Fprintf(out, "Checkout: %d item(s)\n", len(snapshot.Items))
	for _, entry := range snapshot.Items {
		fmt.Fprintf(out, "  %s  %s\n", entry.Name, entry.UnitPrice.StringFixed(2))
	}
	fmt.Fprintf(out, "Total: %s %s\n", snapshot.Total.StringFixed(2), currency)
	return nil
}
