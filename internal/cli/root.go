// Package cli implements storefrontctl, a terminal client that drives an
// order session without the HTTP surface.
package cli

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/your-org/burger-pizza/internal/config"
	"github.com/your-org/burger-pizza/internal/pkg/logger"
)

// NewRootCmd builds the storefrontctl command tree
func NewRootCmd() *cobra.Command {
	var catalogFile string

	cmd := &cobra.Command{
		Use:   "storefrontctl",
		Short: "Browse the menu and place orders from the terminal",
		Long: `storefrontctl drives a single ordering session from the command line.

It reads the same environment and .env file as the API server, so the menu,
currency and logging settings match.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "YAML menu file (defaults to CATALOG_FILE or the built-in menu)")

	cmd.AddCommand(newCatalogCmd(&catalogFile))
	cmd.AddCommand(newOrderCmd(&catalogFile))

	return cmd
}

func loadConfig(catalogFile string) *config.Config {
	cfg := config.FromEnv()
	if catalogFile != "" {
		cfg.Catalog.File = catalogFile
	}
	return cfg
}

func newLogger(cmd *cobra.Command, cfg *config.Config) logrus.FieldLogger {
	return logger.NewWithWriter(cfg, cmd.ErrOrStderr())
}
