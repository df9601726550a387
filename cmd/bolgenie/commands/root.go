package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/saarzint/bolgenie/internal/app"
	"github.com/saarzint/bolgenie/internal/config"
)

var (
	configPath string
	apiURL     string

	appCtx *app.Container
)

func Execute() error {
	root := &cobra.Command{
		Use:           "bolgenie",
		Short:         "Freight document workspace CLI",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if apiURL != "" {
				cfg.BaseURL = apiURL
			}
			appCtx, err = app.NewContainer(cfg)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appCtx != nil {
				_ = appCtx.Close()
			}
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.bolgenie/config.yml)")
	root.PersistentFlags().StringVar(&apiURL, "api", "", "backend base URL (overrides config)")

	root.AddCommand(
		loginCmd(), signupCmd(), logoutCmd(), statusCmd(),
		accountCmd(), planCmd(), payCmd(),
		shipmentsCmd(), extractCmd(), pdfCmd(), adminCmd(),
	)
	return root.Execute()
}

// session initializes the state machine from stored credentials and returns
// it. Commands that need an established session call this once.
func session(ctx context.Context) *app.Container {
	appCtx.Session.Initialize(ctx)
	return appCtx
}
