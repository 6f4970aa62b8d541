package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/blueprints-backend/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the blueprint tables and indexes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		cfg.DBAutoMigrate = true
		store, err := app.OpenStorage(cfg, log)
		if err != nil {
			return err
		}
		defer store.Close()

		log.Info("migrations applied", "driver", store.Driver())
		fmt.Fprintf(cmd.OutOrStdout(), "migrated %s schema\n", store.Driver())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
