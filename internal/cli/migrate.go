package cli

import (
	"github.com/spf13/cobra"

	"github.com/georgemunganga/townkart-backend/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, db, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()
		return database.Migrate(cmd.Context(), db, logger)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
