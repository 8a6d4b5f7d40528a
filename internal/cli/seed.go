package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/georgemunganga/townkart-backend/internal/modules/rental"
	"github.com/georgemunganga/townkart-backend/internal/modules/user"
)

var adminFlags struct {
	name     string
	email    string
	password string
}

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create an admin account or promote an existing user",
	Long: `Create an admin account with the given credentials. When a user with
the email already exists it is promoted to admin and its password is left
unchanged.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if adminFlags.email == "" || adminFlags.password == "" {
			return errors.New("--email and --password are required")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, db, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		users := user.NewService(user.NewPostgresRepository(db), cfg.BcryptCost)
		u, created, err := users.EnsureAdmin(cmd.Context(), adminFlags.name, adminFlags.email, adminFlags.password)
		if err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
		if created {
			logger.Info("admin created", "id", u.ID, "email", u.Email)
		} else {
			logger.Info("existing user promoted to admin", "id", u.ID, "email", u.Email)
		}
		return nil
	},
}

var seedCarsCmd = &cobra.Command{
	Use:   "seed-cars",
	Short: "Replace the rental fleet with the sample cars",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, db, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		res, err := rental.NewService(rental.NewPostgresRepository(db)).SeedCars(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to seed cars: %w", err)
		}
		logger.Info("fleet replaced", "inserted", res.Inserted)
		return nil
	},
}

func init() {
	seedAdminCmd.Flags().StringVar(&adminFlags.name, "name", "Admin", "display name for a new admin")
	seedAdminCmd.Flags().StringVar(&adminFlags.email, "email", "", "admin email")
	seedAdminCmd.Flags().StringVar(&adminFlags.password, "password", "", "admin password (min 6 characters)")
	rootCmd.AddCommand(seedAdminCmd, seedCarsCmd)
}
