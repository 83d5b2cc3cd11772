package cli

import (
	"github.com/spf13/cobra"

	database "dndbuilder_backend/internals/databases"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every table and seed the six ability scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, db, cleanup, err := bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()
		return database.Migrate(db, database.NewRegistry())
	},
}
