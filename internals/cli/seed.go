package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	database "dndbuilder_backend/internals/databases"
	"dndbuilder_backend/internals/seeds"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the bundled SRD reference data",
	Long:  `seed migrates the schema, then inserts the bundled proficiencies, races, classes and backgrounds that are not stored yet.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, db, cleanup, err := bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := database.Migrate(db, database.NewRegistry()); err != nil {
			return err
		}
		sum, err := seeds.RunAllSeeds(cmd.Context(), db)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(),
			"seeded %d proficiencies, %d races, %d subraces, %d classes, %d subclasses, %d class features, %d backgrounds\n",
			sum.Proficiencies, sum.Races, sum.Subraces, sum.Classes, sum.Subclasses, sum.ClassFeatures, sum.Backgrounds)
		return nil
	},
}
