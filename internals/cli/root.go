// Package cli holds the dndbuilder commands: serve (default), migrate and
// seed.
package cli

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"dndbuilder_backend/internals/configs"
	database "dndbuilder_backend/internals/databases"
)

var rootCmd = &cobra.Command{
	Use:          "dndbuilder",
	Short:        "D&D 5e character builder API",
	Long:         `dndbuilder serves a REST API for building D&D 5e characters from races, classes, backgrounds and proficiencies.`,
	// Without a subcommand the server starts.
	RunE:         runServe,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

// Execute runs the command selected by os.Args.
func Execute() error {
	return rootCmd.Execute()
}

// bootstrap loads settings, configures logging and opens the database.
// The returned cleanup closes what was opened, in reverse order.
func bootstrap() (*configs.Settings, io.Writer, *gorm.DB, func(), error) {
	s, err := configs.LoadEnv()
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load settings: %w", err)
	}
	w, logFile, err := configs.SetupLogger(s)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("setup logger: %w", err)
	}
	db, err := database.Open(s)
	if err != nil {
		_ = logFile.Close()
		return nil, nil, nil, nil, err
	}
	cleanup := func() {
		if err := database.Close(db); err != nil {
			log.Printf("[WARN] close database: %v", err)
		}
		_ = logFile.Close()
	}
	return s, w, db, cleanup, nil
}
