package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dndbuilder_backend/internals/cache"
	database "dndbuilder_backend/internals/databases"
	routes "dndbuilder_backend/internals/route"
)

var (
	servePort     string
	skipMigration bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().StringVar(&servePort, "port", "", "listen port (overrides PORT)")
		c.Flags().BoolVar(&skipMigration, "skip-migrate", false, "do not migrate the schema on startup")
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	s, accessLog, db, cleanup, err := bootstrap()
	if err != nil {
		return err
	}
	defer cleanup()

	if !skipMigration {
		if err := database.Migrate(db, database.NewRegistry()); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var c cache.Cache = cache.Noop{}
	if s.RedisURL != "" {
		rc, err := cache.Connect(ctx, s.RedisURL, s.CacheTTL)
		if err != nil {
			log.Printf("[WARN] redis unavailable, caching disabled: %v", err)
		} else {
			defer rc.Close()
			c = rc
			log.Println("[INFO] redis cache enabled")
		}
	}

	app := routes.NewApp(s, db, c, accessLog)

	port := s.Port
	if servePort != "" {
		port = servePort
	}
	addr := ":" + port

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] %s %s listening on %s", s.AppName, s.AppVersion, addr)
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("[INFO] shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Println("[INFO] server stopped")
	return nil
}
