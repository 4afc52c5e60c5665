package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/ProtStats/pkg/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analysis wizard in the browser",
	Long: `Start the web wizard: import a protein group table and its metadata,
preprocess the matrix, then run plots and statistics.

Examples:
  protstats serve
  protstats serve --addr :8080 --config protstats.yaml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if address != "" {
		cfg.Server.Address = address
	}

	logger := log.New(os.Stderr, log.Prefix(), log.Ldate|log.Ltime)
	router, err := web.Router(web.NewGlobal(cfg, logger))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errors := make(chan error, 1)
	go func() {
		logger.Printf("Serving %s on http://%s\n", cfg.Server.Site, cfg.Server.Address)
		errors <- srv.ListenAndServe()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errors:
		return err
	case s := <-sig:
		logger.Printf("Received %v, shutting down\n", s)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
