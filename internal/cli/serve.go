package cli

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

	"github.com/scorewise/scorewise/internal/api"
	"github.com/scorewise/scorewise/internal/app/features"
	"github.com/scorewise/scorewise/internal/app/scoring"
	"github.com/scorewise/scorewise/internal/daemon"
	"github.com/scorewise/scorewise/internal/infra/model"
	"github.com/scorewise/scorewise/internal/infra/sqlite"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scoring HTTP server",
	Long: `Start the scoring API server. The fitted model and scaler artifacts are
loaded once at startup; a missing artifact aborts the launch rather than
serving bogus scores.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := daemon.LoadConfig(configPath)
	if err != nil {
		return err
	}

	svc, db, err := buildService(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	server := api.NewServer(svc)
	if cfg.API.EnableMetrics {
		server.EnableMetrics()
	}

	httpServer := &http.Server{
		Addr:         cfg.API.Addr(),
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("scorewise API listening on http://%s", cfg.API.Addr())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
		log.Println("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// buildService wires the scoring pipeline from configuration. The caller
// owns closing the returned DB.
func buildService(cfg daemon.Config) (*scoring.Service, *sqlite.DB, error) {
	scaler, err := model.LoadScaler(cfg.Model.ScalerPath)
	if err != nil {
		return nil, nil, err
	}
	mdl, err := model.LoadModel(cfg.Model.ModelPath)
	if err != nil {
		return nil, nil, err
	}

	db, err := sqlite.Open(cfg.Database.Dir)
	if err != nil {
		return nil, nil, err
	}

	calc := scoring.NewCalculator(scaler, mdl, scoring.Config{
		MinScore: cfg.Scoring.MinScore,
		MaxScore: cfg.Scoring.MaxScore,
	})
	svc := scoring.NewService(db, db, features.NewExtractor(), calc)
	return svc, db, nil
}
