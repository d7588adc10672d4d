// Package serve handles the HTTP API command
package serve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"fjacquet/clarity-ledger/cmd/root"
	"fjacquet/clarity-ledger/internal/httpapi"
	"fjacquet/clarity-ledger/internal/logging"
)

// ShutdownTimeout bounds how long in-flight requests may take to finish.
const ShutdownTimeout = 10 * time.Second

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ledger as a local JSON API",
	Long: `Start an HTTP server exposing transactions, budgets, categories, reports,
backups, bill scanning and tips under /api. The server stops gracefully on
interrupt.`,
	Args: cobra.NoArgs,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().String("address", "", "Listen address (default from configuration)")
}

func serveFunc(cmd *cobra.Command, args []string) error {
	app, err := root.App()
	if err != nil {
		return err
	}
	cfg := app.GetConfig()

	address, _ := cmd.Flags().GetString("address")
	if address == "" {
		address = cfg.Server.Address
	}
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	h := httpapi.NewHandler(app.GetLedger(), app.GetScanner(), app, httpapi.Config{
		TrendMonths:  cfg.Report.TrendMonths,
		CSVDelimiter: cfg.CSVDelimiter(),
	}, app.GetLogger())

	ln, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Serve(ctx, ln, httpapi.NewRouter(h), app.GetLogger())
}

// Serve answers requests on ln until ctx is done, then shuts the server
// down, waiting up to ShutdownTimeout for in-flight requests.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, logger logging.Logger) error {
	logger = logging.OrDiscard(logger)
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting API server", logging.F("address", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("API server stopped")
	return nil
}
