package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/warp/attendance-engine/api"
	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/factory"
)

// NewServeCommand starts the HTTP server.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	var port int
	var holidaysFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.Config
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("holidays") {
				cfg.HolidaysFile = holidaysFile
			}
			opts.Config = cfg

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, holidays, err := openStore(ctx, opts)
			if err != nil {
				return err
			}
			defer store.Close()

			if cfg.HolidaysFile != "" {
				n, err := importHolidays(ctx, store, cfg.HolidaysFile, cfg.CompanyID)
				if err != nil {
					return err
				}
				log.Printf("[Server] Imported %d holidays from %s", n, cfg.HolidaysFile)
			}

			handler := api.NewHandler(store, holidays)
			handler.CompanyID = cfg.CompanyID
			handler.Timeout = cfg.StoreTimeout
			handler.Service.Clock = attendance.SystemClock{Location: cfg.Location()}
			handler.Service.MaxRangeDays = cfg.MaxRangeDays

			if _, err := handler.RefreshHolidays(ctx); err != nil {
				return err
			}

			refresher := api.NewHolidayRefresher(handler)
			refresher.CheckInterval = cfg.HolidayRefresh
			refresher.Enabled = cfg.HolidayRefresh > 0
			refresher.Start()
			defer refresher.Stop()

			server := &http.Server{
				Addr:         cfg.Addr(),
				Handler:      api.NewRouter(handler, cfg.AllowedOrigins),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Printf("[Server] Starting on http://localhost%s (today in %s)", cfg.Addr(), cfg.Location())
				log.Printf("[Server] API available at http://localhost%s/api", cfg.Addr())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return err
				}
			case <-ctx.Done():
			}

			log.Println("[Server] Shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return err
			}
			log.Println("[Server] Stopped")
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "HTTP server port")
	cmd.Flags().StringVar(&holidaysFile, "holidays", "", "holiday calendar file (YAML/JSON) imported at startup")
	return cmd
}

// importHolidays loads a calendar file into the store. An empty companyID
// keeps the file's own company.
func importHolidays(ctx context.Context, store holidaySaver, path, companyID string) (int, error) {
	holidays, err := factory.LoadCalendarFile(path)
	if err != nil {
		return 0, err
	}
	for _, h := range holidays {
		if companyID != "" {
			h.CompanyID = companyID
		}
		if _, err := store.SaveHoliday(ctx, h); err != nil {
			return 0, err
		}
	}
	return len(holidays), nil
}
