package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nkoval/newsdeck/internal/config"
	"github.com/nkoval/newsdeck/internal/debuglog"
	"github.com/nkoval/newsdeck/internal/relay"
)

var flagListen string

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Serve the key-hiding relay proxy",
	Long: "Runs an HTTP server that forwards headline queries to the upstream\n" +
		"API with the server-held key appended, so clients never see it.",
	RunE: runRelay,
}

func init() {
	relayCmd.Flags().StringVar(&flagListen, "listen", "", "listen address (overrides config)")
}

func runRelay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagListen != "" {
		cfg.Relay.Listen = flagListen
	}

	if err := debuglog.Setup(debuglog.ParseLevel(cfg.Logging.Level), cfg.Logging.Path); err != nil {
		fmt.Fprintf(os.Stderr, "warning: debug log unavailable: %v\n", err)
	}
	defer debuglog.Close()

	srv, err := relay.NewServer(cfg, cfg.API.Key)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	fmt.Printf("newsdeck relay listening on %s\n", cfg.Relay.Listen)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		debuglog.Infof("relay: received %v, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down relay: %w", err)
	}
	return nil
}
