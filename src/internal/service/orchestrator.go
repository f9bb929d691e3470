package service

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"modserve/src/internal/api"
	"modserve/src/internal/domain"
	"modserve/src/internal/service/reload"
	"modserve/src/internal/service/watch"
)

const shutdownTimeout = 5 * time.Second

type Orchestrator struct {
	ctx *domain.Context
}

func CreateOrchestrator(ctx *domain.Context) *Orchestrator {
	return &Orchestrator{
		ctx: ctx,
	}
}

// Run starts the watcher and the HTTP server and blocks until the process
// receives an interrupt, then shuts both down. A nil return means a clean
// exit; a bind failure or watcher setup error comes back as the error.
func (o *Orchestrator) Run() error {
	cfg := o.ctx.Config

	logrus.WithFields(logrus.Fields{
		"version": cfg.Version,
		"root":    cfg.Root,
	}).Info("Starting modserve")

	var (
		hub     *reload.Hub
		watcher *watch.Watcher
	)
	if cfg.LiveReload {
		hub = reload.CreateHub()
		var err error
		watcher, err = watch.Create(cfg.Root, hub)
		if err != nil {
			return err
		}
		go watcher.Run()
	}

	server := api.Create(o.ctx, hub)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-errCh:
		// Server stopped on its own, most likely a bind failure.
		if watcher != nil {
			watcher.Close()
		}
		return err
	case s := <-sig:
		logrus.Debugf("Received %s signal", s)
	}

	if watcher != nil {
		watcher.Close()
	}
	if hub != nil {
		hub.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	fmt.Println("Server stopped")
	return nil
}
