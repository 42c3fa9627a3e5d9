package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// newEngine returns a bare gin engine in the configured mode. Middleware is
// installed by the httpapi route registrars.
func newEngine() *gin.Engine {
	gin.SetMode(cfg.GinMode)
	return gin.New()
}

// newServer applies the configured timeouts to h listening on port.
func newServer(port string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           h,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}

// runServer serves srv until ctx is done, then shuts it down gracefully.
// Extra background jobs run in the same group and receive the group context.
func runServer(ctx context.Context, name string, srv *http.Server, jobs ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("server", name).Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: listen: %w", name, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Str("server", name).Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("%s: graceful shutdown: %w", name, err)
		}
		return nil
	})

	for _, job := range jobs {
		job := job
		g.Go(func() error { return job(gctx) })
	}

	return g.Wait()
}
