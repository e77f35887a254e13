package main

import (
	"context"
	"flag"
	"io"
	"net/http"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/Laisky/palm-client/common/config"
	"github.com/Laisky/palm-client/common/logger"
	rcontroller "github.com/Laisky/palm-client/relay/controller"
	"github.com/Laisky/palm-client/router"
)

const shutdownTimeout = 10 * time.Second

// serve runs the HTTP facade until ctx is cancelled.
func serve(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var cf connectionFlags
	cf.register(fs)
	addr := fs.String("addr", config.ServerAddress, "listen address")
	if err := parseFlags(fs, args, stdout); err != nil {
		return err
	}

	conn, err := cf.build()
	if err != nil {
		return err
	}
	palmClient, err := rcontroller.New(conn)
	if err != nil {
		return err
	}

	if !config.DebugEnabled {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              *addr,
		Handler:           router.SetRouter(palmClient),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Logger.Info("http facade listening",
			zap.String("addr", *addr), zap.String("connection", conn.String()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	logger.Logger.Info("shutting down http facade")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown http facade")
	}
	return nil
}
