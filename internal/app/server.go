package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"google.golang.org/grpc"

	"github.com/rl1809/vending/internal/adapter/handler"
)

const shutdownTimeout = 5 * time.Second

// Serve runs the HTTP and gRPC servers until ctx is cancelled, then shuts both down.
func (a *App) Serve(ctx context.Context) error {
	grpcServer := grpc.NewServer()
	handler.RegisterVendingServer(grpcServer, handler.NewGRPCHandler(a.Service))

	lis, err := net.Listen("tcp", a.Config.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	httpServer := &http.Server{
		Addr:              a.Config.HTTPAddr,
		Handler:           handler.NewHTTPHandler(a.Service, a.log).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		a.log.WithField("addr", a.Config.GRPCAddr).Info("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	go func() {
		a.log.WithField("addr", a.Config.HTTPAddr).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		a.log.Info("shutting down...")
	case serveErr = <-errCh:
		a.log.WithError(serveErr).Error("server failed, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.log.WithError(err).Warn("HTTP shutdown")
	}
	a.log.Info("HTTP server stopped")

	grpcServer.GracefulStop()
	a.log.Info("gRPC server stopped")

	return serveErr
}
