// Package platform hosts the HTTP handler either as a local server or behind
// the serverless invocation adapter.
package platform

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

// InvocationHandler answers one function URL / HTTP API (payload v2) event.
type InvocationHandler func(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

// NewInvocationHandler translates invocation events to and from h.
func NewInvocationHandler(h http.Handler) InvocationHandler {
	return httpadapter.NewV2(h).ProxyWithContext
}

// StartLambda blocks serving invocations. Signature checks happen at the
// function URL before an event reaches h.
func StartLambda(h http.Handler) {
	lambda.Start(NewInvocationHandler(h))
}

// ListenAndServe serves h on addr until ctx is cancelled or the process gets
// SIGINT/SIGTERM, then shuts down gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("task app listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
