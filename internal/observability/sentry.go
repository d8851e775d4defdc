package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

// InitSentry configures error reporting. An empty DSN leaves reporting
// disabled; the returned flush func is always safe to call.
func InitSentry(dsn, environment, release string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,
	})
	if err != nil {
		return func() {}, fmt.Errorf("observability: init sentry: %w", err)
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// ReportError forwards an unexpected error to Sentry with request context.
// Without an initialised client this is a no-op.
func ReportError(r *http.Request, err error, tags map[string]string) {
	if err == nil {
		return
	}
	hub := sentry.CurrentHub()
	if r != nil {
		if h := sentry.GetHubFromContext(r.Context()); h != nil {
			hub = h
		}
	}
	hub.WithScope(func(scope *sentry.Scope) {
		if r != nil {
			scope.SetRequest(r)
			scope.SetTag("route", routePattern(r))
		}
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		hub.CaptureException(err)
	})
}
