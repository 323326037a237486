package tracking

import (
	"fmt"
	"time"

	"physiocare/config"

	"github.com/getsentry/sentry-go"
)

// Init configures the Sentry client. An empty DSN leaves reporting disabled;
// CaptureError is then a no-op.
func Init(cfg config.SentryConfig, appCfg config.AppConfig) error {
	if cfg.DSN == "" {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      appCfg.Env,
		Release:          "physiocare",
		TracesSampleRate: 0.2,
	})
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}

	return nil
}

func CaptureError(err error, context map[string]interface{}) {
	if err == nil {
		return
	}
	if hub := sentry.CurrentHub(); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			for k, v := range context {
				scope.SetExtra(k, v)
			}
			hub.CaptureException(err)
		})
	}
}

// Flush waits for buffered events before shutdown.
func Flush() {
	sentry.Flush(2 * time.Second)
}
