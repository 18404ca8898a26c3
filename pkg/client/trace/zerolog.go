package trace

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/speedrun-go/speedrun-client/pkg/request"
)

// ZerologTracer writes structured events of each request to the logger.
// The wire attempts are logged at the debug level, the result at the info level, or the error level on failure.
func ZerologTracer(logger zerolog.Logger) Factory {
	return func(ctx context.Context, reqDef *request.WireRequest) (context.Context, *ClientTrace) {
		log := logger.With().Str("method", reqDef.Method).Str("url", reqDef.URL.String()).Logger()
		startTime := time.Now()
		attempts := 0
		return ctx, &ClientTrace{
			HTTPRequestStart: func(_ *http.Request) {
				attempts++
				log.Debug().Int("attempt", attempts).Msg("http request started")
			},
			HTTPRequestDone: func(res *http.Response, err error) {
				event := log.Debug().Int("attempt", attempts)
				if res != nil {
					event = event.Int("status", res.StatusCode)
				}
				event.Err(err).Msg("http request done")
			},
			HTTPRequestRetry: func(attempt int, delay time.Duration) {
				log.Debug().Int("attempt", attempt).Dur("delay", delay).Msg("http request retry")
			},
			RequestProcessed: func(res *request.WireResponse, err error) {
				if err != nil {
					log.Error().Err(err).Int("attempts", attempts).Dur("duration", time.Since(startTime)).Msg("request failed")
					return
				}
				log.Info().Int("status", res.StatusCode).Int("attempts", attempts).Dur("duration", time.Since(startTime)).Msg("request done")
			},
		}
	}
}
