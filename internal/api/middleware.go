package api

import (
	"context"
	"net/http"

	"github.com/didip/tollbooth/v5"
	"github.com/didip/tollbooth/v5/limiter"

	"github.com/chapterhq/lodge/internal/observability"
	"github.com/chapterhq/lodge/internal/utilities"
)

// limitHandler applies a tollbooth limiter keyed by the configured rate
// limit header, falling back to the client IP when no header is set.
func (a *API) limitHandler(lmt *limiter.Limiter) middlewareHandler {
	return func(w http.ResponseWriter, req *http.Request) (context.Context, error) {
		c := req.Context()

		key := utilities.GetIPAddress(req)
		if limitHeader := a.config.RateLimit.Header; limitHeader != "" {
			headerKey := req.Header.Get(limitHeader)
			if headerKey == "" {
				log := observability.GetLogEntry(req)
				log.WithField("header", limitHeader).Warn("request does not have a value for the rate limiting header, rate limiting is not applied")
				return c, nil
			}
			key = headerKey
		}

		if err := tollbooth.LimitByKeys(lmt, []string{key}); err != nil {
			return c, tooManyRequestsError(ErrorCodeOverRequestRateLimit, "Request rate limit reached")
		}

		return c, nil
	}
}
