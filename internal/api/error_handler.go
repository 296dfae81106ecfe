package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dndvault/character-api/internal/api/apierror"
	"github.com/dndvault/character-api/internal/api/metrics"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Keeps the status and message of errors raised as *echo.HTTPError.
//   - Classifies every other error into one category with a safe message.
//   - Logs server-side failures internally without leaking details to the client.
//   - Renders the same JSON envelope for every endpoint.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		class := resolveError(err)
		metrics.APIErrorsTotal.WithLabelValues(string(class.Type)).Inc()

		if class.Status >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("type", string(class.Type)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("request failed")
		}

		resp := apierror.NewResponse(class, err, time.Now())
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(class.Status)
			return
		}
		_ = c.JSON(class.Status, resp)
	}
}

func resolveError(err error) apierror.Classification {
	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return apierror.ForStatus(he.Code, fmt.Sprintf("%v", he.Message))
	}
	return apierror.Classify(err)
}
