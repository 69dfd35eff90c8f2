package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ougirez/crimestat/internal/pkg/logger"
)

const logFieldRequestID = "request_id"

// RequestContextMiddleware tags the request context with a request id so
// every log line written while serving it carries the id.
func (svc *APIService) RequestContextMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		req := ctx.Request()

		requestID := req.Header.Get(echo.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx.Response().Header().Set(echo.HeaderXRequestID, requestID)

		reqCtx := logger.WithFields(req.Context(), logFieldRequestID, requestID)
		ctx.SetRequest(req.WithContext(reqCtx))

		return next(ctx)
	}
}
