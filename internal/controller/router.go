package controller

import (
	"log/slog"
	"pilot-bidding-api/internal/service"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo"
)

const headerRequestID = "X-Request-ID"

func SetupRoutesHandlers(handler *echo.Echo, services *service.Services, log *slog.Logger) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	handler.Use(requestLogger(log))

	api := handler.Group("/api")
	newDiagnosticRoutesHandler(api, services)
	newInvitationRoutesHandler(api, services, validate, log)
}

// jsonFieldName reports validation errors under the wire name of a field.
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}

	return name
}

// requestLogger logs the matched route rather than the raw path, so
// invitation tokens never reach the logs.
func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(headerRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(headerRequestID, requestID)
			c.Set("log", log.With(slog.String("request_id", requestID)))

			start := time.Now()
			err := next(c)

			log.Info("request",
				slog.String("request_id", requestID),
				slog.String("method", c.Request().Method),
				slog.String("route", c.Path()),
				slog.Int("status", c.Response().Status),
				slog.Duration("duration", time.Since(start)))

			return err
		}
	}
}

func loggerFrom(c echo.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := c.Get("log").(*slog.Logger); ok {
		return l
	}

	return fallback
}
