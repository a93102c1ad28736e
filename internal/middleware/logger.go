package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestLogger logs every request once it has been handled.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// let echo write the response so the status is final
				c.Error(err)
			}

			req := c.Request()
			fields := []zap.Field{
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.String("method", req.Method),
				zap.String("path", c.Path()),
				zap.String("uri", req.RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_ip", c.RealIP()),
			}
			if ref, ok := CurrentAccount(c); ok {
				fields = append(fields, zap.String("account", ref.Key()))
			}

			switch {
			case c.Response().Status >= 500:
				fields = append(fields, zap.Error(err))
				logger.Error("request failed", fields...)
			case err != nil:
				logger.Info("request rejected", append(fields, zap.Error(err))...)
			default:
				logger.Info("request handled", fields...)
			}
			return nil
		}
	}
}
