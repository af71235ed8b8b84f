package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// It logs the procedure name, user ID, request ID, duration, and any error codes/messages.
// Place it after the auth interceptor so the principal is known.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure
			userID := GetUserID(ctx) // empty if anonymous
			requestID := RequestIDFrom(ctx)

			resp, err := next(ctx, req)

			duration := time.Since(start).Milliseconds()
			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal {
					logger.WarnContext(ctx, "RPC error",
						"procedure", procedure,
						"code", connectErr.Code(),
						"error", connectErr.Message(),
						"user_id", userID,
						"request_id", requestID,
						"duration_ms", duration,
					)
				} else {
					logger.ErrorContext(ctx, "RPC error",
						"procedure", procedure,
						"error", err,
						"user_id", userID,
						"request_id", requestID,
						"duration_ms", duration,
					)
				}
			} else {
				logger.InfoContext(ctx, "RPC ok",
					"procedure", procedure,
					"user_id", userID,
					"request_id", requestID,
					"duration_ms", duration,
				)
			}

			return resp, err
		}
	}
}
