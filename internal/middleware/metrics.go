package middleware

import (
	"context"
	"time"

	"connectrpc.com/connect"
)

// RPCObserver records RPC latencies. *metrics.Metrics implements it.
type RPCObserver interface {
	ObserveRPC(procedure, code string, d time.Duration)
}

// MetricsInterceptor reports the duration and result code of every unary call.
func MetricsInterceptor(observer RPCObserver) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			observer.ObserveRPC(req.Spec().Procedure, code, time.Since(start))
			return resp, err
		}
	}
}
