package interceptors

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// LoggerInterceptor логирует входящие запросы.
func LoggerInterceptor(lg *zap.Logger) grpc.UnaryServerInterceptor {
	sl := lg.Sugar()
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		duration := time.Since(start)
		st, _ := status.FromError(err)
		sl.Infoln(
			"gRPC request",
			"method", info.FullMethod,
			"duration", duration,
			"code", st.Code(),
		)
		return resp, err
	}
}
