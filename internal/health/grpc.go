package health

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/tair/allergy-scan/pkg/logger"
)

// NewGRPCServer creates a gRPC server exposing the health service and
// reflection
func NewGRPCServer(h *Checker) *grpc.Server {
	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(LoggingInterceptor),
	)
	healthpb.RegisterHealthServer(server, h.GRPCServer())

	// Register reflection service (for grpcurl and grpc tools)
	reflection.Register(server)
	return server
}

// ServeGRPC listens on port and serves until the server stops
func ServeGRPC(server *grpc.Server, port string) error {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", port, err)
	}

	logger.Logger.Info().
		Str("port", port).
		Msg("gRPC health server started")

	return server.Serve(lis)
}

// LoggingInterceptor logs every unary call with its duration
func LoggingInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	event := logger.Debug(ctx)
	if err != nil {
		event = logger.Warn(ctx).Err(err)
	}
	event.
		Str("method", info.FullMethod).
		Dur("duration", time.Since(start)).
		Msg("gRPC request")

	return resp, err
}
