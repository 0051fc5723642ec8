package command

import (
	"context"
	"errors"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/jcmexdev/petcare-sagas/internal/pkg/interceptors"
)

// NewGRPCServer builds a grpc.Server that routes every call to s, with
// tracing and request-id propagation installed.
func (s *Server) NewGRPCServer(extra ...grpc.ServerOption) *grpc.Server {
	opts := append(s.ServerOptions(),
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.StreamInterceptor(interceptors.TraceServerInterceptor()),
	)
	return grpc.NewServer(append(opts, extra...)...)
}

// Serve runs gs on lis until ctx is done, then stops it gracefully.
func Serve(ctx context.Context, gs *grpc.Server, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() { errCh <- gs.Serve(lis) }()

	select {
	case <-ctx.Done():
		gs.GracefulStop()
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	}
}

// Dial opens a client connection to a backend with tracing installed.
func Dial(addr string, extra ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}, extra...)
	return grpc.NewClient(addr, opts...)
}
