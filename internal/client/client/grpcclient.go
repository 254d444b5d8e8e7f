package client

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

var ErrNotServing = errors.New("service not serving")

// HealthClient checks the server's gRPC health endpoint.
type HealthClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      healthpb.HealthClient
}

func NewHealthClient(endpointURL string, opts ...grpc.DialOption) (*HealthClient, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	return &HealthClient{
		endpointURL: endpointURL,
		conn:        conn,
		client:      healthpb.NewHealthClient(conn),
	}, nil
}

func (s *HealthClient) Close() error {
	return s.conn.Close()
}

// Ping returns nil when service reports SERVING. An empty service asks
// for the overall server status.
func (s *HealthClient) Ping(ctx context.Context, service string) error {
	res, err := s.client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return s.mapError(err)
	}
	if res.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", ErrNotServing, res.GetStatus())
	}
	return nil
}

func (s *HealthClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
