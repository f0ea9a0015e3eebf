// Package nodeclient builds and wraps the client connections the
// sequencer holds open to worker node managers.
package nodeclient

import (
	"context"
	"fmt"

	"github.com/dbench/sequencer/internal/rpccodec"
	"github.com/dbench/sequencer/pb"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
)

// Stub is the sequencer's view of one worker's control surface. Real
// stubs wrap a *grpc.ClientConn; internal/nodesim provides an in-memory
// implementation for tests.
type Stub interface {
	ConfigureNodes(ctx context.Context, req *pb.ConfigureRequest) (*pb.ConfigureResponse, error)
	IntroducePeers(ctx context.Context, req *pb.IntroduceRequest) (*pb.IntroduceResponse, error)
	RunTraffic(ctx context.Context, req *pb.RunTrafficRequest) (*pb.RunTrafficResponse, error)
	CancelTraffic(ctx context.Context, req *pb.CancelTrafficRequest) (*pb.CancelTrafficResponse, error)
	Close() error
}

type grpcStub struct {
	conn   *grpc.ClientConn
	client pb.NodeManagerClient
}

// Dial opens a lazy (non-blocking) connection to target, following the
// same grpc.NewClient + WaitForReady discipline the rest of the
// framework's RPC clients use: connections are established on first
// call rather than at dial time, so registering a node manager that
// isn't listening yet doesn't block RegisterNode. Every call is forced
// onto rpccodec.Codec so pb's plain-struct messages serialize
// correctly (see internal/rpccodec's package doc); the node manager
// server on the other end must force the same codec.
func Dial(target string, creds credentials.TransportCredentials) (Stub, error) {
	conn, err := grpc.NewClient(
		target,
		grpc.WithTransportCredentials(creds),
		grpc.WithDefaultCallOptions(
			grpc.WaitForReady(true),
			grpc.ForceCodec(rpccodec.Codec{}),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create node manager stub for %s: %w", target, err)
	}
	return &grpcStub{conn: conn, client: pb.NewNodeManagerClient(conn)}, nil
}

func (s *grpcStub) ConfigureNodes(ctx context.Context, req *pb.ConfigureRequest) (*pb.ConfigureResponse, error) {
	return s.client.ConfigureNodes(ctx, req)
}

func (s *grpcStub) IntroducePeers(ctx context.Context, req *pb.IntroduceRequest) (*pb.IntroduceResponse, error) {
	return s.client.IntroducePeers(ctx, req)
}

func (s *grpcStub) RunTraffic(ctx context.Context, req *pb.RunTrafficRequest) (*pb.RunTrafficResponse, error) {
	return s.client.RunTraffic(ctx, req)
}

func (s *grpcStub) CancelTraffic(ctx context.Context, req *pb.CancelTrafficRequest) (*pb.CancelTrafficResponse, error) {
	return s.client.CancelTraffic(ctx, req)
}

func (s *grpcStub) Close() error {
	return s.conn.Close()
}
