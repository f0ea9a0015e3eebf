package sequencer

import (
	"context"

	"github.com/dbench/sequencer/internal/seqerr"
	"github.com/dbench/sequencer/pb"
)

// Server adapts Controller to the pb.TestSequencerServer RPC interface,
// converting internal errors to gRPC status codes at the boundary.
type Server struct {
	pb.UnimplementedTestSequencerServer
	controller *Controller
}

func NewServer(controller *Controller) *Server {
	return &Server{controller: controller}
}

func (s *Server) RegisterNode(ctx context.Context, req *pb.NodeRegistration) (*pb.NodeConfig, error) {
	cfg, err := s.controller.RegisterNode(req)
	if err != nil {
		return nil, seqerr.ToGRPC(err)
	}
	return cfg, nil
}

func (s *Server) RunTestSequence(ctx context.Context, req *pb.TestSequence) (*pb.TestSequenceResults, error) {
	results, err := s.controller.RunTestSequence(ctx, req)
	if err != nil {
		return nil, seqerr.ToGRPC(err)
	}
	return results, nil
}
