package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// TestSequencerClient is the client API for the TestSequencer service.
type TestSequencerClient interface {
	RegisterNode(ctx context.Context, in *NodeRegistration, opts ...grpc.CallOption) (*NodeConfig, error)
	RunTestSequence(ctx context.Context, in *TestSequence, opts ...grpc.CallOption) (*TestSequenceResults, error)
}

type testSequencerClient struct {
	cc grpc.ClientConnInterface
}

func NewTestSequencerClient(cc grpc.ClientConnInterface) TestSequencerClient {
	return &testSequencerClient{cc}
}

func (c *testSequencerClient) RegisterNode(ctx context.Context, in *NodeRegistration, opts ...grpc.CallOption) (*NodeConfig, error) {
	out := new(NodeConfig)
	if err := c.cc.Invoke(ctx, "/distbench.TestSequencer/RegisterNode", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *testSequencerClient) RunTestSequence(ctx context.Context, in *TestSequence, opts ...grpc.CallOption) (*TestSequenceResults, error) {
	out := new(TestSequenceResults)
	if err := c.cc.Invoke(ctx, "/distbench.TestSequencer/RunTestSequence", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// TestSequencerServer is the server API for the TestSequencer service.
type TestSequencerServer interface {
	RegisterNode(context.Context, *NodeRegistration) (*NodeConfig, error)
	RunTestSequence(context.Context, *TestSequence) (*TestSequenceResults, error)
	mustEmbedUnimplementedTestSequencerServer()
}

// UnimplementedTestSequencerServer must be embedded to have forward
// compatible implementations.
type UnimplementedTestSequencerServer struct{}

func (UnimplementedTestSequencerServer) RegisterNode(context.Context, *NodeRegistration) (*NodeConfig, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RegisterNode not implemented")
}

func (UnimplementedTestSequencerServer) RunTestSequence(context.Context, *TestSequence) (*TestSequenceResults, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RunTestSequence not implemented")
}

func (UnimplementedTestSequencerServer) mustEmbedUnimplementedTestSequencerServer() {}

func RegisterTestSequencerServer(s grpc.ServiceRegistrar, srv TestSequencerServer) {
	s.RegisterService(&TestSequencer_ServiceDesc, srv)
}

func _TestSequencer_RegisterNode_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(NodeRegistration)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TestSequencerServer).RegisterNode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/distbench.TestSequencer/RegisterNode"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TestSequencerServer).RegisterNode(ctx, req.(*NodeRegistration))
	}
	return interceptor(ctx, in, info, handler)
}

func _TestSequencer_RunTestSequence_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(TestSequence)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TestSequencerServer).RunTestSequence(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/distbench.TestSequencer/RunTestSequence"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TestSequencerServer).RunTestSequence(ctx, req.(*TestSequence))
	}
	return interceptor(ctx, in, info, handler)
}

// TestSequencer_ServiceDesc is the grpc.ServiceDesc for the TestSequencer
// service. It is exported for use with grpc.ServiceRegistrar.
var TestSequencer_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "distbench.TestSequencer",
	HandlerType: (*TestSequencerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RegisterNode", Handler: _TestSequencer_RegisterNode_Handler},
		{MethodName: "RunTestSequence", Handler: _TestSequencer_RunTestSequence_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sequencer.proto",
}
