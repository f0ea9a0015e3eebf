package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// NodeManagerClient is the client API for the NodeManager service that a
// node manager exposes and the sequencer dials out to. It is consumed,
// not implemented, by this repository (implementations live on worker
// hosts, out of scope per the framework's Non-goals).
type NodeManagerClient interface {
	ConfigureNodes(ctx context.Context, in *ConfigureRequest, opts ...grpc.CallOption) (*ConfigureResponse, error)
	IntroducePeers(ctx context.Context, in *IntroduceRequest, opts ...grpc.CallOption) (*IntroduceResponse, error)
	RunTraffic(ctx context.Context, in *RunTrafficRequest, opts ...grpc.CallOption) (*RunTrafficResponse, error)
	CancelTraffic(ctx context.Context, in *CancelTrafficRequest, opts ...grpc.CallOption) (*CancelTrafficResponse, error)
}

type nodeManagerClient struct {
	cc grpc.ClientConnInterface
}

func NewNodeManagerClient(cc grpc.ClientConnInterface) NodeManagerClient {
	return &nodeManagerClient{cc}
}

func (c *nodeManagerClient) ConfigureNodes(ctx context.Context, in *ConfigureRequest, opts ...grpc.CallOption) (*ConfigureResponse, error) {
	out := new(ConfigureResponse)
	if err := c.cc.Invoke(ctx, "/distbench.NodeManager/ConfigureNodes", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeManagerClient) IntroducePeers(ctx context.Context, in *IntroduceRequest, opts ...grpc.CallOption) (*IntroduceResponse, error) {
	out := new(IntroduceResponse)
	if err := c.cc.Invoke(ctx, "/distbench.NodeManager/IntroducePeers", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeManagerClient) RunTraffic(ctx context.Context, in *RunTrafficRequest, opts ...grpc.CallOption) (*RunTrafficResponse, error) {
	out := new(RunTrafficResponse)
	if err := c.cc.Invoke(ctx, "/distbench.NodeManager/RunTraffic", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeManagerClient) CancelTraffic(ctx context.Context, in *CancelTrafficRequest, opts ...grpc.CallOption) (*CancelTrafficResponse, error) {
	out := new(CancelTrafficResponse)
	if err := c.cc.Invoke(ctx, "/distbench.NodeManager/CancelTraffic", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// NodeManagerServer is the server API a node manager must implement.
// Out of scope for this repository: nothing here implements it.
// internal/nodesim fakes the client-side nodeclient.Stub instead.
type NodeManagerServer interface {
	ConfigureNodes(context.Context, *ConfigureRequest) (*ConfigureResponse, error)
	IntroducePeers(context.Context, *IntroduceRequest) (*IntroduceResponse, error)
	RunTraffic(context.Context, *RunTrafficRequest) (*RunTrafficResponse, error)
	CancelTraffic(context.Context, *CancelTrafficRequest) (*CancelTrafficResponse, error)
	mustEmbedUnimplementedNodeManagerServer()
}

type UnimplementedNodeManagerServer struct{}

func (UnimplementedNodeManagerServer) ConfigureNodes(context.Context, *ConfigureRequest) (*ConfigureResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ConfigureNodes not implemented")
}

func (UnimplementedNodeManagerServer) IntroducePeers(context.Context, *IntroduceRequest) (*IntroduceResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method IntroducePeers not implemented")
}

func (UnimplementedNodeManagerServer) RunTraffic(context.Context, *RunTrafficRequest) (*RunTrafficResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RunTraffic not implemented")
}

func (UnimplementedNodeManagerServer) CancelTraffic(context.Context, *CancelTrafficRequest) (*CancelTrafficResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CancelTraffic not implemented")
}

func (UnimplementedNodeManagerServer) mustEmbedUnimplementedNodeManagerServer() {}

func RegisterNodeManagerServer(s grpc.ServiceRegistrar, srv NodeManagerServer) {
	s.RegisterService(&NodeManager_ServiceDesc, srv)
}

var NodeManager_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "distbench.NodeManager",
	HandlerType: (*NodeManagerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ConfigureNodes", Handler: _NodeManager_ConfigureNodes_Handler},
		{MethodName: "IntroducePeers", Handler: _NodeManager_IntroducePeers_Handler},
		{MethodName: "RunTraffic", Handler: _NodeManager_RunTraffic_Handler},
		{MethodName: "CancelTraffic", Handler: _NodeManager_CancelTraffic_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sequencer.proto",
}

func _NodeManager_ConfigureNodes_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ConfigureRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeManagerServer).ConfigureNodes(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/distbench.NodeManager/ConfigureNodes"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeManagerServer).ConfigureNodes(ctx, req.(*ConfigureRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _NodeManager_IntroducePeers_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(IntroduceRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeManagerServer).IntroducePeers(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/distbench.NodeManager/IntroducePeers"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeManagerServer).IntroducePeers(ctx, req.(*IntroduceRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _NodeManager_RunTraffic_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RunTrafficRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeManagerServer).RunTraffic(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/distbench.NodeManager/RunTraffic"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeManagerServer).RunTraffic(ctx, req.(*RunTrafficRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _NodeManager_CancelTraffic_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CancelTrafficRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeManagerServer).CancelTraffic(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/distbench.NodeManager/CancelTraffic"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeManagerServer).CancelTraffic(ctx, req.(*CancelTrafficRequest))
	}
	return interceptor(ctx, in, info, handler)
}
