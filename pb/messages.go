// Package pb holds the message and service types exchanged between the
// test sequencer and its two RPC peers: external clients (TestSequencer
// service) and node managers (NodeManager service). These types mirror
// what protoc-gen-go/protoc-gen-go-grpc would emit from the framework's
// .proto definitions; the descriptor/reflection plumbing that only protoc
// itself can produce correctly is intentionally left out (see DESIGN.md).
package pb

// NodeRegistration is sent by a node manager when it comes up, so the
// sequencer can learn how to reach it.
type NodeRegistration struct {
	Hostname    string            `protobuf:"bytes,1,opt,name=hostname,proto3"`
	ControlPort int32             `protobuf:"varint,2,opt,name=control_port,proto3"`
	Tags        map[string]string `protobuf:"bytes,3,rep,name=tags,proto3"`
}

func (m *NodeRegistration) GetHostname() string {
	if m == nil {
		return ""
	}
	return m.Hostname
}

func (m *NodeRegistration) GetControlPort() int32 {
	if m == nil {
		return 0
	}
	return m.ControlPort
}

// NodeConfig is the sequencer's reply to a successful RegisterNode call.
type NodeConfig struct {
	NodeId    int64  `protobuf:"varint,1,opt,name=node_id,proto3"`
	NodeAlias string `protobuf:"bytes,2,opt,name=node_alias,proto3"`
}

// ServiceSpec describes one service type and how many instances of it
// a distributed system description wants placed.
type ServiceSpec struct {
	ServerType string `protobuf:"bytes,1,opt,name=server_type,proto3"`
	Count      int32  `protobuf:"varint,2,opt,name=count,proto3"`
}

// NodeServiceBundle pins a set of service instances to a specific node
// alias, ahead of auto-placement.
type NodeServiceBundle struct {
	Alias    string   `protobuf:"bytes,1,opt,name=alias,proto3"`
	Services []string `protobuf:"bytes,2,rep,name=services,proto3"`
}

// DistributedSystemDescription is one test in a TestSequence.
type DistributedSystemDescription struct {
	Services           []*ServiceSpec       `protobuf:"bytes,1,rep,name=services,proto3"`
	NodeServiceBundles []*NodeServiceBundle `protobuf:"bytes,2,rep,name=node_service_bundles,proto3"`
}

// TestSequence is the ordered batch of tests a client submits in a
// single RunTestSequence call.
type TestSequence struct {
	Tests []*DistributedSystemDescription `protobuf:"bytes,1,rep,name=tests,proto3"`
}

// ServiceEndpoints holds the one-or-more network endpoints a single
// service instance exposes.
type ServiceEndpoints struct {
	Endpoints []string `protobuf:"bytes,1,rep,name=endpoints,proto3"`
}

// ServiceEndpointMap maps a service-instance name (e.g. "leader/0") to
// its endpoints. It is built by merging Configure responses and is
// reused, unmodified, as the "placement" field of a TestResult.
type ServiceEndpointMap struct {
	Entries map[string]*ServiceEndpoints `protobuf:"bytes,1,rep,name=entries,proto3"`
}

// ServiceLogs maps a service-instance name to the log text collected
// for it after RunTraffic.
type ServiceLogs struct {
	Entries map[string]string `protobuf:"bytes,1,rep,name=entries,proto3"`
}

// Diagnostics widens a collapsed RPC-phase failure with the first
// underlying alias/status observed, per the framework's allowance for
// additive detail beyond the flat "Unknown RPC error" message.
type Diagnostics struct {
	FirstFailureAlias string `protobuf:"bytes,1,opt,name=first_failure_alias,proto3"`
	FirstFailureCode  string `protobuf:"bytes,2,opt,name=first_failure_code,proto3"`
	Message           string `protobuf:"bytes,3,opt,name=message,proto3"`
}

// TestResult is the outcome of running one DistributedSystemDescription.
type TestResult struct {
	Description *DistributedSystemDescription `protobuf:"bytes,1,opt,name=description,proto3"`
	Placement   *ServiceEndpointMap           `protobuf:"bytes,2,opt,name=placement,proto3"`
	Logs        *ServiceLogs                  `protobuf:"bytes,3,opt,name=logs,proto3"`
	Diagnostics *Diagnostics                  `protobuf:"bytes,4,opt,name=diagnostics,proto3"`
}

// TestSequenceResults is the reply to RunTestSequence.
type TestSequenceResults struct {
	Results []*TestResult `protobuf:"bytes,1,rep,name=results,proto3"`
}

// ConfigureRequest is sent to one node manager during the Configure
// phase: the full test description, plus only the service instances
// that node must run.
type ConfigureRequest struct {
	Description *DistributedSystemDescription `protobuf:"bytes,1,opt,name=description,proto3"`
	Services    []string                      `protobuf:"bytes,2,rep,name=services,proto3"`
}

// ConfigureResponse carries the endpoints the node assigned to the
// service instances it was asked to run.
type ConfigureResponse struct {
	Endpoints *ServiceEndpointMap `protobuf:"bytes,1,opt,name=endpoints,proto3"`
}

// IntroduceRequest carries the fully-merged endpoint map so a node can
// locate its peers.
type IntroduceRequest struct {
	Endpoints *ServiceEndpointMap `protobuf:"bytes,1,opt,name=endpoints,proto3"`
}

// IntroduceResponse is an empty acknowledgement.
type IntroduceResponse struct{}

// RunTrafficRequest triggers traffic generation against the services a
// node was configured with; it carries no further parameters.
type RunTrafficRequest struct{}

// RunTrafficResponse carries the logs collected for the node's service
// instances.
type RunTrafficResponse struct {
	Logs *ServiceLogs `protobuf:"bytes,1,opt,name=logs,proto3"`
}

// CancelTrafficRequest asks a node to stop any outstanding traffic
// generation immediately.
type CancelTrafficRequest struct{}

// CancelTrafficResponse is an empty acknowledgement.
type CancelTrafficResponse struct{}
