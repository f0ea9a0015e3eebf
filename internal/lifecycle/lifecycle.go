// Package lifecycle is the reusable start/stop/wait component named in
// the framework's component table: Initialize binds and starts serving,
// Shutdown stops accepting new requests and cancels in-flight calls,
// and Wait blocks until the server has fully drained. Grounded on the
// teacher's SimpleTimer (a small mutex-guarded running/not-running
// wrapper around a blocking primitive), generalized from a timer to a
// gRPC server's accept/drain loop.
package lifecycle

import (
	"fmt"
	"net"
	"sync"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
)

// Options configures a Lifecycle.
type Options struct {
	// Addr is the listen address, e.g. "[::]:9090".
	Addr string
	// Server is the fully configured gRPC server (services already
	// registered) to run.
	Server *grpc.Server
}

// Lifecycle owns one gRPC server's accept loop and exposes Initialize,
// Shutdown, and Wait as named, independently callable operations.
type Lifecycle struct {
	mu       sync.Mutex
	server   *grpc.Server
	addr     string
	lis      net.Listener
	running  bool
	done     chan struct{}
	serveErr error
}

// New constructs a Lifecycle that has not yet been initialized.
func New(opts Options) *Lifecycle {
	return &Lifecycle{server: opts.Server, addr: opts.Addr}
}

// Initialize binds the configured address and starts the server's
// accept loop on a background goroutine. It is an error to call
// Initialize twice.
func (l *Lifecycle) Initialize() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return fmt.Errorf("lifecycle: already initialized")
	}

	lis, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("lifecycle: failed to listen on %s: %w", l.addr, err)
	}
	l.lis = lis
	l.running = true
	l.done = make(chan struct{})

	go func() {
		defer close(l.done)
		l.serveErr = l.server.Serve(lis)
	}()

	log.Infof("[Lifecycle] gRPC server listening on %s", lis.Addr())
	return nil
}

// Addr returns the address Initialize actually bound, which may differ
// from the configured Addr (e.g. a ":0" port resolved to an ephemeral
// one). It returns nil until Initialize succeeds.
func (l *Lifecycle) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lis == nil {
		return nil
	}
	return l.lis.Addr()
}

// Shutdown stops the server from accepting new requests and cancels
// every in-flight RPC (grpc.Server.Stop), closing its listener and
// connections. It is idempotent and safe to call even if Initialize was
// never called.
func (l *Lifecycle) Shutdown() {
	l.mu.Lock()
	running := l.running
	l.mu.Unlock()
	if !running {
		return
	}
	log.Infof("[Lifecycle] shutting down gRPC server on %s", l.addr)
	l.server.Stop()
}

// Wait blocks until the server's accept loop has returned, then
// reports why. A nil error means Shutdown stopped it.
func (l *Lifecycle) Wait() error {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done == nil {
		return nil
	}
	<-done
	if l.serveErr == grpc.ErrServerStopped {
		return nil
	}
	return l.serveErr
}
