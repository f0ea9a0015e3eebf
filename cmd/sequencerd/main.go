package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dbench/sequencer/internal/audit"
	"github.com/dbench/sequencer/internal/config"
	"github.com/dbench/sequencer/internal/lifecycle"
	"github.com/dbench/sequencer/internal/nodeclient"
	"github.com/dbench/sequencer/internal/registry"
	"github.com/dbench/sequencer/internal/rpccodec"
	"github.com/dbench/sequencer/internal/sequencer"
	"github.com/dbench/sequencer/pb"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
)

func main() {
	log.SetFormatter(&log.TextFormatter{TimestampFormat: "15:04.000"})

	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.ParseConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	serverCreds, err := cfg.ServerTransportCredentials()
	if err != nil {
		log.Fatal(err)
	}
	nodeCreds, err := cfg.NodeTransportCredentials()
	if err != nil {
		log.Fatal(err)
	}

	var auditSink sequencer.AuditSink
	if cfg.AuditDBPath != "" {
		store, err := audit.Open(cfg.AuditDBPath)
		if err != nil {
			log.Fatal(err)
		}
		defer store.Close()
		auditSink = store
		log.Infof("[Sequencer] auditing enabled at %s", cfg.AuditDBPath)
	}

	dialer := func(target string) (nodeclient.Stub, error) {
		return nodeclient.Dial(target, nodeCreds)
	}
	reg := registry.New(dialer)
	controller := sequencer.NewController(reg, auditSink)
	server := sequencer.NewServer(controller)

	grpcServer := grpc.NewServer(grpc.Creds(serverCreds), grpc.ForceServerCodec(rpccodec.Codec{}))
	pb.RegisterTestSequencerServer(grpcServer, server)

	addr := fmt.Sprintf("[::]:%d", cfg.Port)
	lc := lifecycle.New(lifecycle.Options{Addr: addr, Server: grpcServer})
	if err := lc.Initialize(); err != nil {
		log.Fatal(err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Infof("[Sequencer] received %s, shutting down", sig)
		lc.Shutdown()
	}()

	if err := lc.Wait(); err != nil {
		log.Fatal(err)
	}
}
