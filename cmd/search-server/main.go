package main

import (
	"context"
	"log"
	"net"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"shicihub/internal/app"
	"shicihub/internal/grpcsearch"
	"shicihub/pkg/utils"
)

// search-server exposes the bleve index over gRPC as the search_poems
// service, for API servers started with SHICI_SEARCH_BACKEND=grpc.
func main() {
	cfg, err := utils.LoadAppConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	// this process is the backend; it always serves from its own index
	cfg.SearchBackend = utils.BackendIndex

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer a.Close()

	go a.RefreshLoop(ctx)

	listener, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("grpc listen failed: %v", err)
	}

	grpcServer := grpc.NewServer()
	grpcsearch.Register(grpcServer, grpcsearch.NewServer(a.Index))

	go func() {
		<-ctx.Done()
		log.Printf("shutting down gRPC server")
		grpcServer.GracefulStop()
	}()

	log.Printf("gRPC search server listening on %s (%d poems indexed)", cfg.GRPCAddr, a.Index.Len())
	if err := grpcServer.Serve(listener); err != nil {
		log.Fatalf("grpc server stopped: %v", err)
	}
}
