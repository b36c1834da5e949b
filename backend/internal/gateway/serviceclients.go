package gateway

import (
	"log"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"honors_gwa/backend/internal/auth"
	"honors_gwa/backend/internal/gateway/handlers"
	"honors_gwa/backend/internal/rpc"
	"honors_gwa/backend/internal/shared"
)

// ServiceClients holds what the request handlers call into: the honors
// service over gRPC and the local token issuer.
type ServiceClients struct {
	Honors handlers.HonorsAPI
	Auth   handlers.Authenticator

	// Keep connections to close them later when the gateway shuts down
	conns []*grpc.ClientConn
}

// MustConnectGRPC creates a client connection to a gRPC server or exits.
// Connections are lazy: a down backend surfaces as codes.Unavailable per request.
func MustConnectGRPC(addr string, cfg shared.GRPCConfig) *grpc.ClientConn {
	log.Printf("INFO: Connecting to gRPC service at %s...", addr)

	opts := []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	if cfg.MaxRecvMsgSize > 0 {
		opts = append(opts, grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(cfg.MaxRecvMsgSize),
			grpc.MaxCallSendMsgSize(cfg.MaxSendMsgSize),
		))
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		log.Fatalf("FATAL: Failed to create gRPC client for %s: %v", addr, err)
	}

	log.Printf("INFO: gRPC client ready for %s", addr)
	return conn
}

// NewServiceClients connects to the honors service and builds the token
// issuer over users.
func NewServiceClients(cfg *shared.GatewayConfig, users auth.UserFinder) *ServiceClients {
	honorsConn := MustConnectGRPC(cfg.HonorsServiceAddr, cfg.GRPC)

	return &ServiceClients{
		Honors: rpc.NewClient(honorsConn),
		Auth:   auth.NewAuthService(users, cfg.Security),
		conns:  []*grpc.ClientConn{honorsConn},
	}
}

// Close closes all underlying gRPC connections.
// Should be called via defer in main().
func (sc *ServiceClients) Close() {
	for _, conn := range sc.conns {
		if err := conn.Close(); err != nil {
			log.Printf("WARN: Error closing gRPC connection: %v", err)
		}
	}
}
