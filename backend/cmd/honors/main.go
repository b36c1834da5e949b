package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"honors_gwa/backend/internal/events"
	"honors_gwa/backend/internal/honors"
	"honors_gwa/backend/internal/rpc"
	"honors_gwa/backend/internal/shared"
	"honors_gwa/backend/internal/store"
)

func main() {
	// Load environment variables
	if err := shared.LoadEnv(".env"); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// 1. Load Configuration
	cfg, err := shared.LoadServiceConfig("honors-service")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := shared.ValidateServiceConfig(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if shared.IsDevelopment(cfg) {
		shared.PrintConfig(cfg)
	}

	// 2. Connect to MongoDB
	client, db, err := shared.ConnectMongoDB(&cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	st := store.New(db)
	indexCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := st.EnsureIndexes(indexCtx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	cancel()

	// 3. Application events
	publisher := events.NewPublisher(cfg.Kafka)
	if publisher.Enabled() {
		log.Printf("INFO: Publishing application events to %s on %v", cfg.Kafka.Topic, cfg.Kafka.Brokers)
	} else {
		log.Println("INFO: KAFKA_BROKERS not set, application events are disabled")
	}

	// 4. Initialize Honors Service
	deps := st.Dependencies()
	deps.Notifier = publisher
	deps.RankingConcurrency = cfg.RankingFetchConcurrency
	svc := honors.NewService(deps)

	// 5. Create gRPC Server
	grpcServer := grpc.NewServer(
		grpc.MaxRecvMsgSize(cfg.GRPC.MaxRecvMsgSize),
		grpc.MaxSendMsgSize(cfg.GRPC.MaxSendMsgSize),
	)
	rpc.RegisterHonorsServer(grpcServer, rpc.NewServer(svc, cfg.GRPC.RequestTimeout))

	// 6. Register Health Server
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(rpc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	// 7. Start Listening
	listener, err := net.Listen("tcp", ":"+cfg.ServicePort)
	if err != nil {
		log.Fatalf("Failed to listen on port %s: %v", cfg.ServicePort, err)
	}

	// 8. Graceful Shutdown
	go func() {
		log.Printf("Honors Service is listening on port %s", cfg.ServicePort)
		if err := grpcServer.Serve(listener); err != nil {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down Honors Service...")
	healthServer.SetServingStatus(rpc.ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	grpcServer.GracefulStop()

	if err := publisher.Close(); err != nil {
		log.Printf("Error closing event publisher: %v", err)
	}
	if err := shared.DisconnectMongoDB(client); err != nil {
		log.Printf("Error disconnecting from MongoDB: %v", err)
	}
	log.Println("Honors Service stopped")
}
