// ============================================================================
// backend/internal/shared/config.go
// Shared configuration management and environment variable helpers
// ============================================================================

package shared

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ============================================================================
// Configuration Structs
// ============================================================================

// ServiceConfig holds common configuration for the honors service and the gateway
type ServiceConfig struct {
	ServiceName string
	ServicePort string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error

	MongoDB  MongoConfig
	GRPC     GRPCConfig
	Security SecurityConfig
	Kafka    KafkaConfig

	// Concurrent grade reads while building one ranking export
	RankingFetchConcurrency int
}

// GRPCConfig holds gRPC-specific configuration
type GRPCConfig struct {
	MaxRecvMsgSize    int // Maximum receive message size in bytes
	MaxSendMsgSize    int // Maximum send message size in bytes
	ConnectionTimeout time.Duration
	RequestTimeout    time.Duration
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	JWTSecret          string
	JWTExpirationHours int
	BCryptCost         int
}

// KafkaConfig holds the application event publisher settings. No brokers disables publishing.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// GatewayConfig holds gateway-specific configuration
type GatewayConfig struct {
	ServiceConfig
	HTTPPort          string
	HonorsServiceAddr string
	CORS              CORSConfig
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int // in seconds
}

// ============================================================================
// Configuration Loading Functions
// ============================================================================

// LoadEnv loads environment variables from .env file
func LoadEnv(envFile string) error {
	if envFile == "" {
		envFile = ".env"
	}

	if err := godotenv.Load(envFile); err != nil {
		log.Printf("Warning: %s file not found, using system environment variables", envFile)
		return err
	}

	log.Printf("Successfully loaded environment from %s", envFile)
	return nil
}

// LoadServiceConfig loads common service configuration from environment
func LoadServiceConfig(serviceName string) (*ServiceConfig, error) {
	config := &ServiceConfig{
		ServiceName: serviceName,
		ServicePort: GetEnv("SERVICE_PORT", DefaultHonorsServicePort),
		Environment: GetEnv("ENVIRONMENT", "development"),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),
	}

	mongoURI := GetEnv("MONGO_URI", "")
	if mongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable is required")
	}

	config.MongoDB = MongoConfig{
		URI:            mongoURI,
		Database:       GetEnv("MONGO_DB_NAME", "HonorsDB"),
		ConnectTimeout: GetDurationEnv("MONGO_CONNECT_TIMEOUT", 20*time.Second),
		MaxPoolSize:    uint64(GetIntEnv("MONGO_MAX_POOL_SIZE", 50)),
		MinPoolSize:    uint64(GetIntEnv("MONGO_MIN_POOL_SIZE", 5)),
		MaxIdleTime:    GetDurationEnv("MONGO_MAX_IDLE_TIME", 30*time.Second),
	}

	config.GRPC = GRPCConfig{
		MaxRecvMsgSize:    GetIntEnv("GRPC_MAX_RECV_MSG_SIZE", 10*1024*1024), // 10MB
		MaxSendMsgSize:    GetIntEnv("GRPC_MAX_SEND_MSG_SIZE", 10*1024*1024), // 10MB
		ConnectionTimeout: GetDurationEnv("GRPC_CONNECTION_TIMEOUT", 10*time.Second),
		RequestTimeout:    GetDurationEnv("GRPC_REQUEST_TIMEOUT", 30*time.Second),
	}

	config.Security = SecurityConfig{
		JWTSecret:          GetEnv("JWT_SECRET", ""),
		JWTExpirationHours: GetIntEnv("JWT_EXPIRATION_HOURS", 24),
		BCryptCost:         GetIntEnv("BCRYPT_COST", 10),
	}

	config.Kafka = KafkaConfig{
		Brokers: GetStringSliceEnv("KAFKA_BROKERS", nil),
		Topic:   GetEnv("KAFKA_TOPIC", DefaultKafkaTopic),
	}

	config.RankingFetchConcurrency = GetIntEnv("RANKING_FETCH_CONCURRENCY", 8)

	if config.Security.JWTSecret == "" && serviceName == "gateway" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required for the gateway")
	}

	return config, nil
}

// LoadGatewayConfig loads gateway-specific configuration
func LoadGatewayConfig() (*GatewayConfig, error) {
	baseConfig, err := LoadServiceConfig("gateway")
	if err != nil {
		return nil, err
	}

	config := &GatewayConfig{
		ServiceConfig:     *baseConfig,
		HTTPPort:          GetEnv("HTTP_PORT", DefaultGatewayHTTPPort),
		HonorsServiceAddr: GetEnv("HONORS_SERVICE_ADDR", "localhost:"+DefaultHonorsServicePort),
	}

	config.CORS = CORSConfig{
		AllowedOrigins:   GetStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		AllowedMethods:   GetStringSliceEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}),
		AllowedHeaders:   GetStringSliceEnv("CORS_ALLOWED_HEADERS", []string{"Accept", "Authorization", "Content-Type"}),
		AllowCredentials: GetBoolEnv("CORS_ALLOW_CREDENTIALS", true),
		MaxAge:           GetIntEnv("CORS_MAX_AGE", 300),
	}

	return config, nil
}

// ============================================================================
// Environment Variable Helper Functions
// ============================================================================

// GetEnv retrieves an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetIntEnv retrieves an integer environment variable or returns a default value
func GetIntEnv(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// GetBoolEnv retrieves a boolean environment variable or returns a default value
func GetBoolEnv(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s: %s, using default: %t", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// GetDurationEnv retrieves a duration environment variable or returns a default value
// Supports format like "30s", "5m", "1h"
func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s: %s, using default: %v", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// GetStringSliceEnv retrieves a comma-separated string list or returns a default value
func GetStringSliceEnv(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var result []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}

// ============================================================================
// Configuration Validation
// ============================================================================

// ValidateServiceConfig validates service configuration
func ValidateServiceConfig(config *ServiceConfig) error {
	if config.ServiceName == "" {
		return fmt.Errorf("service name is required")
	}

	if config.ServicePort == "" {
		return fmt.Errorf("service port is required")
	}

	if config.MongoDB.URI == "" {
		return fmt.Errorf("MongoDB URI is required")
	}

	if config.MongoDB.Database == "" {
		return fmt.Errorf("MongoDB database name is required")
	}

	if config.RankingFetchConcurrency < 1 {
		return fmt.Errorf("ranking fetch concurrency must be at least 1")
	}

	if len(config.Kafka.Brokers) > 0 && config.Kafka.Topic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return nil
}

// ValidateGatewayConfig validates gateway configuration
func ValidateGatewayConfig(config *GatewayConfig) error {
	if err := ValidateServiceConfig(&config.ServiceConfig); err != nil {
		return err
	}

	if config.HTTPPort == "" {
		return fmt.Errorf("HTTP port is required")
	}

	if config.HonorsServiceAddr == "" {
		return fmt.Errorf("honors service address is required")
	}

	return nil
}

// ============================================================================
// Configuration Display (for debugging)
// ============================================================================

// PrintConfig prints configuration (sanitized) for debugging
func PrintConfig(config *ServiceConfig) {
	log.Println("=== Service Configuration ===")
	log.Printf("Service Name: %s", config.ServiceName)
	log.Printf("Service Port: %s", config.ServicePort)
	log.Printf("Environment: %s", config.Environment)
	log.Printf("Log Level: %s", config.LogLevel)
	log.Println("=== MongoDB Configuration ===")
	log.Printf("Database: %s", config.MongoDB.Database)
	log.Printf("Max Pool Size: %d", config.MongoDB.MaxPoolSize)
	log.Printf("Min Pool Size: %d", config.MongoDB.MinPoolSize)
	log.Println("=== gRPC Configuration ===")
	log.Printf("Max Recv Msg Size: %d bytes", config.GRPC.MaxRecvMsgSize)
	log.Printf("Max Send Msg Size: %d bytes", config.GRPC.MaxSendMsgSize)
	log.Printf("Request Timeout: %v", config.GRPC.RequestTimeout)
	log.Println("=== Events Configuration ===")
	log.Printf("Kafka Brokers: %v", config.Kafka.Brokers)
	log.Printf("Kafka Topic: %s", config.Kafka.Topic)
	log.Printf("Ranking Fetch Concurrency: %d", config.RankingFetchConcurrency)
	log.Println("=============================")
}

// PrintGatewayConfig prints gateway configuration (sanitized)
func PrintGatewayConfig(config *GatewayConfig) {
	PrintConfig(&config.ServiceConfig)
	log.Println("=== Gateway-Specific Configuration ===")
	log.Printf("HTTP Port: %s", config.HTTPPort)
	log.Printf("Honors Service: %s", config.HonorsServiceAddr)
	log.Printf("JWT Expiration: %d hours", config.Security.JWTExpirationHours)
	log.Printf("Allowed Origins: %v", config.CORS.AllowedOrigins)
	log.Printf("Allow Credentials: %t", config.CORS.AllowCredentials)
	log.Println("======================================")
}

const (
	DefaultGatewayHTTPPort   = "8080"
	DefaultHonorsServicePort = "50056"
	DefaultKafkaTopic        = "honors.applications"
)

// IsDevelopment checks if running in development environment
func IsDevelopment(config *ServiceConfig) bool {
	return config.Environment == "development"
}
