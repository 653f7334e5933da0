package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "tourbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultJWTAccessExpires  = 15 * time.Minute
	DefaultJWTRefreshExpires = 30 * 24 * time.Hour
	DefaultBcryptCost        = 10

	DefaultGatewayTimeout = 10 * time.Second

	DefaultOTPTTL = 2 * time.Minute

	DefaultKafkaEventTopic = "tourbook.events"
)
