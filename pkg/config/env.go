package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvJWTAccessSecret   = "JWT_ACCESS_SECRET"
	EnvJWTRefreshSecret  = "JWT_REFRESH_SECRET"
	EnvJWTAccessExpires  = "JWT_ACCESS_EXPIRES"
	EnvJWTRefreshExpires = "JWT_REFRESH_EXPIRES"
	EnvBcryptCost        = "BCRYPT_COST"

	EnvSuperAdminEmail    = "SUPER_ADMIN_EMAIL"
	EnvSuperAdminPassword = "SUPER_ADMIN_PASSWORD"

	EnvGatewayBaseURL   = "PAYMENT_GATEWAY_BASE_URL"
	EnvGatewayStoreID   = "PAYMENT_GATEWAY_STORE_ID"
	EnvGatewayStorePass = "PAYMENT_GATEWAY_STORE_PASSWORD"
	EnvGatewayTimeout   = "PAYMENT_GATEWAY_TIMEOUT"
	EnvPaymentSuccess   = "PAYMENT_SUCCESS_URL"
	EnvPaymentFail      = "PAYMENT_FAIL_URL"
	EnvPaymentCancel    = "PAYMENT_CANCEL_URL"

	EnvRedisURL = "REDIS_URL"
	EnvOTPTTL   = "OTP_TTL"

	EnvKafkaBrokers    = "KAFKA_BROKERS"
	EnvKafkaEventTopic = "KAFKA_EVENT_TOPIC"
)
