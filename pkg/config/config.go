package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tourbook/pkg/client"
	"tourbook/pkg/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	JWTAccessSecret   string
	JWTRefreshSecret  string
	JWTAccessExpires  time.Duration
	JWTRefreshExpires time.Duration
	BcryptCost        int

	SuperAdminEmail    string
	SuperAdminPassword string

	GatewayBaseURL   string
	GatewayStoreID   string
	GatewayStorePass string
	GatewayTimeout   time.Duration
	PaymentSuccess   string
	PaymentFail      string
	PaymentCancel    string

	RedisURL string
	OTPTTL   time.Duration

	KafkaBrokers    []string
	KafkaEventTopic string

	Log    *logger.Logger
	Client *client.Client
}

// Load reads environment (with .env support), builds the logger and the
// shared client container, and validates the result. Fatal on invalid config.
func Load(serviceName string) *Config {
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		JWTAccessSecret:   getEnvStr(EnvJWTAccessSecret, ""),
		JWTRefreshSecret:  getEnvStr(EnvJWTRefreshSecret, ""),
		JWTAccessExpires:  getEnvDuration(EnvJWTAccessExpires, DefaultJWTAccessExpires),
		JWTRefreshExpires: getEnvDuration(EnvJWTRefreshExpires, DefaultJWTRefreshExpires),
		BcryptCost:        getEnvNum(EnvBcryptCost, DefaultBcryptCost),

		SuperAdminEmail:    getEnvStr(EnvSuperAdminEmail, ""),
		SuperAdminPassword: getEnvStr(EnvSuperAdminPassword, ""),

		GatewayBaseURL:   getEnvStr(EnvGatewayBaseURL, ""),
		GatewayStoreID:   getEnvStr(EnvGatewayStoreID, ""),
		GatewayStorePass: getEnvStr(EnvGatewayStorePass, ""),
		GatewayTimeout:   getEnvDuration(EnvGatewayTimeout, DefaultGatewayTimeout),
		PaymentSuccess:   getEnvStr(EnvPaymentSuccess, ""),
		PaymentFail:      getEnvStr(EnvPaymentFail, ""),
		PaymentCancel:    getEnvStr(EnvPaymentCancel, ""),

		RedisURL: getEnvStr(EnvRedisURL, ""),
		OTPTTL:   getEnvDuration(EnvOTPTTL, DefaultOTPTTL),

		KafkaBrokers:    getEnvList(EnvKafkaBrokers),
		KafkaEventTopic: getEnvStr(EnvKafkaEventTopic, DefaultKafkaEventTopic),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    "json",
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetRedis() {
	cfg.Client.SetRedis(cfg.Log, cfg.RedisURL)
}

func (cfg *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		problems = append(problems, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		problems = append(problems, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		problems = append(problems, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if cfg.JWTAccessSecret == "" {
		problems = append(problems, "JWTAccessSecret cannot be empty")
	}
	if cfg.JWTRefreshSecret == "" {
		problems = append(problems, "JWTRefreshSecret cannot be empty")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		problems = append(problems, fmt.Sprintf("BcryptCost must be between 4 and 31, got: %d", cfg.BcryptCost))
	}

	for name, d := range map[string]time.Duration{
		"RequestTimeout":    cfg.RequestTimeout,
		"ReadTimeout":       cfg.ReadTimeout,
		"WriteTimeout":      cfg.WriteTimeout,
		"IdleTimeout":       cfg.IdleTimeout,
		"ShutdownTimeout":   cfg.ShutdownTimeout,
		"GatewayTimeout":    cfg.GatewayTimeout,
		"OTPTTL":            cfg.OTPTTL,
		"JWTAccessExpires":  cfg.JWTAccessExpires,
		"JWTRefreshExpires": cfg.JWTRefreshExpires,
	} {
		if d <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}

	if cfg.MaxRequestSize <= 0 {
		problems = append(problems, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if len(problems) > 0 {
		msg := "Configuration validation failed:\n"
		for i, p := range problems {
			msg += fmt.Sprintf("  %d. %s\n", i+1, p)
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"jwt_access_expires", cfg.JWTAccessExpires,
		"jwt_refresh_expires", cfg.JWTRefreshExpires,
		"gateway_base_url", cfg.GatewayBaseURL,
		"gateway_store_id_set", cfg.GatewayStoreID != "",
		"redis_configured", cfg.RedisURL != "",
		"otp_ttl", cfg.OTPTTL,
		"kafka_brokers", cfg.KafkaBrokers,
		"kafka_event_topic", cfg.KafkaEventTopic,
		"super_admin_seed", cfg.SuperAdminEmail != "",
	)
}

func redactURI(uri string) string {
	credentialRegex := regexp.MustCompile(`((?:mongodb(?:\+srv)?|rediss?)://)[^:/]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}
